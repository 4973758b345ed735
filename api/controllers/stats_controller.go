package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	apimodels "github.com/abakedjoetato/Fbtrial-sub001/api/models"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/database"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/models"
)

type StatsController struct {
	db *database.Database
}

func NewStatsController(db *database.Database) *StatsController {
	return &StatsController{db: db}
}

func (sc *StatsController) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	usage, err := models.GetCommandUsage(ctx, sc.db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load command usage"})
		return
	}

	counts := make(map[string]int64)
	for _, collection := range []string{
		models.GuildCollection,
		models.UserCollection,
		models.PlayerCollection,
		models.PlayerLinkCollection,
		models.RivalryCollection,
		models.BountyCollection,
	} {
		res := sc.db.CountDocuments(ctx, collection, bson.M{})
		if res.Success {
			counts[collection] = res.Count
		}
	}

	c.JSON(http.StatusOK, apimodels.StatsResponse{
		CommandsTotal:  usage.Total,
		CommandCounts:  usage.Commands,
		RecordCounts:   counts,
		UsingFallback:  sc.db.UsingFallback(),
		GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
	})
}
