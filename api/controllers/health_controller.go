package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abakedjoetato/Fbtrial-sub001/api/models"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/database"
)

type HealthController struct {
	startTime time.Time
	db        *database.Database
}

func NewHealthController(db *database.Database) *HealthController {
	return &HealthController{
		startTime: time.Now(),
		db:        db,
	}
}

func (hc *HealthController) CheckHealth(c *gin.Context) {
	uptime := time.Since(hc.startTime)

	mode := models.DatabaseModeDown
	if hc.db != nil && hc.db.Connected() {
		mode = models.DatabaseModeMongo
		if hc.db.UsingFallback() {
			mode = models.DatabaseModeFallback
		}
	}

	c.JSON(http.StatusOK, models.NewHealthResponse(uptime, mode))
}
