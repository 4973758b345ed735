package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/abakedjoetato/Fbtrial-sub001/api/controllers"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/database"
)

func SetupRoutes(router *gin.Engine, db *database.Database) {
	healthController := controllers.NewHealthController(db)
	statsController := controllers.NewStatsController(db)

	router.GET("/health", healthController.CheckHealth)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/stats", statsController.GetStats)
	}
}
