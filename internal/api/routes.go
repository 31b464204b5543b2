package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// timeNow is swapped in tests
var timeNow = time.Now

func SetupRoutes(router *gin.Engine, handler *Handler, allowedOrigins []string) {
	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	{
		api.GET("/simulation", handler.GetSimulation)
		api.GET("/report", handler.GetReport)
		api.GET("/listings", handler.GetListings)
		api.GET("/rates", handler.GetRates)
		api.GET("/history", handler.GetHistory)
		api.GET("/latest", handler.GetLatest)
		api.POST("/collect", handler.RunCollection)
		api.POST("/telegram/test", handler.TestTelegram)
	}
}
