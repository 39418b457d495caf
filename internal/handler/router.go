package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rhnptl79/Map-Demo/internal/metrics"
)

// NewRouter は地図セッションAPIのルーティングを設定したginエンジンを返す
func NewRouter(h *MapSessionHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "map-demo"})
	})
	r.GET("/metrics", metrics.Handler())
	r.GET("/places", h.GetPlaces)

	sessions := r.Group("/sessions")
	{
		sessions.POST("", h.PostSession)
		sessions.DELETE("/:id", h.DeleteSession)
		sessions.POST("/:id/permission", h.PostPermission)
		sessions.POST("/:id/location", h.PostLocation)
		sessions.POST("/:id/double-tap", h.PostDoubleTap)
		sessions.POST("/:id/long-press", h.PostLongPress)
		sessions.POST("/:id/route", h.PostRoute)
		sessions.POST("/:id/places", h.PostPlaces)
		sessions.POST("/:id/callouts/:annotationID", h.PostCallout)
		sessions.GET("/:id/map", h.GetMap)
		sessions.GET("/:id/map.geojson", h.GetMapGeoJSON)
	}

	return r
}
