package web

import (
	"log"
	"net/http"
	"time"

	"github.com/designertech992/stocks-forecast/internal/config"
	"github.com/designertech992/stocks-forecast/internal/tips"
	"github.com/gin-gonic/gin"
)

// getDesignTips reads the tips document from disk on every request and returns it as JSON.
// Any failure (missing file, permissions, bad JSON) becomes a 500 carrying the error text.
func (s *WebServer) getDesignTips(c *gin.Context) {
	doc, err := tips.Load(s.Tips.File, s.Tips.Charset)
	if err != nil {
		log.Printf("[WEB]: Failed to load tips from %s: %v", s.Tips.File, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, doc)
}

// getStats returns JSON statistics data for the API
func (s *WebServer) getStats(c *gin.Context) {
	routes, err := s.Stats.GetRouteStats()
	if err != nil {
		log.Printf("[WEB]: Failed to get statistics: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uptime_seconds": int64(time.Since(s.StartTime).Seconds()),
		"started_at":     s.StartTime.UTC().Format(time.RFC3339),
		"routes":         routes,
		"app_version":    config.AppVersion,
	})
}
