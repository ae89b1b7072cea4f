package web

import (
	"net/http"

	"github.com/designertech992/stocks-forecast/internal/config"
	"github.com/gin-gonic/gin"
)

// homePage answers the root route with the welcome string
func (s *WebServer) homePage(c *gin.Context) {
	c.String(http.StatusOK, config.WelcomeMessage)
}
