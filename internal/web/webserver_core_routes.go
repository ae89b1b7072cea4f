// Package web provides the HTTP server for the design tips API
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/designertech992/stocks-forecast/internal/config"
	"github.com/designertech992/stocks-forecast/internal/database"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

// WebServer represents the web server
type WebServer struct {
	Router    *gin.Engine
	Config    *config.WebConfig
	Tips      config.TipsConfig
	Stats     *database.StatsDB // nil when stats are disabled
	StartTime time.Time         // Track server start time for uptime calculations
	httpSrv   *http.Server
}

// NewServer creates a new web server instance. stats may be nil.
func NewServer(mainConfig *config.MainConfig, stats *database.StatsDB) *WebServer {
	webconfig := mainConfig.Web
	if webconfig.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Configure Gin to trust reverse proxy headers
	// Set trusted proxies for common reverse proxy setups (nginx, etc.)
	if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}); err != nil {
		log.Printf("[WEB]: Warning: failed to set trusted proxies: %v", err)
	}

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	// Only add SSL-specific headers if SSL is enabled on the application itself
	// (not when running behind a reverse proxy like nginx with SSL)
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	server := &WebServer{
		Router:    router,
		Config:    webconfig,
		Tips:      mainConfig.Tips,
		Stats:     stats,
		StartTime: time.Now(),
	}
	server.httpSrv = &http.Server{
		Addr:         server.Addr(),
		Handler:      router,
		ReadTimeout:  webconfig.ReadTimeout,
		WriteTimeout: webconfig.WriteTimeout,
	}

	router.Use(gin.Recovery())
	if webconfig.Debug {
		router.Use(server.ApacheLogFormat())
	}
	router.Use(secure.New(secureConfig))
	router.Use(server.ReverseProxyMiddleware())
	if stats != nil {
		router.Use(server.StatsMiddleware())
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (s *WebServer) setupRoutes() {
	s.Router.GET("/", s.homePage)
	s.Router.GET("/design_tips", s.getDesignTips)
	s.Router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	// stats are only served when a stats database is configured
	if s.Stats != nil {
		s.Router.GET("/api/v1/stats", s.getStats)
		s.Router.GET("/api/v1/stats/", s.getStats)
	}

	s.Router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// Addr returns the listen address built from host and port
func (s *WebServer) Addr() string {
	return net.JoinHostPort(s.Config.ListenHost, strconv.Itoa(s.Config.ListenPort))
}

// Start starts the web server with SSL support if configured.
// It blocks until the server stops and returns http.ErrServerClosed after Shutdown.
func (s *WebServer) Start() error {
	addr := s.httpSrv.Addr

	if s.Config.SSL {
		if s.Config.CertFile == "" || s.Config.KeyFile == "" {
			return errors.New("SSL enabled but cert_file or key_file not specified in config")
		}
		log.Printf("[WEB]: Starting HTTPS server on %s", addr)
		return s.httpSrv.ListenAndServeTLS(s.Config.CertFile, s.Config.KeyFile)
	}
	log.Printf("[WEB]: Starting HTTP server on %s", addr)
	return s.httpSrv.ListenAndServe()
}

// Shutdown gracefully stops a server started with Start
func (s *WebServer) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// ReverseProxyMiddleware handles X-Forwarded headers when running behind a reverse proxy
func (s *WebServer) ReverseProxyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Handle X-Forwarded-Proto to detect if the original request was HTTPS
		if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" {
			c.Request.URL.Scheme = "https"
		}

		// Handle X-Forwarded-Host to get the original host
		if host := c.GetHeader("X-Forwarded-Host"); host != "" {
			c.Request.Host = host
		}

		c.Next()
	}
}

// StatsMiddleware counts every request that matched a route
func (s *WebServer) StatsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			return // no route matched
		}
		if err := s.Stats.RecordHit(normalizeRoute(route)); err != nil {
			log.Printf("[STATS]: %v", err)
		}
	}
}

// normalizeRoute folds "/x/" into "/x" so both spellings share a counter
func normalizeRoute(route string) string {
	if route == "/" {
		return route
	}
	return strings.TrimSuffix(route, "/")
}

// ApacheLogFormat writes the access log in Apache combined format
func (s *WebServer) ApacheLogFormat() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
			param.ClientIP,
			param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.BodySize,
			param.Request.Referer(),
			param.Request.UserAgent(),
		)
	})
}
