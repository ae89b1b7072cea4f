// Design tips web server
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	prof "github.com/go-while/go-cpu-mem-profiler"
	"github.com/gin-gonic/gin"
	"golang.org/x/term"

	"github.com/designertech992/stocks-forecast/internal/config"
	"github.com/designertech992/stocks-forecast/internal/database"
	"github.com/designertech992/stocks-forecast/internal/web"
)

var (
	// command-line flags
	webhost     string
	webport     int
	webssl      bool
	webcertFile string
	webkeyFile  string
	webdebug    bool
	tipsFile    string
	tipsCharset string
	statsDBPath string
	pprofAddr   string
)

var Prof *prof.Profiler

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion

	flag.StringVar(&webhost, "webhost", config.DefaultListenHost, "Web server listen host (default: 127.0.0.1)")
	flag.IntVar(&webport, "webport", 0, "Web server port (default: 5000)")
	flag.BoolVar(&webssl, "webssl", false, "Enable SSL")
	flag.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	flag.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	flag.BoolVar(&webdebug, "debug", false, "Enable gin debug mode and access log")
	flag.StringVar(&tipsFile, "tipsfile", config.DefaultTipsFile, "Path to the design tips JSON document")
	flag.StringVar(&tipsCharset, "tipscharset", config.DefaultTipsCharset, "Charset of the design tips file (utf-8, latin1, cp1252, ...)")
	flag.StringVar(&statsDBPath, "statsdb", "", "Path to the route stats SQLite database (empty disables /api/v1/stats)")
	flag.StringVar(&pprofAddr, "pprof", "", "Serve pprof on this address, e.g. 127.0.0.1:51111 (empty disables)")
	flag.Parse()

	mainConfig := config.NewDefaultConfig()
	log.Printf("Starting design tips web server (version: %s)", appVersion)

	if err := applyFlags(mainConfig); err != nil {
		log.Fatalf("[WEB]: %v", err)
	}
	log.Printf("[WEB]: Using WEB configuration: %#v", mainConfig.Web)
	log.Printf("[WEB]: Serving tips from %s (charset: %s)", mainConfig.Tips.File, mainConfig.Tips.Charset)

	if pprofAddr != "" {
		Prof = prof.NewProf()
		go Prof.PprofWeb(pprofAddr)
		log.Printf("[WEB]: pprof listening on %s", pprofAddr)
	}

	// No colors when logging into a file or pipe
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		gin.DisableConsoleColor()
	}

	var statsDB *database.StatsDB
	if mainConfig.StatsEnabled() {
		var err error
		statsDB, err = database.OpenStatsDB(mainConfig.Database.StatsDB)
		if err != nil {
			log.Fatalf("[WEB]: Failed to initialize stats database: %v", err)
		}
	}

	server := web.NewServer(mainConfig, statsDB)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	webServerErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			webServerErrChan <- err
		}
	}()

	log.Printf("[WEB]: Server started successfully. Press Ctrl+C to gracefully shutdown...")

	select {
	case <-sigChan:
		log.Printf("[WEB]: Received shutdown signal, initiating graceful shutdown...")
	case err := <-webServerErrChan:
		log.Printf("[WEB]: Failed to start web server: %v", err)
		closeStatsDB(statsDB)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), mainConfig.Web.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[WEB]: Error during shutdown: %v", err)
	}
	closeStatsDB(statsDB)

	log.Printf("[WEB]: Graceful shutdown completed")
} // end main
