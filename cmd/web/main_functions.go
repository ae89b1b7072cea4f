package main

import (
	"fmt"
	"log"

	"github.com/designertech992/stocks-forecast/internal/config"
	"github.com/designertech992/stocks-forecast/internal/database"
)

// applyFlags overrides the defaults in mainConfig with command-line flags and validates the result
func applyFlags(mainConfig *config.MainConfig) error {
	webConfig := mainConfig.Web

	if webhost != "" {
		webConfig.ListenHost = webhost
	}
	if webport > 0 {
		webConfig.ListenPort = webport
		log.Printf("[WEB]: Overriding listen port with command-line flag: %d", webConfig.ListenPort)
	} else {
		log.Printf("[WEB]: No port flag provided, using default: %d", webConfig.ListenPort)
	}
	if webssl {
		webConfig.SSL = true
		log.Printf("[WEB]: SSL enabled via command-line flag")
	}
	if webcertFile != "" {
		webConfig.CertFile = webcertFile
	}
	if webkeyFile != "" {
		webConfig.KeyFile = webkeyFile
	}
	webConfig.Debug = webdebug

	if tipsFile != "" {
		mainConfig.Tips.File = tipsFile
	}
	if tipsCharset != "" {
		mainConfig.Tips.Charset = tipsCharset
	}
	mainConfig.Database.StatsDB = statsDBPath

	return validateWebConfig(webConfig)
}

// validateWebConfig checks the port range and the SSL file settings
func validateWebConfig(webConfig *config.WebConfig) error {
	if webConfig.ListenPort < 1024 || webConfig.ListenPort > 65535 {
		return fmt.Errorf("invalid port number: %d (must be between 1024 and 65535)", webConfig.ListenPort)
	}
	if webConfig.SSL && (webConfig.CertFile == "" || webConfig.KeyFile == "") {
		return fmt.Errorf("SSL enabled but -websslcert or -websslkey not specified")
	}
	return nil
}

// closeStatsDB closes the stats database if one was opened
func closeStatsDB(statsDB *database.StatsDB) {
	if statsDB == nil {
		return
	}
	if err := statsDB.Close(); err != nil {
		log.Printf("[STATS]: Error closing stats database: %v", err)
		return
	}
	log.Printf("[STATS]: Stats database closed")
}
