// Package config provides configuration management for the design tips server.
package config

import (
	"log"
	"sync"
	"time"
)

var AppVersion = "-unset-" // will be set at build time

const (
	// WelcomeMessage is the body served on the root route
	WelcomeMessage = "Welcome to the Design Tips API!"

	// Tips defaults
	DefaultTipsFile    = "design_tips.json"
	DefaultTipsCharset = "utf-8"

	// Web defaults
	DefaultListenHost      = "127.0.0.1"
	DefaultListenPort      = 5000
	DefaultShutdownTimeout = 10 * time.Second
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
)

// MainConfig holds the main configuration for the server
type MainConfig struct {
	// Mutex for thread-safe access
	mux sync.Mutex `json:"-"`

	// Web interface settings
	Web *WebConfig `json:"web"`

	// Tips document settings
	Tips TipsConfig `json:"tips"`

	// Database settings
	Database DatabaseConfig `json:"database"`

	AppVersion string `json:"app_version"` // Application version, set at build time
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenHost      string        `json:"listen_host"`
	ListenPort      int           `json:"listen_port"`
	SSL             bool          `json:"ssl"`
	CertFile        string        `json:"cert_file,omitempty"`
	KeyFile         string        `json:"key_file,omitempty"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	Debug           bool          `json:"debug"` // Enables gin debug mode and access logging
}

// TipsConfig locates the tips document on disk
type TipsConfig struct {
	File    string `json:"file"`    // Path to the JSON document, relative to the working dir
	Charset string `json:"charset"` // Encoding of the file on disk
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	StatsDB string `json:"stats_db"` // Path to the route stats database, empty disables stats
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *MainConfig {
	maincfg := &MainConfig{
		AppVersion: AppVersion,
		Web: &WebConfig{
			ListenHost:      DefaultListenHost,
			ListenPort:      DefaultListenPort,
			SSL:             false,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Tips: TipsConfig{
			File:    DefaultTipsFile,
			Charset: DefaultTipsCharset,
		},
	}

	maincfg.mux.Lock()
	log.Printf("MainConfig initialized (version: %s, tips: %s)", maincfg.AppVersion, maincfg.Tips.File)
	maincfg.mux.Unlock()
	return maincfg
}

// StatsEnabled reports whether a stats database path is configured
func (c *MainConfig) StatsEnabled() bool {
	c.mux.Lock()
	defer c.mux.Unlock()
	return c.Database.StatsDB != ""
}
