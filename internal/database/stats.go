// Package database provides the SQLite backed route statistics store
package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// StatsDB counts hits per route
type StatsDB struct {
	db *sql.DB
}

// RouteStat is the hit counter for one route
type RouteStat struct {
	Route   string    `json:"route"`
	Hits    int64     `json:"hits"`
	LastHit time.Time `json:"last_hit"`
}

// OpenStatsDB opens (and creates if needed) the stats database at dbPath
func OpenStatsDB(dbPath string) (*StatsDB, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("stats database path is empty")
	}

	// Ensure data directory exists
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open stats database: %w", err)
	}

	statsDB := &StatsDB{db: db}
	if err := statsDB.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Printf("[STATS]: Stats database initialized at: %s", dbPath)
	return statsDB, nil
}

const query_statsDB_initSchema = `
CREATE TABLE IF NOT EXISTS route_hits (
	route TEXT PRIMARY KEY,
	hits INTEGER NOT NULL DEFAULT 0,
	last_hit DATETIME
);
`

func (s *StatsDB) initSchema() error {
	_, err := retryableExec(s.db, query_statsDB_initSchema)
	return err
}

const query_RecordHit = `
INSERT INTO route_hits (route, hits, last_hit)
VALUES (?, 1, CURRENT_TIMESTAMP)
ON CONFLICT(route) DO UPDATE SET
	hits = hits + 1,
	last_hit = excluded.last_hit
`

// RecordHit increments the counter for route
func (s *StatsDB) RecordHit(route string) error {
	if _, err := retryableExec(s.db, query_RecordHit, route); err != nil {
		return fmt.Errorf("failed to record hit for %s: %w", route, err)
	}
	return nil
}

const query_GetRouteStats = `
SELECT route, hits, last_hit FROM route_hits
ORDER BY route ASC
`

// GetRouteStats returns the counters of every route seen so far, ordered by route
func (s *StatsDB) GetRouteStats() ([]*RouteStat, error) {
	rows, err := retryableQuery(s.db, query_GetRouteStats)
	if err != nil {
		return nil, fmt.Errorf("failed to query route stats: %w", err)
	}
	defer rows.Close()

	stats := make([]*RouteStat, 0)
	for rows.Next() {
		var (
			stat    RouteStat
			lastHit sql.NullTime
		)
		if err := rows.Scan(&stat.Route, &stat.Hits, &lastHit); err != nil {
			return nil, fmt.Errorf("failed to scan route stats: %w", err)
		}
		if lastHit.Valid {
			stat.LastHit = lastHit.Time
		}
		stats = append(stats, &stat)
	}
	return stats, rows.Err()
}

// Close closes the stats database
func (s *StatsDB) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
