package database

import (
	"database/sql"
	"log"
	"math/rand"
	"strings"
	"time"
)

const (
	maxRetries = 100
	baseDelay  = 10 * time.Millisecond
	maxDelay   = 25 * time.Millisecond
)

// isRetryableError checks if the error is a retryable SQLite error
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked") ||
		strings.Contains(errStr, "busy") ||
		strings.Contains(errStr, "locked")
}

// backoff sleeps before the next attempt: linear growth capped at maxDelay plus up to 50% jitter
func backoff(attempt int) {
	delay := time.Duration(attempt+1) * baseDelay
	if delay > maxDelay {
		delay = maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay) / 2))
	time.Sleep(delay + jitter)
}

// retryableExec executes a SQL statement with retry logic for lock conflicts
func retryableExec(db *sql.DB, query string, args ...interface{}) (sql.Result, error) {
	var result sql.Result
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		result, err = db.Exec(query, args...)
		if !isRetryableError(err) {
			return result, err
		}
		if attempt < maxRetries-1 {
			log.Printf("[STATS]: SQLite retry attempt %d/%d for query (first 50 chars): %s... Error: %v",
				attempt+1, maxRetries, truncateString(query, 50), err)
			backoff(attempt)
		}
	}

	return result, err
}

// retryableQuery executes a query that returns multiple rows with retry logic
func retryableQuery(db *sql.DB, query string, args ...interface{}) (*sql.Rows, error) {
	var rows *sql.Rows
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		rows, err = db.Query(query, args...)
		if !isRetryableError(err) {
			return rows, err
		}
		if attempt < maxRetries-1 {
			log.Printf("[STATS]: SQLite retry attempt %d/%d for query (first 50 chars): %s... Error: %v",
				attempt+1, maxRetries, truncateString(query, 50), err)
			backoff(attempt)
		}
	}

	return rows, err
}

// truncateString truncates a string to the specified length
func truncateString(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length]
}
