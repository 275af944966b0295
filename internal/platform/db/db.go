package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Pool sizing for short route-cache lookups; concurrency is bounded by the
// HTTP server, not the pool.
const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// Open a pooled Postgres connection for the route cache and verify it is
// reachable before handing it out.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open route cache db: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("verify route cache db connection: %w", err)
	}

	return db, nil
}
