// internal/db/db.go
package db

import (
	"database/sql"
	"log"

	_ "github.com/lib/pq"

	"github.com/spsmiles/outreach-backend/internal/config"
)

// Connect opens and pings the Postgres connection described by cfg.
func Connect(cfg config.Database) (*sql.DB, error) {
	conn, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err = conn.Ping(); err != nil {
		return nil, err
	}
	log.Printf("[DB] connected to %s@%s:%s/%s", cfg.User, cfg.Host, cfg.Port, cfg.Name)
	return conn, nil
}
