package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/guillaumedeshayes/twilio-messaging-controler/internal/config"
)

// Connect opens and pings a Postgres connection from config. The handle is
// returned to the caller for injection into repositories, never held as a
// package global.
func Connect(cfg config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return conn, nil
}
