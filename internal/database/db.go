package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects to Postgres through pgx's database/sql driver and
// verifies the connection. The lifecycle engine relies on RETURNING
// clauses and FOR UPDATE SKIP LOCKED, both reachable through the
// ordinary database/sql surface this driver exposes.
func Open(user, pass, host, port, name string, poolMin, poolMax int) (*sql.DB, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, pass, host, port, name)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if poolMax < 1 {
		poolMax = 10
	}
	if poolMin < 1 {
		poolMin = 1
	}
	db.SetMaxOpenConns(poolMax)
	db.SetMaxIdleConns(poolMin)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
