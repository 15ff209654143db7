package checks

import (
	"context"
	"database/sql"
	"fmt"

	// registers the "pgx" database/sql driver
	_ "github.com/jackc/pgx/v5/stdlib"
)

// SQL pings a database/sql pool.
type SQL struct {
	name string
	db   *sql.DB
}

func NewSQL(name string, db *sql.DB) *SQL {
	return &SQL{name: name, db: db}
}

// OpenPostgres opens a pool on dsn with the pgx driver. Opening does not
// connect; the first check does.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	return db, nil
}

func (s *SQL) Name() string { return s.name }

func (s *SQL) Check(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
