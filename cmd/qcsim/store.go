package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const tableRuns = "runs"

// store records per-run shot histograms in a sqlite database.
type store struct {
	db *sql.DB
}

func newStore(dbPath string) (*store, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", dbPath))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	if err := prepareDB(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "")
	}
	return &store{db: db}, nil
}

func (s *store) Close() error {
	return s.db.Close()
}

func prepareDB(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	sqlStr := fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tableRuns)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return errors.Wrap(err, "")
	}
	sqlStr = fmt.Sprintf(`CREATE TABLE %s (
	circuit TEXT,
	engine TEXT,
	bitstring TEXT,
	count INTEGER,
	probability REAL,
	fidelity_loss REAL,
	PRIMARY KEY (circuit, engine, bitstring)) STRICT`, tableRuns)
	if _, err := db.ExecContext(ctx, sqlStr); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func (s *store) setCount(ctx context.Context, circuit, engine, bitstring string, count, shots int, fidelityLoss float64) error {
	sqlStr := fmt.Sprintf(`INSERT OR REPLACE INTO %s (circuit, engine, bitstring, count, probability, fidelity_loss) VALUES (?, ?, ?, ?, ?, ?)`, tableRuns)
	args := []any{circuit, engine, bitstring, count, float64(count) / float64(shots), fidelityLoss}
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return errors.Wrap(err, fmt.Sprintf("%s %#v", sqlStr, args))
	}
	return nil
}
