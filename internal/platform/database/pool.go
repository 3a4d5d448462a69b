// Package database opens the Postgres filing store connection and applies the
// embedded schema.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"pscfiling/internal/platform/config"
)

const connectTimeout = 5 * time.Second

var ErrNotConfigured = errors.New("postgres url not configured")

// Pool is a pgx-backed *sql.DB whose connection stats are exported as
// psc_filing_go_sql_* metrics.
type Pool struct {
	db        *sql.DB
	collector prometheus.Collector
	reg       prometheus.Registerer
}

// Open connects to cfg.URL and waits for the first ping. reg may be nil.
func Open(ctx context.Context, cfg config.Postgres, reg prometheus.Registerer) (*Pool, error) {
	if cfg.URL == "" {
		return nil, ErrNotConfigured
	}
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	p := &Pool{db: db}
	if reg != nil {
		p.collector = collectors.NewDBStatsCollector(db, "psc_filing")
		if err := reg.Register(p.collector); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("register db stats: %w", err)
		}
		p.reg = reg
	}
	return p, nil
}

func (p *Pool) DB() *sql.DB { return p.db }

// Health pings the database; it is registered as the postgres readiness check.
func (p *Pool) Health(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close unregisters the stats collector and closes every connection.
func (p *Pool) Close() error {
	if p.reg != nil {
		p.reg.Unregister(p.collector)
	}
	return p.db.Close()
}
