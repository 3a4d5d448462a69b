package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"pscfiling/internal/filing/models"
	"pscfiling/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

var tables = map[models.Variant]string{
	models.VariantIndividual:         "psc_individual_filings",
	models.VariantWithIdentification: "psc_with_identification_filings",
}

// PostgresStore persists filings as JSONB documents, one table per variant.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed filing store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, f models.Filing) error {
	table, err := tableFor(f.Variant())
	if err != nil {
		return err
	}
	data, err := models.Encode(f)
	if err != nil {
		return fmt.Errorf("encode filing: %w", err)
	}
	c := f.Common()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO `+table+` (id, transaction_id, psc_type, etag, data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.TransactionID, string(c.PscType), c.Etag, data, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("filing %s already exists: %w", c.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert filing: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, variant models.Variant, id string) (models.Filing, error) {
	table, err := tableFor(variant)
	if err != nil {
		return nil, err
	}
	var (
		pscType string
		data    []byte
	)
	err = s.db.QueryRowContext(ctx, `SELECT psc_type, data FROM `+table+` WHERE id = $1`, id).Scan(&pscType, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("filing not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find filing by id: %w", err)
	}
	f, err := decode(variant, data)
	if err != nil {
		return nil, err
	}
	if string(f.Common().PscType) != pscType {
		return nil, fmt.Errorf("%w: row psc_type %q, document %q", sentinel.ErrInvalidState, pscType, f.Common().PscType)
	}
	return f, nil
}

func (s *PostgresStore) Update(ctx context.Context, f models.Filing, expectedEtag string) error {
	table, err := tableFor(f.Variant())
	if err != nil {
		return err
	}
	data, err := models.Encode(f)
	if err != nil {
		return fmt.Errorf("encode filing: %w", err)
	}
	c := f.Common()
	res, err := s.db.ExecContext(ctx, `
		UPDATE `+table+`
		SET etag = $3, data = $4, updated_at = $5
		WHERE id = $1 AND etag = $2
	`, c.ID, expectedEtag, c.Etag, data, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update filing: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update filing rows: %w", err)
	}
	if rows == 1 {
		return nil
	}

	var exists bool
	err = s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, c.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check filing exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("filing not found: %w", sentinel.ErrNotFound)
	}
	return fmt.Errorf("filing %s etag changed: %w", c.ID, sentinel.ErrConflict)
}

func tableFor(v models.Variant) (string, error) {
	table, ok := tables[v]
	if !ok {
		return "", fmt.Errorf("%w: no table for variant %q", sentinel.ErrInvalidState, v)
	}
	return table, nil
}
