// Package storage persists the per-municipality loss overrides in
// SQLite. The edited monthly-loss list is what turns the raw upstream
// figures into the projection a report is built from.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no override exists for the requested
// municipality and competência.
var ErrNotFound = errors.New("loss override not found")

// LossOverride is the edited monthly-loss list for one municipality in
// one competência. Losses are positional against the budget-plan
// summary lines of the same period.
type LossOverride struct {
	CodigoIBGE    string
	Competencia   string
	MonthlyLosses []float64
	UpdatedAt     time.Time
}

// Open opens the SQLite database at path with the pragmas the service
// needs.
func Open(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Repository stores loss overrides.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts or replaces the override for (codigo_ibge, competencia).
func (r *Repository) Upsert(ctx context.Context, override LossOverride) error {
	losses, err := json.Marshal(override.MonthlyLosses)
	if err != nil {
		return fmt.Errorf("encode monthly losses: %w", err)
	}

	const query = `
		INSERT INTO municipio_editado (codigo_ibge, competencia, perca_recurso_mensal, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (codigo_ibge, competencia) DO UPDATE SET
			perca_recurso_mensal = excluded.perca_recurso_mensal,
			updated_at = CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, query, override.CodigoIBGE, override.Competencia, string(losses)); err != nil {
		return fmt.Errorf("upsert loss override: %w", err)
	}
	return nil
}

// Get loads the override for one municipality and competência.
func (r *Repository) Get(ctx context.Context, codigoIBGE, competencia string) (LossOverride, error) {
	const query = `
		SELECT codigo_ibge, competencia, perca_recurso_mensal, updated_at
		FROM municipio_editado
		WHERE codigo_ibge = ? AND competencia = ?`

	row := r.db.QueryRowContext(ctx, query, codigoIBGE, competencia)
	override, err := scanOverride(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return LossOverride{}, ErrNotFound
	}
	if err != nil {
		return LossOverride{}, fmt.Errorf("get loss override: %w", err)
	}
	return override, nil
}

// Delete removes the override; deleting a missing row is not an error.
func (r *Repository) Delete(ctx context.Context, codigoIBGE, competencia string) error {
	const query = `DELETE FROM municipio_editado WHERE codigo_ibge = ? AND competencia = ?`
	if _, err := r.db.ExecContext(ctx, query, codigoIBGE, competencia); err != nil {
		return fmt.Errorf("delete loss override: %w", err)
	}
	return nil
}

// List returns every stored override, most recently updated first.
func (r *Repository) List(ctx context.Context) ([]LossOverride, error) {
	const query = `
		SELECT codigo_ibge, competencia, perca_recurso_mensal, updated_at
		FROM municipio_editado
		ORDER BY updated_at DESC, codigo_ibge, competencia`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list loss overrides: %w", err)
	}
	defer rows.Close()

	var overrides []LossOverride
	for rows.Next() {
		override, err := scanOverride(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan loss override: %w", err)
		}
		overrides = append(overrides, override)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate loss overrides: %w", err)
	}
	return overrides, nil
}

func scanOverride(scan func(...any) error) (LossOverride, error) {
	var (
		override LossOverride
		losses   string
	)
	if err := scan(&override.CodigoIBGE, &override.Competencia, &losses, &override.UpdatedAt); err != nil {
		return LossOverride{}, err
	}
	if err := json.Unmarshal([]byte(losses), &override.MonthlyLosses); err != nil {
		return LossOverride{}, fmt.Errorf("decode monthly losses: %w", err)
	}
	return override, nil
}
