package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/inquiry-dashboard/internal/dashboard"
)

// SnapshotRepo implements dashboard.HistoryStore against PostgreSQL.
type SnapshotRepo struct{ db *sql.DB }

// NewSnapshotRepo creates a Postgres-backed refresh history.
func NewSnapshotRepo(db *sql.DB) *SnapshotRepo { return &SnapshotRepo{db: db} }

func (r *SnapshotRepo) SaveRun(ctx context.Context, rec dashboard.RefreshRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inquiry_refresh_history
			(id, generated_at, source, media_version, row_count, inquiry_rows,
			 contract_rows, countable, revenue, dropped_rows)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`, rec.ID, rec.GeneratedAt, rec.Source, rec.MediaVersion, rec.Rows, rec.InquiryRows,
		rec.ContractRows, rec.Countable, rec.Revenue, rec.Dropped)
	if err != nil {
		return fmt.Errorf("save refresh history: %w", err)
	}
	return nil
}

func (r *SnapshotRepo) Recent(ctx context.Context, limit int) ([]dashboard.RefreshRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, generated_at, source, media_version, row_count, inquiry_rows,
		       contract_rows, countable, revenue, dropped_rows
		FROM inquiry_refresh_history
		ORDER BY generated_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list refresh history: %w", err)
	}
	defer rows.Close()

	var out []dashboard.RefreshRecord
	for rows.Next() {
		var rec dashboard.RefreshRecord
		if err := rows.Scan(&rec.ID, &rec.GeneratedAt, &rec.Source, &rec.MediaVersion, &rec.Rows,
			&rec.InquiryRows, &rec.ContractRows, &rec.Countable, &rec.Revenue, &rec.Dropped); err != nil {
			return nil, fmt.Errorf("scan refresh history: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
