package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/mentors_bot/internal/model"
	"github.com/Freeeeeet/mentors_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IngestionRepository struct {
	*base.Repository
}

func NewIngestionRepository(pool *pgxpool.Pool) *IngestionRepository {
	return &IngestionRepository{Repository: base.NewRepository(pool)}
}

// Save сохраняет итог загрузки вместе с отброшенными строками
func (r *IngestionRepository) Save(ctx context.Context, report *model.IngestionReport) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO ingestion_runs (id, source, started_at, finished_at, rows_total, rows_ok, rows_failed, mentors)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			report.RunID,
			report.Source,
			report.StartedAt,
			report.FinishedAt,
			report.RowsTotal,
			report.RowsOK,
			report.RowsFailed,
			report.Mentors,
		)
		if err != nil {
			return fmt.Errorf("insert ingestion run: %w", err)
		}

		if len(report.Failures) == 0 {
			return nil
		}

		rows := make([][]any, 0, len(report.Failures))
		for _, f := range report.Failures {
			rows = append(rows, []any{report.RunID, f.Sheet, f.Row, f.Reason})
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"ingestion_failures"},
			[]string{"run_id", "sheet", "row_index", "reason"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("insert ingestion failures: %w", err)
		}

		return nil
	})
}

// ListRecent последние загрузки, новые первыми
func (r *IngestionRepository) ListRecent(ctx context.Context, limit int) ([]*model.IngestionRun, error) {
	query := `
		SELECT id, source, started_at, finished_at, rows_total, rows_ok, rows_failed, mentors, created_at
		FROM ingestion_runs
		ORDER BY finished_at DESC
		LIMIT $1
	`

	rows, err := r.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list ingestion runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.IngestionRun
	for rows.Next() {
		var run model.IngestionRun
		err := rows.Scan(
			&run.ID,
			&run.Source,
			&run.StartedAt,
			&run.FinishedAt,
			&run.RowsTotal,
			&run.RowsOK,
			&run.RowsFailed,
			&run.Mentors,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ingestion run: %w", err)
		}
		runs = append(runs, &run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingestion runs: %w", err)
	}

	return runs, nil
}

// ListFailures отброшенные строки загрузки
func (r *IngestionRepository) ListFailures(ctx context.Context, runID uuid.UUID) ([]model.RowFailure, error) {
	query := `
		SELECT sheet, row_index, reason
		FROM ingestion_failures
		WHERE run_id = $1
		ORDER BY id
	`

	rows, err := r.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list ingestion failures: %w", err)
	}
	defer rows.Close()

	var failures []model.RowFailure
	for rows.Next() {
		var f model.RowFailure
		if err := rows.Scan(&f.Sheet, &f.Row, &f.Reason); err != nil {
			return nil, fmt.Errorf("scan ingestion failure: %w", err)
		}
		failures = append(failures, f)
	}

	return failures, rows.Err()
}
