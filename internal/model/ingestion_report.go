package model

import (
	"time"

	"github.com/google/uuid"
)

// RowFailure строка, отброшенная при загрузке
type RowFailure struct {
	Sheet  string `json:"sheet"`
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// IngestionReport итог одной загрузки таблицы
type IngestionReport struct {
	RunID      uuid.UUID    `json:"run_id"`
	Source     string       `json:"source"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	RowsTotal  int          `json:"rows_total"`
	RowsOK     int          `json:"rows_ok"`
	RowsFailed int          `json:"rows_failed"`
	Mentors    int          `json:"mentors"` // уникальных записей после загрузки
	Failures   []RowFailure `json:"failures,omitempty"`
}

// Duration длительность загрузки
func (r *IngestionReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// IngestionRun сохранённая запись истории загрузок (без списка ошибок)
type IngestionRun struct {
	ID         uuid.UUID `json:"id"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	RowsTotal  int       `json:"rows_total"`
	RowsOK     int       `json:"rows_ok"`
	RowsFailed int       `json:"rows_failed"`
	Mentors    int       `json:"mentors"`
	CreatedAt  time.Time `json:"created_at"`
}
