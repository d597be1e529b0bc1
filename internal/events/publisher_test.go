package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Freeeeeet/mentors_bot/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIngestionEvent(t *testing.T) {
	started := time.Date(2021, 10, 20, 12, 0, 0, 0, time.UTC)
	report := &model.IngestionReport{
		RunID:      uuid.MustParse("6f1c2a43-92a8-4d44-9a0f-1d3f0c7b2e11"),
		Source:     "mentores.xlsx",
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
		RowsTotal:  10,
		RowsOK:     10,
		Mentors:    9,
	}

	event, key := NewIngestionEvent(report)
	assert.Equal(t, RoutingKeyIngestionCompleted, key)
	assert.Equal(t, "6f1c2a43-92a8-4d44-9a0f-1d3f0c7b2e11", event.RunID)

	body, err := json.Marshal(event)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"run_id": "6f1c2a43-92a8-4d44-9a0f-1d3f0c7b2e11",
		"source": "mentores.xlsx",
		"started_at": "2021-10-20T12:00:00Z",
		"finished_at": "2021-10-20T12:00:02Z",
		"rows_total": 10,
		"rows_ok": 10,
		"rows_failed": 0,
		"mentors": 9
	}`, string(body))

	report.RowsFailed = 1
	_, key = NewIngestionEvent(report)
	assert.Equal(t, RoutingKeyIngestionPartial, key)
}
