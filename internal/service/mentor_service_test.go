package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Freeeeeet/mentors_bot/internal/directory"
	"github.com/Freeeeeet/mentors_bot/internal/model"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeHistory struct {
	mu      sync.Mutex
	saved   []*model.IngestionReport
	saveErr error
}

func (h *fakeHistory) Save(_ context.Context, report *model.IngestionReport) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.saveErr != nil {
		return h.saveErr
	}
	h.saved = append(h.saved, report)
	return nil
}

func (h *fakeHistory) ListRecent(_ context.Context, limit int) ([]*model.IngestionRun, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var runs []*model.IngestionRun
	for i := len(h.saved) - 1; i >= 0 && len(runs) < limit; i-- {
		r := h.saved[i]
		runs = append(runs, &model.IngestionRun{ID: r.RunID, Source: r.Source, Mentors: r.Mentors})
	}
	return runs, nil
}

func (h *fakeHistory) ListFailures(_ context.Context, runID uuid.UUID) ([]model.RowFailure, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, r := range h.saved {
		if r.RunID == runID {
			return r.Failures, nil
		}
	}
	return nil, nil
}

type fakePublisher struct {
	published []*model.IngestionReport
	err       error
}

func (p *fakePublisher) PublishIngestion(_ context.Context, report *model.IngestionReport) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, report)
	return nil
}

func workbook(t *testing.T, rows ...[]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Mentoria"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Nome", "Email", "Skills"}))
	for i, row := range rows {
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func newTestService(t *testing.T, opts ...Option) (*MentorService, *prometheus.Registry, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	reg := prometheus.NewRegistry()

	svc := NewMentorService(directory.New(logger, directory.WithWorkers(2)), NewMetrics(reg), logger, opts...)
	return svc, reg, logs
}

func TestMentorService_Import(t *testing.T) {
	history := &fakeHistory{}
	publisher := &fakePublisher{}
	svc, _, _ := newTestService(t, WithHistory(history), WithPublisher(publisher))

	data := workbook(t,
		[]string{"Ana", "ana@example.com", "Java, Go", "9h-11h", "", ""},
		[]string{"Bruno", "bruno@example.com", "Python", "", "14h", ""},
	)

	report, err := svc.Import(context.Background(), bytes.NewReader(data), "upload.xlsx")
	require.NoError(t, err)

	assert.Equal(t, "upload.xlsx", report.Source)
	assert.Equal(t, 2, report.RowsOK)
	assert.Equal(t, 2, report.Mentors)
	assert.Len(t, svc.All(), 2)

	require.Len(t, history.saved, 1)
	assert.Equal(t, report.RunID, history.saved[0].RunID)
	require.Len(t, publisher.published, 1)

	status := svc.Status()
	assert.Equal(t, report.RunID, status.Version.RunID)
	assert.Same(t, report, status.LastReport)
	assert.True(t, status.HistoryEnabled)
}

func TestMentorService_ImportKeepsDirectoryOnBadWorkbook(t *testing.T) {
	svc, reg, _ := newTestService(t)

	data := workbook(t, []string{"Ana", "ana@example.com", "Go", "9h", "", ""})
	_, err := svc.Import(context.Background(), bytes.NewReader(data), "good.xlsx")
	require.NoError(t, err)

	_, err = svc.Import(context.Background(), bytes.NewReader([]byte("not a workbook")), "bad.xlsx")
	require.Error(t, err)

	assert.Len(t, svc.All(), 1)
	assert.Equal(t, "good.xlsx", svc.Status().LastReport.Source)

	expected := `
		# HELP mentors_ingestions_total Spreadsheet ingestions by result.
		# TYPE mentors_ingestions_total counter
		mentors_ingestions_total{result="failed"} 1
		mentors_ingestions_total{result="ok"} 1
		mentors_ingestions_total{result="partial"} 0
	`
	assert.NoError(t, testutil.GatherAndCompare(reg, bytes.NewBufferString(expected), "mentors_ingestions_total"))
}

func TestMentorService_PartialImportMetrics(t *testing.T) {
	svc, reg, _ := newTestService(t)

	data := workbook(t,
		[]string{"Ana", "ana@example.com", "Go", "9h", "", ""},
		[]string{"Bruno", "bruno@example.com", "Go", "nove horas", "", ""},
	)
	report, err := svc.Import(context.Background(), bytes.NewReader(data), "partial.xlsx")
	require.NoError(t, err)
	assert.Equal(t, 1, report.RowsFailed)

	count, err := testutil.GatherAndCount(reg, "mentors_ingested_rows_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, float64(1), testutil.ToFloat64(svc.metrics.mentors))
	assert.Equal(t, float64(1), testutil.ToFloat64(svc.metrics.ingestions.WithLabelValues(resultPartial)))
}

func TestMentorService_SideEffectFailuresAreLogged(t *testing.T) {
	history := &fakeHistory{saveErr: errors.New("db down")}
	publisher := &fakePublisher{err: errors.New("broker down")}
	svc, _, logs := newTestService(t, WithHistory(history), WithPublisher(publisher))

	data := workbook(t, []string{"Ana", "ana@example.com", "Go", "9h", "", ""})
	_, err := svc.Import(context.Background(), bytes.NewReader(data), "upload.xlsx")
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("Failed to save ingestion history").Len())
	assert.Equal(t, 1, logs.FilterMessage("Failed to publish ingestion event").Len())
	assert.Len(t, svc.All(), 1)
}

func TestMentorService_ReloadConfigured(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.ReloadConfigured(context.Background())
	assert.ErrorIs(t, err, ErrNoSpreadsheet)

	path := filepath.Join(t.TempDir(), "mentores.xlsx")
	require.NoError(t, os.WriteFile(path, workbook(t, []string{"Ana", "ana@example.com", "Go", "9h", "", ""}), 0o600))

	svc, _, _ = newTestService(t, WithSpreadsheetPath(path))
	report, err := svc.ReloadConfigured(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mentores.xlsx", report.Source)
	assert.Len(t, svc.FindByEmail("ANA@example.com"), 1)
}

func TestMentorService_SearchAndHistory(t *testing.T) {
	history := &fakeHistory{}
	svc, _, _ := newTestService(t, WithHistory(history))

	data := workbook(t,
		[]string{"Ana", "ana@example.com", "Java, Go", "9h", "", ""},
		[]string{"Bruno", "bruno@example.com", "JavaScript", "", "14h", ""},
		[]string{"Carla", "carla@example.com", "Python", "oops", "", ""},
	)
	report, err := svc.Import(context.Background(), bytes.NewReader(data), "upload.xlsx")
	require.NoError(t, err)

	found := svc.Search("java")
	require.Len(t, found, 2)
	assert.Equal(t, "Ana", found[0].Name)
	assert.Equal(t, "Bruno", found[1].Name)
	assert.Empty(t, svc.Search("rust"))

	runs, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, report.RunID, runs[0].ID)

	failures, err := svc.Failures(context.Background(), report.RunID)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, 4, failures[0].Row)
}

func TestMentorService_HistoryDisabled(t *testing.T) {
	svc, _, _ := newTestService(t)

	runs, err := svc.History(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.False(t, svc.Status().HistoryEnabled)
	assert.Nil(t, svc.Status().LastReport)
}
