package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Freeeeeet/mentors_bot/internal/directory"
	"github.com/Freeeeeet/mentors_bot/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"
)

const testToken = "secret-token"

func init() {
	gin.SetMode(gin.TestMode)
}

func workbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Mentoria"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Nome", "Email", "Skills"}))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func newTestRouter(t *testing.T) (*gin.Engine, *service.MentorService) {
	t.Helper()

	logger := zaptest.NewLogger(t)
	reg := prometheus.NewRegistry()
	svc := service.NewMentorService(directory.New(logger), service.NewMetrics(reg), logger)

	data := workbook(t,
		[]any{"Ana", "ana@example.com", "Java, Go", "9h-11h", "", ""},
		[]any{"Bruno", "bruno@example.com", "Python", "", "14h", ""},
	)
	_, err := svc.Import(context.Background(), bytes.NewReader(data), "seed.xlsx")
	require.NoError(t, err)

	return NewRouter(NewMentorsController(svc, testToken, logger), reg, logger), svc
}

func do(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthzAndMetrics(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mentors_directory_size 2")
}

func TestListMentors(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(router, httptest.NewRequest(http.MethodGet, "/api/v1/mentors", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count   int              `json:"count"`
		Mentors []mentorResponse `json:"mentors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "Ana", body.Mentors[0].Name)
	assert.Equal(t, []string{"Go", "Java"}, body.Mentors[0].Skills)
	require.Len(t, body.Mentors[0].Slots, 1)

	rec = do(router, httptest.NewRequest(http.MethodGet, "/api/v1/mentors?skill=pyth", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "Bruno", body.Mentors[0].Name)
}

func TestMentorsByEmail(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := do(router, httptest.NewRequest(http.MethodGet, "/api/v1/mentors/by-email/ANA@example.com", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Ana"`)

	rec = do(router, httptest.NewRequest(http.MethodGet, "/api/v1/mentors/by-email/nobody@example.com", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusAndIngestions(t *testing.T) {
	router, svc := newTestRouter(t)

	rec := do(router, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var status service.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, svc.Status().Version.RunID, status.Version.RunID)
	assert.Equal(t, 2, status.Version.Mentors)
	assert.False(t, status.HistoryEnabled)

	rec = do(router, httptest.NewRequest(http.MethodGet, "/api/v1/ingestions", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ingestions":[]}`, rec.Body.String())

	rec = do(router, httptest.NewRequest(http.MethodGet, "/api/v1/ingestions?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, httptest.NewRequest(http.MethodGet, "/api/v1/ingestions/not-a-uuid/failures", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func uploadRequest(t *testing.T, token string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "upload.xlsx")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/mentors/import", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestImportRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t)
	data := workbook(t, []any{"Carla", "carla@example.com", "Rust", "", "", "10h"})

	rec := do(router, uploadRequest(t, "", data))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(router, uploadRequest(t, "wrong", data))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestImportReplacesDirectory(t *testing.T) {
	router, svc := newTestRouter(t)
	data := workbook(t,
		[]any{"Carla", "carla@example.com", "Rust", "", "", "10h"},
		[]any{"Dario", "dario@example.com", "Go", "25h", "", ""},
	)

	rec := do(router, uploadRequest(t, testToken, data))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rows_failed":1`)

	all := svc.All()
	require.Len(t, all, 1)
	assert.Equal(t, "Carla", all[0].Name)
}

func TestImportBadWorkbookKeepsDirectory(t *testing.T) {
	router, svc := newTestRouter(t)

	rec := do(router, uploadRequest(t, testToken, []byte("not a workbook")))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Len(t, svc.All(), 2)

	rec = do(router, httptest.NewRequest(http.MethodPost, "/api/v1/mentors/import", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestImportDisabledWithoutToken(t *testing.T) {
	logger := zaptest.NewLogger(t)
	reg := prometheus.NewRegistry()
	svc := service.NewMentorService(directory.New(logger), service.NewMetrics(reg), logger)
	router := NewRouter(NewMentorsController(svc, "", logger), reg, logger)

	rec := do(router, uploadRequest(t, "anything", workbook(t)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
