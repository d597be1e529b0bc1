package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/Freeeeeet/mentors_bot/internal/directory"
	"github.com/Freeeeeet/mentors_bot/internal/model"
	"github.com/Freeeeeet/mentors_bot/internal/spreadsheet"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoSpreadsheet путь к таблице не настроен
var ErrNoSpreadsheet = errors.New("spreadsheet path is not configured")

// HistoryStore хранилище истории загрузок
type HistoryStore interface {
	Save(ctx context.Context, report *model.IngestionReport) error
	ListRecent(ctx context.Context, limit int) ([]*model.IngestionRun, error)
	ListFailures(ctx context.Context, runID uuid.UUID) ([]model.RowFailure, error)
}

// EventPublisher получатель событий о загрузках
type EventPublisher interface {
	PublishIngestion(ctx context.Context, report *model.IngestionReport) error
}

// Status состояние справочника для /status и API
type Status struct {
	Version        directory.Version      `json:"version"`
	LastReport     *model.IngestionReport `json:"last_report,omitempty"`
	HistoryEnabled bool                   `json:"history_enabled"`
}

type MentorService struct {
	directory       *directory.Directory
	history         HistoryStore
	publisher       EventPublisher
	metrics         *Metrics
	spreadsheetPath string
	logger          *zap.Logger

	mu         sync.RWMutex
	lastReport *model.IngestionReport
}

// Option настройка сервиса
type Option func(*MentorService)

// WithHistory включает сохранение истории загрузок
func WithHistory(store HistoryStore) Option {
	return func(s *MentorService) {
		s.history = store
	}
}

// WithPublisher включает публикацию событий о загрузках
func WithPublisher(p EventPublisher) Option {
	return func(s *MentorService) {
		s.publisher = p
	}
}

// WithSpreadsheetPath таблица по умолчанию для ReloadConfigured
func WithSpreadsheetPath(path string) Option {
	return func(s *MentorService) {
		s.spreadsheetPath = path
	}
}

func NewMentorService(dir *directory.Directory, metrics *Metrics, logger *zap.Logger, opts ...Option) *MentorService {
	s := &MentorService{
		directory: dir,
		metrics:   metrics,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Import загружает книгу Excel и заменяет справочник.
// Ошибки истории и событий логируются и не влияют на результат.
func (s *MentorService) Import(ctx context.Context, r io.Reader, source string) (*model.IngestionReport, error) {
	src, err := spreadsheet.NewXLSXSource(r, source)
	if err != nil {
		s.metrics.observeFailure()
		return nil, fmt.Errorf("import %s: %w", source, err)
	}

	return s.ingest(ctx, src)
}

// ImportFile загружает книгу с диска
func (s *MentorService) ImportFile(ctx context.Context, path string) (*model.IngestionReport, error) {
	src, err := spreadsheet.OpenFile(path)
	if err != nil {
		s.metrics.observeFailure()
		return nil, fmt.Errorf("import %s: %w", path, err)
	}

	return s.ingest(ctx, src)
}

// ReloadConfigured перечитывает таблицу из SPREADSHEET_PATH
func (s *MentorService) ReloadConfigured(ctx context.Context) (*model.IngestionReport, error) {
	if s.spreadsheetPath == "" {
		return nil, ErrNoSpreadsheet
	}
	return s.ImportFile(ctx, s.spreadsheetPath)
}

func (s *MentorService) ingest(ctx context.Context, src directory.RowSource) (*model.IngestionReport, error) {
	report, err := s.directory.Ingest(ctx, src)
	if err != nil {
		s.metrics.observeFailure()
		return nil, fmt.Errorf("import %s: %w", src.Name(), err)
	}

	s.metrics.observeReport(report)

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()

	if s.history != nil {
		if err := s.history.Save(ctx, report); err != nil {
			s.logger.Error("Failed to save ingestion history",
				zap.String("run_id", report.RunID.String()),
				zap.Error(err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishIngestion(ctx, report); err != nil {
			s.logger.Error("Failed to publish ingestion event",
				zap.String("run_id", report.RunID.String()),
				zap.Error(err))
		}
	}

	return report, nil
}

// Search менторы по навыку
func (s *MentorService) Search(query string) []model.Mentor {
	s.metrics.observeSearch()
	return s.directory.BySkill(query)
}

// All все менторы
func (s *MentorService) All() []model.Mentor {
	return s.directory.All()
}

// FindByEmail записи ментора по email
func (s *MentorService) FindByEmail(email string) []model.Mentor {
	return s.directory.ByEmail(email)
}

// Status текущая версия справочника и итог последней загрузки
func (s *MentorService) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		Version:        s.directory.Version(),
		LastReport:     s.lastReport,
		HistoryEnabled: s.history != nil,
	}
}

// History последние загрузки; без хранилища истории возвращает пустой список
func (s *MentorService) History(ctx context.Context, limit int) ([]*model.IngestionRun, error) {
	if s.history == nil {
		return nil, nil
	}

	runs, err := s.history.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return runs, nil
}

// Failures отброшенные строки загрузки из истории
func (s *MentorService) Failures(ctx context.Context, runID uuid.UUID) ([]model.RowFailure, error) {
	if s.history == nil {
		return nil, nil
	}

	failures, err := s.history.ListFailures(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("list failures: %w", err)
	}
	return failures, nil
}
