package app

import (
	"context"
	"os"
	"time"

	"github.com/Freeeeeet/mentors_bot/internal/service"
	"go.uber.org/zap"
)

// Scheduler периодически перечитывает таблицу менторов с диска
type Scheduler struct {
	mentorService *service.MentorService
	path          string
	interval      time.Duration
	logger        *zap.Logger
	stopChan      chan struct{}

	lastModTime time.Time
}

// NewScheduler создаёт новый планировщик
func NewScheduler(mentorService *service.MentorService, path string, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		mentorService: mentorService,
		path:          path,
		interval:      interval,
		logger:        logger,
		stopChan:      make(chan struct{}),
	}
}

// Start запускает фоновую перезагрузку; при нулевом интервале ничего не делает
func (s *Scheduler) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("Spreadsheet reload disabled")
		return
	}

	s.logger.Info("Starting spreadsheet reloader",
		zap.String("path", s.path),
		zap.Duration("interval", s.interval))

	go s.runReloadTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping spreadsheet reloader")
	close(s.stopChan)
}

func (s *Scheduler) runReloadTask(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.reloadIfChanged(ctx)
		case <-s.stopChan:
			s.logger.Info("Spreadsheet reload task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Spreadsheet reload task cancelled")
			return
		}
	}
}

// MarkLoaded запоминает mtime файла после загрузки при старте, чтобы не грузить его повторно
func (s *Scheduler) MarkLoaded() {
	if info, err := os.Stat(s.path); err == nil {
		s.lastModTime = info.ModTime()
	}
}

// reloadIfChanged перечитывает файл, если он изменился с прошлой загрузки.
// Возвращает true, если загрузка была выполнена успешно.
func (s *Scheduler) reloadIfChanged(ctx context.Context) bool {
	info, err := os.Stat(s.path)
	if err != nil {
		s.logger.Error("Failed to stat spreadsheet", zap.String("path", s.path), zap.Error(err))
		return false
	}

	if !info.ModTime().After(s.lastModTime) {
		return false
	}

	if _, err := s.mentorService.ImportFile(ctx, s.path); err != nil {
		s.logger.Error("Failed to reload spreadsheet", zap.String("path", s.path), zap.Error(err))
		return false
	}

	s.lastModTime = info.ModTime()
	return true
}
