package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Freeeeeet/mentors_bot/internal/controller/formatting"
	"github.com/Freeeeeet/mentors_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// maxSpreadsheetSize ограничение Bot API на скачивание файлов
const maxSpreadsheetSize = 20 << 20

// HandleUpload обрабатывает команду /upload: следующий документ заменит справочник
func (h *Handlers) HandleUpload(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	h.stateManager.SetState(update.Message.From.ID, state.StateAwaitingSpreadsheet)
	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"📎 Отправьте таблицу менторов файлом .xlsx.\n\nТекущий справочник будет полностью заменён. /cancel - отмена.")
}

// IsDocument match-функция для сообщений с файлом
func IsDocument(update *models.Update) bool {
	return update.Message != nil && update.Message.Document != nil
}

// HandleDocument принимает таблицу после /upload
func (h *Handlers) HandleDocument(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Document == nil {
		return
	}

	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	doc := update.Message.Document

	if h.stateManager.GetState(telegramID) != state.StateAwaitingSpreadsheet {
		h.logger.Debug("Document outside of upload dialog, ignoring",
			zap.Int64("telegram_id", telegramID))
		return
	}
	if !h.requireAdmin(ctx, b, update) {
		h.stateManager.ClearState(telegramID)
		return
	}

	if !strings.EqualFold(filepath.Ext(doc.FileName), ".xlsx") {
		h.sendError(ctx, b, chatID, "❌ Нужен файл .xlsx. Попробуйте ещё раз или отправьте /cancel.")
		return
	}
	if doc.FileSize > maxSpreadsheetSize {
		h.sendError(ctx, b, chatID, "❌ Файл слишком большой (максимум 20 МБ).")
		return
	}

	body, err := h.downloadDocument(ctx, b, doc.FileID)
	if err != nil {
		h.logger.Error("Failed to download spreadsheet",
			zap.Int64("telegram_id", telegramID),
			zap.String("file_name", doc.FileName),
			zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось скачать файл. Попробуйте позже.")
		return
	}
	defer body.Close()

	report, err := h.mentorService.Import(ctx, io.LimitReader(body, maxSpreadsheetSize), doc.FileName)
	if err != nil {
		h.logger.Error("Spreadsheet import failed",
			zap.Int64("telegram_id", telegramID),
			zap.String("file_name", doc.FileName),
			zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось прочитать таблицу, справочник не изменён.\n\nПроверьте файл и отправьте его ещё раз или /cancel.")
		return
	}

	h.stateManager.ClearState(telegramID)

	h.logger.Info("Spreadsheet uploaded",
		zap.Int64("telegram_id", telegramID),
		zap.String("file_name", doc.FileName),
		zap.String("run_id", report.RunID.String()))

	h.sendHTML(ctx, b, chatID, formatting.FormatReport(report), nil)
}

func (h *Handlers) downloadDocument(ctx context.Context, b *bot.Bot, fileID string) (io.ReadCloser, error) {
	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.FileDownloadLink(file), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	return resp.Body, nil
}
