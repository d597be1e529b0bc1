package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/mentors_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/mentors_bot/internal/controller/formatting"
	"github.com/Freeeeeet/mentors_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// maxAvailabilityImages сколько картинок отправлять на один email
const maxAvailabilityImages = 3

// historyLimit сколько загрузок показывать в /history
const historyLimit = 10

// HandleSkill обрабатывает команду /skill <навык>
func (h *Handlers) HandleSkill(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID
	query := commandArgs(update.Message.Text)
	if query == "" {
		h.sendError(ctx, b, chatID, "❌ Укажите навык, например: /skill java")
		return
	}

	h.stateManager.SetData(update.Message.From.ID, state.KeySearchQuery, query)

	mentors := h.mentorService.Search(query)
	h.logger.Info("Skill search",
		zap.Int64("telegram_id", update.Message.From.ID),
		zap.String("query", query),
		zap.Int("found", len(mentors)))

	page := callbacks.SkillPage(query, mentors, 0)
	h.sendHTML(ctx, b, chatID, page.Text, page.Markup)
}

// HandleAll обрабатывает команду /all
func (h *Handlers) HandleAll(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	page := callbacks.AllPage(h.mentorService.All(), 0)
	h.sendHTML(ctx, b, update.Message.Chat.ID, page.Text, page.Markup)
}

// HandleEmail обрабатывает команду /email <адрес>
func (h *Handlers) HandleEmail(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	email := commandArgs(update.Message.Text)
	if email == "" {
		h.sendError(ctx, b, chatID, "❌ Укажите email, например: /email ana@example.com")
		return
	}

	mentors := h.mentorService.FindByEmail(email)
	if len(mentors) == 0 {
		h.sendHTML(ctx, b, chatID, fmt.Sprintf("😔 Ментор с email <b>%s</b> не найден.", html.EscapeString(email)), nil)
		return
	}

	cards := make([]string, 0, len(mentors))
	for _, m := range mentors {
		cards = append(cards, formatting.FormatMentor(m))
	}
	h.sendHTML(ctx, b, chatID, strings.Join(cards, "\n"), nil)
}

// HandleAvailability обрабатывает команду /availability <адрес>
func (h *Handlers) HandleAvailability(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	email := commandArgs(update.Message.Text)
	if email == "" {
		h.sendError(ctx, b, chatID, "❌ Укажите email, например: /availability ana@example.com")
		return
	}

	mentors := h.mentorService.FindByEmail(email)
	if len(mentors) == 0 {
		h.sendHTML(ctx, b, chatID, fmt.Sprintf("😔 Ментор с email <b>%s</b> не найден.", html.EscapeString(email)), nil)
		return
	}

	for i, m := range mentors {
		if i == maxAvailabilityImages {
			break
		}

		imageData, err := h.renderer.Render(m)
		if err != nil {
			h.logger.Error("Failed to render availability image",
				zap.String("email", m.Email),
				zap.Error(err))
			h.sendError(ctx, b, chatID, "❌ Не удалось построить картинку. Попробуйте позже.")
			return
		}

		_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:    chatID,
			Photo:     &models.InputFileUpload{Filename: "availability.png", Data: bytes.NewReader(imageData)},
			Caption:   formatting.FormatMentor(m),
			ParseMode: models.ParseModeHTML,
		})
		if err != nil {
			h.logger.Error("Failed to send availability image",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
		}
	}
}

// HandleStatus обрабатывает команду /status
func (h *Handlers) HandleStatus(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	status := h.mentorService.Status()
	text := formatting.FormatStatus(status.Version.RunID, status.Version.Mentors, status.LastReport)
	h.sendHTML(ctx, b, update.Message.Chat.ID, text, nil)
}

// HandleHistory обрабатывает команду /history (администраторы)
func (h *Handlers) HandleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !h.requireAdmin(ctx, b, update) {
		return
	}

	chatID := update.Message.Chat.ID
	if !h.mentorService.Status().HistoryEnabled {
		h.sendMessage(ctx, b, chatID, "ℹ️ История загрузок не ведётся: база данных не настроена.")
		return
	}

	runs, err := h.mentorService.History(ctx, historyLimit)
	if err != nil {
		h.logger.Error("Failed to load ingestion history", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось получить историю. Попробуйте позже.")
		return
	}

	h.sendHTML(ctx, b, chatID, formatting.FormatHistory(runs), nil)
}
