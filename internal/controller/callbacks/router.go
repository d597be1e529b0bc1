package callbacks

import (
	"context"
	"strconv"
	"strings"

	"github.com/Freeeeeet/mentors_bot/internal/controller/keyboard"
	"github.com/Freeeeeet/mentors_bot/internal/controller/state"
	"github.com/Freeeeeet/mentors_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Callback Data Patterns
const (
	SkillPagePrefix = "skill_page:" // skill_page:2, запрос берётся из состояния пользователя
	AllPagePrefix   = "all_page:"   // all_page:2
)

// Handler обрабатывает нажатия на inline кнопки
type Handler struct {
	mentorService *service.MentorService
	stateManager  *state.Manager
	logger        *zap.Logger
}

func NewHandler(mentorService *service.MentorService, stateManager *state.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		mentorService: mentorService,
		stateManager:  stateManager,
		logger:        logger,
	}
}

// HandleCallbackQuery точка входа для всех callback query
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	h.Route(ctx, b, update.CallbackQuery)
}

// Route распределяет callback query по соответствующим обработчикам
func (h *Handler) Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	data := callback.Data

	h.logger.Debug("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	case data == keyboard.Noop:
		h.answer(ctx, b, callback.ID, "")
	case strings.HasPrefix(data, SkillPagePrefix):
		h.handleSkillPage(ctx, b, callback)
	case strings.HasPrefix(data, AllPagePrefix):
		h.handleAllPage(ctx, b, callback)
	default:
		h.logger.Warn("Unknown callback", zap.String("data", data))
		h.answer(ctx, b, callback.ID, "❌ Неизвестное действие")
	}
}

func (h *Handler) handleSkillPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	page, ok := parsePage(callback.Data, SkillPagePrefix)
	if !ok {
		h.answer(ctx, b, callback.ID, "❌ Неверная страница")
		return
	}

	query, ok := h.stateManager.GetString(callback.From.ID, state.KeySearchQuery)
	if !ok {
		h.answer(ctx, b, callback.ID, "Поиск устарел, повторите /skill")
		return
	}

	h.editPage(ctx, b, callback, SkillPage(query, h.mentorService.Search(query), page))
}

func (h *Handler) handleAllPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	page, ok := parsePage(callback.Data, AllPagePrefix)
	if !ok {
		h.answer(ctx, b, callback.ID, "❌ Неверная страница")
		return
	}

	h.editPage(ctx, b, callback, AllPage(h.mentorService.All(), page))
}

func (h *Handler) editPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, page Page) {
	h.answer(ctx, b, callback.ID, "")

	msg := callback.Message.Message
	if msg == nil {
		return
	}

	params := &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      page.Text,
		ParseMode: models.ParseModeHTML,
	}
	if page.Markup != nil {
		params.ReplyMarkup = page.Markup
	}

	if _, err := b.EditMessageText(ctx, params); err != nil {
		h.logger.Error("Failed to edit message",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Int("message_id", msg.ID),
			zap.Error(err))
	}
}

// answer отвечает на callback query (без alert)
func (h *Handler) answer(ctx context.Context, b *bot.Bot, callbackID, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		h.logger.Debug("Failed to answer callback", zap.Error(err))
	}
}

// parsePage извлекает номер страницы: "skill_page:3" -> 3
func parsePage(data, prefix string) (int, bool) {
	page, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
	if err != nil || page < 0 {
		return 0, false
	}
	return page, true
}
