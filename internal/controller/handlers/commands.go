package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/mentors_bot/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	name := "друг"
	if from := update.Message.From; from != nil {
		// Начинаем с чистого листа: сбрасываем загрузку и последний поиск
		h.stateManager.Reset(from.ID)
		if from.FirstName != "" {
			name = from.FirstName
		}
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Я помогу найти ментора по навыку и узнать, когда он свободен.\n\n"+
			"/skill <навык> - Найти менторов по навыку\n"+
			"/all - Все менторы\n"+
			"/email <адрес> - Найти ментора по email\n"+
			"/availability <адрес> - Доступность ментора картинкой\n"+
			"/help - Справка",
		name,
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"/skill <навык> - Менторы, у которых есть навык (например, /skill java)\n" +
		"/all - Все менторы\n" +
		"/email <адрес> - Карточка ментора по email\n" +
		"/availability <адрес> - Доступность ментора по дням мероприятия\n" +
		"/status - Текущая версия справочника\n\n" +
		"Для администраторов:\n" +
		"/upload - Загрузить новую таблицу .xlsx\n" +
		"/history - Последние загрузки\n" +
		"/cancel - Отменить текущую операцию"

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.stateManager.GetState(telegramID) == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.")
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	switch currentState := h.stateManager.GetState(telegramID); currentState {
	case state.StateNone:
		h.logger.Debug("No active state, ignoring message",
			zap.Int64("telegram_id", telegramID))
	case state.StateAwaitingSpreadsheet:
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			"📎 Жду файл .xlsx документом. Отправьте /cancel, чтобы отменить загрузку.")
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
	}
}
