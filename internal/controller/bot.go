package controller

import (
	"context"

	"github.com/Freeeeeet/mentors_bot/internal/controller/callbacks"
	"github.com/Freeeeeet/mentors_bot/internal/controller/handlers"
	"github.com/Freeeeeet/mentors_bot/internal/controller/render"
	"github.com/Freeeeeet/mentors_bot/internal/controller/state"
	"github.com/Freeeeeet/mentors_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	mentorService *service.MentorService,
	renderer *render.AvailabilityRenderer,
	isAdmin func(telegramID int64) bool,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(
		mentorService,
		renderer,
		stateManager,
		isAdmin,
		logger,
	)

	callbackHandler := callbacks.NewHandler(mentorService, stateManager, logger)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Поиск по справочнику
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/skill", bot.MatchTypePrefix, c.handlers.HandleSkill)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/all", bot.MatchTypePrefix, c.handlers.HandleAll)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/email", bot.MatchTypePrefix, c.handlers.HandleEmail)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/availability", bot.MatchTypePrefix, c.handlers.HandleAvailability)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/status", bot.MatchTypePrefix, c.handlers.HandleStatus)

	// Команды для администраторов
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/upload", bot.MatchTypePrefix, c.handlers.HandleUpload)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/history", bot.MatchTypePrefix, c.handlers.HandleHistory)

	// Файл таблицы после /upload
	c.bot.RegisterHandlerMatchFunc(handlers.IsDocument, c.handlers.HandleDocument)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "skill", Description: "🔎 Менторы по навыку"},
		{Command: "all", Description: "📚 Все менторы"},
		{Command: "email", Description: "📧 Ментор по email"},
		{Command: "availability", Description: "🗓 Доступность ментора"},
		{Command: "status", Description: "ℹ️ Версия справочника"},
		{Command: "upload", Description: "📎 Загрузить таблицу (админ)"},
		{Command: "history", Description: "🗂 История загрузок (админ)"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
