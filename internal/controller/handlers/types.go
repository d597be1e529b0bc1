package handlers

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/mentors_bot/internal/controller/render"
	"github.com/Freeeeeet/mentors_bot/internal/controller/state"
	"github.com/Freeeeeet/mentors_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	mentorService *service.MentorService
	renderer      *render.AvailabilityRenderer
	stateManager  *state.Manager
	isAdmin       func(telegramID int64) bool
	httpClient    *http.Client
	logger        *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	mentorService *service.MentorService,
	renderer *render.AvailabilityRenderer,
	stateManager *state.Manager,
	isAdmin func(telegramID int64) bool,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		mentorService: mentorService,
		renderer:      renderer,
		stateManager:  stateManager,
		isAdmin:       isAdmin,
		httpClient:    &http.Client{Timeout: 2 * time.Minute},
		logger:        logger,
	}
}
