package httpapi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Freeeeeet/mentors_bot/internal/directory"
	"github.com/Freeeeeet/mentors_bot/internal/model"
	"github.com/Freeeeeet/mentors_bot/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	maxUploadSize       = 20 << 20
)

type MentorsController struct {
	mentorService *service.MentorService
	apiToken      string
	logger        *zap.Logger
}

func NewMentorsController(mentorService *service.MentorService, apiToken string, logger *zap.Logger) *MentorsController {
	return &MentorsController{
		mentorService: mentorService,
		apiToken:      apiToken,
		logger:        logger,
	}
}

func (c *MentorsController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.GET("/mentors", c.listMentors)
		api.GET("/mentors/by-email/:email", c.mentorsByEmail)
		api.GET("/status", c.status)
		api.GET("/ingestions", c.ingestions)
		api.GET("/ingestions/:id/failures", c.ingestionFailures)
	}

	admin := router.Group("/api/v1")
	admin.Use(c.bearerAuth())
	{
		admin.POST("/mentors/import", c.importSpreadsheet)
	}
}

type mentorResponse struct {
	Name   string       `json:"name"`
	Email  string       `json:"email"`
	Skills []string     `json:"skills"`
	Slots  []model.Slot `json:"slots"`
}

func toMentorResponses(mentors []model.Mentor) []mentorResponse {
	out := make([]mentorResponse, 0, len(mentors))
	for _, m := range mentors {
		slots := m.Slots
		if slots == nil {
			slots = []model.Slot{}
		}
		out = append(out, mentorResponse{
			Name:   m.Name,
			Email:  m.Email,
			Skills: m.SkillNames(),
			Slots:  slots,
		})
	}
	return out
}

func (c *MentorsController) listMentors(ctx *gin.Context) {
	var mentors []model.Mentor
	if skill := strings.TrimSpace(ctx.Query("skill")); skill != "" {
		mentors = c.mentorService.Search(skill)
	} else {
		mentors = c.mentorService.All()
	}

	ctx.JSON(http.StatusOK, gin.H{
		"count":   len(mentors),
		"mentors": toMentorResponses(mentors),
	})
}

func (c *MentorsController) mentorsByEmail(ctx *gin.Context) {
	mentors := c.mentorService.FindByEmail(ctx.Param("email"))
	if len(mentors) == 0 {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Mentor not found"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"mentors": toMentorResponses(mentors)})
}

func (c *MentorsController) status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.mentorService.Status())
}

func (c *MentorsController) ingestions(ctx *gin.Context) {
	limit := defaultHistoryLimit
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryLimit {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	runs, err := c.mentorService.History(ctx.Request.Context(), limit)
	if err != nil {
		c.logger.Error("Failed to list ingestions", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ingestions"})
		return
	}
	if runs == nil {
		runs = []*model.IngestionRun{}
	}

	ctx.JSON(http.StatusOK, gin.H{"ingestions": runs})
}

func (c *MentorsController) ingestionFailures(ctx *gin.Context) {
	runID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ingestion ID format"})
		return
	}

	failures, err := c.mentorService.Failures(ctx.Request.Context(), runID)
	if err != nil {
		c.logger.Error("Failed to list ingestion failures",
			zap.String("run_id", runID.String()),
			zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list ingestion failures"})
		return
	}
	if failures == nil {
		failures = []model.RowFailure{}
	}

	ctx.JSON(http.StatusOK, gin.H{"run_id": runID, "failures": failures})
}

func (c *MentorsController) importSpreadsheet(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxUploadSize)

	header, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return
	}

	file, err := header.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	report, err := c.mentorService.Import(ctx.Request.Context(), file, header.Filename)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, directory.ErrSourceRead) {
			status = http.StatusUnprocessableEntity
		}
		c.logger.Warn("Spreadsheet import rejected",
			zap.String("file_name", header.Filename),
			zap.Error(err))
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, report)
}

// bearerAuth пропускает только запросы с HTTP_API_TOKEN; без токена импорт закрыт
func (c *MentorsController) bearerAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if c.apiToken == "" {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "import is disabled"})
			return
		}

		token, ok := strings.CutPrefix(ctx.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(c.apiToken)) != 1 {
			ctx.Header("WWW-Authenticate", "Bearer")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		ctx.Next()
	}
}
