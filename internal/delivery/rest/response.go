package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz-bot/internal/service"
	"github.com/aliskhannn/trivia-quiz-bot/internal/storage"
)

const traceIDKey = "trace_id"

// APIResponse is the envelope of every response.
type APIResponse struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString(traceIDKey)
}

func RespondSuccess(c *gin.Context, data any, message string) {
	respond(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data any, message string) {
	respond(c, http.StatusCreated, data, message)
}

func respond(c *gin.Context, code int, data any, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps service errors to HTTP responses.
func HandleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, storage.ErrGameNotFound):
		RespondError(c, http.StatusNotFound, "Game not found")

	case errors.Is(err, service.ErrUnknownCategory):
		RespondError(c, http.StatusBadRequest, "Unknown category")
	case errors.Is(err, entities.ErrInvalidOption):
		RespondError(c, http.StatusBadRequest, "Option out of range")
	case errors.Is(err, entities.ErrOptionEliminated):
		RespondError(c, http.StatusBadRequest, "Option was eliminated")
	case errors.Is(err, entities.ErrUnknownLifeline):
		RespondError(c, http.StatusBadRequest, "Unknown lifeline")

	case errors.Is(err, entities.ErrNotPlaying):
		RespondError(c, http.StatusConflict, "Game is not accepting this action")
	case errors.Is(err, entities.ErrAlreadyAnswered):
		RespondError(c, http.StatusConflict, "Question already answered")
	case errors.Is(err, entities.ErrAnswerPending):
		RespondError(c, http.StatusConflict, "Answer the question first")
	case errors.Is(err, entities.ErrLifelineUsed):
		RespondError(c, http.StatusConflict, "Lifeline already used")

	case errors.Is(err, entities.ErrNoQuestions):
		RespondError(c, http.StatusServiceUnavailable, "No questions available")

	default:
		logger.Error("request failed",
			zap.String("trace_id", traceID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
