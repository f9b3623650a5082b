package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sunpeak/solar-advisor/internal/domain/advisor"
	"github.com/sunpeak/solar-advisor/internal/domain/chat"
	"github.com/sunpeak/solar-advisor/internal/domain/forecast"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	chatSvc     chat.Service
	forecastSvc forecast.Service
	advisorSvc  advisor.Service
	logger      *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(chatSvc chat.Service, forecastSvc forecast.Service, advisorSvc advisor.Service, logger *slog.Logger) *Handler {
	return &Handler{
		chatSvc:     chatSvc,
		forecastSvc: forecastSvc,
		advisorSvc:  advisorSvc,
		logger:      logger.With("component", "http.handler"),
	}
}

// CreateSession allocates a fresh conversation session.
func (h *Handler) CreateSession(c *gin.Context) {
	id := h.chatSvc.CreateSession(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"sessionId": id})
}

// Chat submits one conversation turn.
func (h *Handler) Chat(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.chatSvc.SubmitTurn(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainHTTPError(err, "chat_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Predict returns the forecast with the derived solar output estimates.
func (h *Handler) Predict(c *gin.Context) {
	var req forecast.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.forecastSvc.Predict(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainHTTPError(err, "forecast_failed"))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateInstructions turns a raw weather payload into panel guidance. The
// body is forwarded to the advisor verbatim, so no binding happens here.
func (h *Handler) GenerateInstructions(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read request body", err))
		return
	}

	advisory, err := h.advisorSvc.Generate(c.Request.Context(), payload)
	if err != nil {
		abortWithError(c, domainHTTPError(err, "advisory_failed"))
		return
	}

	c.JSON(http.StatusOK, advisory)
}
