package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/zizouhuweidi/trivia/internal/service"
	"github.com/zizouhuweidi/trivia/internal/websocket"
	"go.uber.org/zap"
)

// NewServer builds the echo instance serving the trivia API. A nil limiter
// disables rate limiting.
func NewServer(trivia *service.TriviaService, hub *websocket.Hub, limiter Limiter, logger *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = ErrorHandler(logger)

	// Middleware
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(RequestLogger(logger))
	e.Use(Recover(logger))
	e.Use(CORS())
	e.Use(AccessControlHeaders())
	if limiter != nil {
		e.Use(RateLimit(limiter, logger))
	}

	// Routes
	NewTriviaHandler(trivia).Register(e)
	e.GET("/ws", NewWebSocketHandler(hub).HandleWebSocket)

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	return e
}
