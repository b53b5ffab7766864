// Package v1 registers the HTTP surface: /chat, /clear, /quiz and a
// liveness probe.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edupath/mentor/internal/profile"
	"github.com/edupath/mentor/server/ratelimit"
	"github.com/edupath/mentor/server/service/chat"
	"github.com/edupath/mentor/server/service/quiz"
)

type APIV1Service struct {
	Profile *profile.Profile
	Chat    *chat.Service
	Quiz    *quiz.Service
	Limiter ratelimit.Limiter
}

func NewAPIV1Service(profile *profile.Profile, chatService *chat.Service, quizService *quiz.Service, limiter ratelimit.Limiter) *APIV1Service {
	return &APIV1Service{
		Profile: profile,
		Chat:    chatService,
		Quiz:    quizService,
		Limiter: limiter,
	}
}

// RegisterRoutes registers all handlers with the given Echo instance.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	echoServer.POST("/chat", s.handleChat)
	echoServer.POST("/clear", s.handleClear)
	echoServer.POST("/quiz", s.handleQuiz)
	echoServer.GET("/healthz", s.handleHealthz)
}

func (s *APIV1Service) handleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.Profile.Version,
	})
}
