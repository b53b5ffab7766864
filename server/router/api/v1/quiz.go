package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edupath/mentor/server/internal/errors"
)

type quizRequest struct {
	Stream  string            `json:"stream"`
	Answers map[string]string `json:"answers"`
}

func (s *APIV1Service) handleQuiz(c echo.Context) error {
	request := new(quizRequest)
	if err := c.Bind(request); err != nil {
		return errorJSON(c, errors.InvalidArgument("malformed quiz request"))
	}

	resp, err := s.Quiz.Next(c.Request().Context(), request.Stream, request.Answers)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
