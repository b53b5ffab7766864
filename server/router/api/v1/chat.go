package v1

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/edupath/mentor/server/internal/errors"
	"github.com/edupath/mentor/server/service/chat"
)

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
	Render  string `json:"render"`
}

type chatResponse struct {
	Response     string `json:"response"`
	ResponseHTML string `json:"response_html,omitempty"`
}

type clearRequest struct {
	UserID string `json:"user_id"`
}

func (s *APIV1Service) handleChat(c echo.Context) error {
	in, err := parseChatRequest(c)
	if err != nil {
		return errorJSON(c, err)
	}

	// A missing user identifier never reaches the limiter; it is a
	// validation failure first.
	if in.UserID == "" {
		return errorJSON(c, errors.InvalidArgument("user_id and message are required."))
	}

	admitted, err := s.Limiter.Admit(c.Request().Context(), in.UserID)
	if err != nil {
		// A broken limiter backend fails open rather than taking chat down.
		slog.Warn("rate limiter check failed", "user_id", in.UserID, "error", err)
	} else if !admitted {
		return errorJSON(c, errors.RateLimitExceeded("Rate limit exceeded. Please try again later."))
	}

	out, err := s.Chat.Send(c.Request().Context(), *in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, chatResponse{Response: out.Reply, ResponseHTML: out.ReplyHTML})
}

func (s *APIV1Service) handleClear(c echo.Context) error {
	var req clearRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, errors.InvalidArgument("user_id is required."))
	}
	if req.UserID == "" {
		return errorJSON(c, errors.InvalidArgument("user_id is required."))
	}

	if err := s.Chat.Clear(c.Request().Context(), req.UserID); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Conversation cleared successfully."})
}

// parseChatRequest accepts either a JSON body or multipart form data with an
// optional uploaded file.
func parseChatRequest(c echo.Context) (*chat.SendInput, error) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		in := &chat.SendInput{
			UserID:     c.FormValue("user_id"),
			Message:    c.FormValue("message"),
			RenderHTML: c.FormValue("render") == "html",
		}

		fileHeader, err := c.FormFile("file")
		if err != nil && err != http.ErrMissingFile {
			return nil, errors.InvalidArgument("invalid file upload")
		}
		if fileHeader != nil {
			file, err := fileHeader.Open()
			if err != nil {
				return nil, errors.InvalidArgument("invalid file upload")
			}
			defer file.Close()

			data, err := io.ReadAll(file)
			if err != nil {
				return nil, errors.InvalidArgument("invalid file upload")
			}
			in.Filename = fileHeader.Filename
			in.FileData = data
		}
		return in, nil
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return nil, errors.InvalidArgument("invalid request body")
	}
	return &chat.SendInput{
		UserID:     req.UserID,
		Message:    req.Message,
		RenderHTML: req.Render == "html",
	}, nil
}

// errorJSON renders a GatewayError as {error} with its mapped status.
// Upstream failures pass the underlying cause through as diagnostic text;
// generation failures stay generic.
func errorJSON(c echo.Context, err error) error {
	if gwErr, ok := err.(*errors.GatewayError); ok {
		message := gwErr.Message
		if gwErr.Code == errors.ErrCodeUpstreamFailed && gwErr.Cause != nil {
			message += ": " + gwErr.Cause.Error()
		}
		return c.JSON(gwErr.HTTPStatus(), map[string]string{"error": message})
	}
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
}
