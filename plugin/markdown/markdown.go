// Package markdown renders model replies to HTML for clients that prefer
// pre-rendered output over raw markdown.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Service renders markdown text.
type Service interface {
	RenderHTML(source string) (string, error)
}

type service struct {
	md goldmark.Markdown
}

// NewService creates a markdown rendering service.
func NewService() Service {
	return &service{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

func (s *service) RenderHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
