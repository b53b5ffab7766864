// Package chat implements the conversation gateway: it turns one inbound
// chat request into one persisted, extended conversation and one generated
// reply.
package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/edupath/mentor/plugin/llm"
	"github.com/edupath/mentor/plugin/markdown"
	"github.com/edupath/mentor/plugin/textextract"
	"github.com/edupath/mentor/server/internal/errors"
	"github.com/edupath/mentor/server/internal/observability"
	"github.com/edupath/mentor/store"
)

// ConversationStore is the persistence surface the gateway needs.
type ConversationStore interface {
	GetConversation(ctx context.Context, userID string) ([]store.Message, error)
	UpsertConversation(ctx context.Context, userID string, messages []store.Message) error
	DeleteConversation(ctx context.Context, userID string) error
}

// Service orchestrates request validation, history retrieval, turn
// construction, model invocation, and history persistence.
type Service struct {
	store     ConversationStore
	llm       llm.Service
	extractor textextract.Extractor
	markdown  markdown.Service

	// serializePerUser guards the conversation document's read-modify-write
	// against concurrent requests for the same user id. When disabled, two
	// concurrent turns race and the last write wins.
	serializePerUser bool
	locksMu          sync.Mutex
	userLocks        map[string]*sync.Mutex
}

// Option configures the Service.
type Option func(*Service)

// WithSerializePerUser toggles per-user turn serialization.
func WithSerializePerUser(enabled bool) Option {
	return func(s *Service) {
		s.serializePerUser = enabled
	}
}

// NewService creates a conversation gateway.
func NewService(store ConversationStore, llmService llm.Service, extractor textextract.Extractor, md markdown.Service, opts ...Option) *Service {
	s := &Service{
		store:            store,
		llm:              llmService,
		extractor:        extractor,
		markdown:         md,
		serializePerUser: true,
		userLocks:        make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendInput is one inbound chat request.
type SendInput struct {
	UserID   string
	Message  string
	Filename string
	FileData []byte
	// RenderHTML additionally returns the reply rendered to HTML.
	RenderHTML bool
}

// SendOutput is the generated reply.
type SendOutput struct {
	Reply     string
	ReplyHTML string
}

// Send runs one chat turn. Persistence is strictly gated on completion
// success: the stored conversation never reflects a reply the caller never
// received.
func (s *Service) Send(ctx context.Context, in SendInput) (*SendOutput, error) {
	message := in.Message
	if len(in.FileData) > 0 {
		// Best effort: extraction failure or empty text is tolerated and the
		// message proceeds as-is.
		if text := s.extractor.Extract(ctx, in.Filename, in.FileData); text != "" {
			message += resumeLabel + text
		}
	}

	if in.UserID == "" || message == "" {
		return nil, errors.InvalidArgument("user_id and message are required.")
	}

	if s.serializePerUser {
		lock := s.userLock(in.UserID)
		lock.Lock()
		defer lock.Unlock()
	}

	logger := observability.NewRequestContext(slog.Default(), in.UserID)
	logger.Info("chat turn started",
		slog.Int(observability.LogFieldMessageLen, len(message)))

	history, err := s.store.GetConversation(ctx, in.UserID)
	if err != nil {
		logger.Error("failed to load conversation", err)
		return nil, errors.UpstreamFailed("failed to load conversation", err)
	}

	now := time.Now().Unix()
	messages := append(history, store.Message{
		UID:       shortuuid.New(),
		Role:      store.MessageRoleUser,
		Content:   message,
		CreatedTs: now,
	})

	reply, err := s.llm.Complete(ctx, buildTurns(messages))
	if err != nil {
		logger.Error("completion call failed", err)
		return nil, errors.UpstreamFailed("Failed to get response from completion model", err)
	}
	reply = strings.TrimSpace(reply)

	messages = append(messages, store.Message{
		UID:       shortuuid.New(),
		Role:      store.MessageRoleModel,
		Content:   reply,
		CreatedTs: time.Now().Unix(),
	})
	if err := s.store.UpsertConversation(ctx, in.UserID, messages); err != nil {
		logger.Error("failed to persist conversation", err)
		return nil, errors.UpstreamFailed("failed to persist conversation", err)
	}

	out := &SendOutput{Reply: reply}
	if in.RenderHTML && s.markdown != nil {
		html, err := s.markdown.RenderHTML(reply)
		if err != nil {
			// The raw reply is already committed; rendering is cosmetic.
			logger.Warn("failed to render reply", slog.String("error", err.Error()))
		} else {
			out.ReplyHTML = html
		}
	}

	logger.Info("chat turn completed",
		slog.Int64(observability.LogFieldDuration, logger.DurationMs()),
		slog.Int("turn_count", len(messages)))
	return out, nil
}

// Clear hard-deletes the user's conversation.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.InvalidArgument("user_id is required.")
	}
	if err := s.store.DeleteConversation(ctx, userID); err != nil {
		return errors.UpstreamFailed("Failed to clear conversation.", err)
	}
	return nil
}

func (s *Service) userLock(userID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	if lock, ok := s.userLocks[userID]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	s.userLocks[userID] = lock
	return lock
}
