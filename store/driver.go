package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Migrate creates the schema if it does not exist yet.
	Migrate(ctx context.Context) error

	// Conversation model related methods.
	GetConversation(ctx context.Context, userID string) (*Conversation, error)
	UpsertConversation(ctx context.Context, upsert *Conversation) error
	DeleteConversation(ctx context.Context, userID string) error

	// VacuumConversations hard-deletes conversations not updated since the
	// given unix timestamp and returns the number of rows removed.
	VacuumConversations(ctx context.Context, beforeTs int64) (int64, error)
}
