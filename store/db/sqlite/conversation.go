package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/edupath/mentor/store"
)

func (d *DB) GetConversation(ctx context.Context, userID string) (*store.Conversation, error) {
	query := `SELECT user_id, messages, updated_ts FROM conversation WHERE user_id = ?`

	conversation := &store.Conversation{}
	var raw string
	err := d.db.QueryRowContext(ctx, query, userID).Scan(&conversation.UserID, &raw, &conversation.UpdatedTs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), &conversation.Messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation messages: %w", err)
	}
	return conversation, nil
}

func (d *DB) UpsertConversation(ctx context.Context, upsert *store.Conversation) error {
	raw, err := json.Marshal(upsert.Messages)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation messages: %w", err)
	}

	stmt := `
		INSERT INTO conversation (user_id, messages, updated_ts)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id)
		DO UPDATE SET messages = excluded.messages, updated_ts = excluded.updated_ts`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.UserID, string(raw), upsert.UpdatedTs); err != nil {
		return fmt.Errorf("failed to upsert conversation: %w", err)
	}
	return nil
}

func (d *DB) DeleteConversation(ctx context.Context, userID string) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM conversation WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

func (d *DB) VacuumConversations(ctx context.Context, beforeTs int64) (int64, error) {
	result, err := d.db.ExecContext(ctx, `DELETE FROM conversation WHERE updated_ts < ?`, beforeTs)
	if err != nil {
		return 0, fmt.Errorf("failed to vacuum conversations: %w", err)
	}
	return result.RowsAffected()
}
