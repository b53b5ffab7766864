package store

// MessageRole tags who produced a message.
type MessageRole string

const (
	// MessageRoleUser is a caller-authored message.
	MessageRoleUser MessageRole = "user"
	// MessageRoleModel is a completion-model-authored message.
	MessageRoleModel MessageRole = "model"
)

// Message is one role-tagged turn of a conversation. The full ordered
// sequence is resent to the completion model on every turn.
type Message struct {
	// UID and CreatedTs are storage metadata and are never sent to the model.
	UID       string      `json:"uid,omitempty"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	CreatedTs int64       `json:"created_ts,omitempty"`
}

// Conversation is the one document stored per user identifier.
// The message sequence conceptually alternates user/model, but ordering is
// whatever was appended; it is not enforced.
type Conversation struct {
	UserID    string
	Messages  []Message
	UpdatedTs int64
}
