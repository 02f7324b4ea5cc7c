package models

import "time"

// MessageKind tags the author variant of a message. System and AI messages
// carry no author id.
type MessageKind string

const (
	MessageKindText   MessageKind = "text"
	MessageKindSystem MessageKind = "system"
	MessageKindAI     MessageKind = "ai"
)

// ThreadMessage is a single message in a thread. ReplyToID, when set, points
// at a top-level message in the same thread; replies may not themselves be
// replied to, so the tree is exactly two levels deep.
type ThreadMessage struct {
	BaseModel

	ThreadID string      `gorm:"type:uuid;not null;index:idx_thread_created" json:"thread_id"`
	AuthorID *string     `gorm:"type:uuid" json:"author_id"`
	Kind     MessageKind `gorm:"not null;default:text" json:"kind"`
	Content  string      `gorm:"not null" json:"content"`

	ReplyToID *string    `gorm:"type:uuid;index" json:"reply_to_id"`
	EditedAt  *time.Time `json:"edited_at"`
}

// IsTopLevel reports whether the message has no reply target.
func (m *ThreadMessage) IsTopLevel() bool {
	return m != nil && m.ReplyToID == nil
}

// Editable reports whether the message content may still be changed. Only
// user-authored text messages are editable.
func (m *ThreadMessage) Editable() bool {
	return m != nil && m.Kind == MessageKindText
}
