package models

import "time"

// Thread is a team-scoped conversation container. LastMessageAt is
// denormalised so thread lists can sort without joining messages.
type Thread struct {
	BaseModel

	TeamID   string `gorm:"type:uuid;not null;index" json:"team_id"`
	Title    string `json:"title"`
	Archived bool   `gorm:"default:false" json:"archived"`

	LastMessageAt *time.Time `gorm:"index" json:"last_message_at"`

	Participants []ThreadParticipant `gorm:"foreignKey:ThreadID" json:"participants,omitempty"`
}

// ParticipantRole gates thread-level moderation. Admin participants may
// delete messages they did not author.
type ParticipantRole string

const (
	ParticipantRoleMember ParticipantRole = "member"
	ParticipantRoleAdmin  ParticipantRole = "admin"
)

// ThreadParticipant joins a user to a thread. Existence of the row is what
// authorises message reads and writes.
type ThreadParticipant struct {
	BaseModel

	ThreadID string          `gorm:"type:uuid;not null;uniqueIndex:idx_thread_user" json:"thread_id"`
	UserID   string          `gorm:"type:uuid;not null;uniqueIndex:idx_thread_user" json:"user_id"`
	Role     ParticipantRole `gorm:"not null;default:member" json:"role"`
}

// IsAdmin reports whether the participant may moderate the thread.
func (p *ThreadParticipant) IsAdmin() bool {
	return p != nil && p.Role == ParticipantRoleAdmin
}
