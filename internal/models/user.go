package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an identity record created at first authentication.
//
// CurrentTeamID is a weak reference: it points at a team the user selected but
// need not still belong to. Membership rows are the sole source of truth for
// permission; this pointer is re-validated (and self-healed) on every resolve.
type User struct {
	BaseModel

	Name  string `json:"name"`
	Email string `gorm:"index" json:"email"`
	Phone string `json:"phone"`

	CurrentTeamID *string `gorm:"type:uuid" json:"current_team_id"`

	Memberships []TeamMembership `gorm:"foreignKey:UserID" json:"memberships,omitempty"`
}

// BeforeCreate ensures a UUID is present before persisting.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// DisplayName resolves the label shown next to messages the user authored:
// name, then email, then phone, then "Anonymous".
func (u *User) DisplayName() string {
	if u == nil {
		return "Anonymous"
	}
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if email := strings.TrimSpace(u.Email); email != "" {
		return email
	}
	if phone := strings.TrimSpace(u.Phone); phone != "" {
		return phone
	}
	return "Anonymous"
}
