package models

// TeamRole orders team permissions: member < admin < owner.
type TeamRole string

const (
	TeamRoleMember TeamRole = "member"
	TeamRoleAdmin  TeamRole = "admin"
	TeamRoleOwner  TeamRole = "owner"
)

var teamRoleRanks = map[TeamRole]int{
	TeamRoleMember: 1,
	TeamRoleAdmin:  2,
	TeamRoleOwner:  3,
}

// Rank returns the position of the role in the hierarchy, 0 for unknown roles.
func (r TeamRole) Rank() int {
	return teamRoleRanks[r]
}

// Valid reports whether the role is one of the known hierarchy levels.
func (r TeamRole) Valid() bool {
	_, ok := teamRoleRanks[r]
	return ok
}

// TeamMembership joins a user to a team with a role. At most one row exists
// per (team, user) pair; CreatedAt doubles as the joined timestamp.
type TeamMembership struct {
	BaseModel

	TeamID string   `gorm:"type:uuid;not null;uniqueIndex:idx_team_user" json:"team_id"`
	UserID string   `gorm:"type:uuid;not null;uniqueIndex:idx_team_user" json:"user_id"`
	Role   TeamRole `gorm:"not null;default:member" json:"role"`

	Team *Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// HasRole reports whether the membership's role ranks at or above required.
func (m *TeamMembership) HasRole(required TeamRole) bool {
	if m == nil {
		return false
	}
	return m.Role.Rank() >= required.Rank()
}
