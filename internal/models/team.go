package models

// Team is the tenant boundary. Branding fields are owned by the branding
// module and carried here read-only.
type Team struct {
	BaseModel

	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"uniqueIndex;not null" json:"slug"`
	OwnerUserID string `gorm:"type:uuid;not null" json:"owner_user_id"`

	LogoURL     string `json:"logo_url,omitempty"`
	AccentColor string `json:"accent_color,omitempty"`

	Memberships []TeamMembership `gorm:"foreignKey:TeamID" json:"memberships,omitempty"`
}
