package database

import (
	"gorm.io/gorm"

	"github.com/huddlehq/huddle/internal/models"
)

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMembership{},
		&models.Thread{},
		&models.ThreadParticipant{},
		&models.ThreadMessage{},
	)
}
