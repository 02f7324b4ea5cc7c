package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/huddlehq/huddle/internal/models"
)

func seedUser(t *testing.T, db *gorm.DB, id, name, email string) *models.User {
	t.Helper()
	user := &models.User{
		BaseModel: models.BaseModel{ID: id},
		Name:      name,
		Email:     email,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTeam(t *testing.T, db *gorm.DB, id, slug, ownerID string) *models.Team {
	t.Helper()
	team := &models.Team{
		BaseModel:   models.BaseModel{ID: id},
		Name:        slug,
		Slug:        slug,
		OwnerUserID: ownerID,
	}
	require.NoError(t, db.Create(team).Error)
	return team
}

func seedMembership(t *testing.T, db *gorm.DB, teamID, userID string, role models.TeamRole) *models.TeamMembership {
	t.Helper()
	membership := &models.TeamMembership{
		TeamID: teamID,
		UserID: userID,
		Role:   role,
	}
	require.NoError(t, db.Create(membership).Error)
	return membership
}

func seedThread(t *testing.T, db *gorm.DB, id, teamID string) *models.Thread {
	t.Helper()
	thread := &models.Thread{
		BaseModel: models.BaseModel{ID: id},
		TeamID:    teamID,
		Title:     "general",
	}
	require.NoError(t, db.Create(thread).Error)
	return thread
}

func seedParticipant(t *testing.T, db *gorm.DB, threadID, userID string, role models.ParticipantRole) *models.ThreadParticipant {
	t.Helper()
	participant := &models.ThreadParticipant{
		ThreadID: threadID,
		UserID:   userID,
		Role:     role,
	}
	require.NoError(t, db.Create(participant).Error)
	return participant
}

// seedTeamScene wires a team with an owner plus a thread whose roster holds
// the owner as admin. Most message tests start from here.
type teamScene struct {
	owner  *models.User
	team   *models.Team
	thread *models.Thread
}

func seedTeamScene(t *testing.T, db *gorm.DB) teamScene {
	t.Helper()

	owner := seedUser(t, db, "user-owner", "Olive", "olive@example.com")
	team := seedTeam(t, db, "team-1", "acme", owner.ID)
	seedMembership(t, db, team.ID, owner.ID, models.TeamRoleOwner)
	thread := seedThread(t, db, "thread-1", team.ID)
	seedParticipant(t, db, thread.ID, owner.ID, models.ParticipantRoleAdmin)

	return teamScene{owner: owner, team: team, thread: thread}
}
