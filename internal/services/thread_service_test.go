package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huddlehq/huddle/internal/database/testutil"
	"github.com/huddlehq/huddle/internal/models"
)

func TestThreadCreate(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	teams, err := NewTeamContextService(db)
	require.NoError(t, err)
	svc, err := NewThreadService(db, teams)
	require.NoError(t, err)

	user := seedUser(t, db, "user-1", "Ada", "ada@example.com")
	seedTeam(t, db, "team-1", "acme", user.ID)
	seedMembership(t, db, "team-1", user.ID, models.TeamRoleMember)

	// no team selected yet
	_, err = svc.Create(context.Background(), user, CreateThreadInput{Title: "general"})
	require.ErrorIs(t, err, ErrNoTeamSelected)

	require.NoError(t, teams.SetCurrent(context.Background(), user, "team-1"))

	thread, err := svc.Create(context.Background(), user, CreateThreadInput{Title: "general"})
	require.NoError(t, err)
	require.Equal(t, "team-1", thread.TeamID)

	// the creator joins as thread admin
	var participant models.ThreadParticipant
	require.NoError(t, db.First(&participant, "thread_id = ? AND user_id = ?", thread.ID, user.ID).Error)
	require.True(t, participant.IsAdmin())
}

func TestThreadAddParticipant(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	teams, err := NewTeamContextService(db)
	require.NoError(t, err)
	svc, err := NewThreadService(db, teams)
	require.NoError(t, err)

	scene := seedTeamScene(t, db)

	member := seedUser(t, db, "user-member", "Mia", "mia@example.com")
	seedMembership(t, db, scene.team.ID, member.ID, models.TeamRoleMember)

	stranger := seedUser(t, db, "user-stranger", "Sal", "sal@example.com")

	_, err = svc.AddParticipant(context.Background(), scene.owner.ID, "thread-missing", member.ID)
	require.ErrorIs(t, err, ErrThreadNotFound)
	_, err = svc.AddParticipant(context.Background(), scene.owner.ID, scene.thread.ID, stranger.ID)
	require.ErrorIs(t, err, ErrNotAMember)

	participant, err := svc.AddParticipant(context.Background(), scene.owner.ID, scene.thread.ID, member.ID)
	require.NoError(t, err)
	require.Equal(t, models.ParticipantRoleMember, participant.Role)

	// second add trips the (thread, user) uniqueness constraint
	_, err = svc.AddParticipant(context.Background(), scene.owner.ID, scene.thread.ID, member.ID)
	require.ErrorIs(t, err, ErrAlreadyParticipant)

	// a plain participant cannot extend the roster
	_, err = svc.AddParticipant(context.Background(), member.ID, scene.thread.ID, scene.owner.ID)
	require.ErrorIs(t, err, ErrNotAuthorized)

	// outsiders cannot either
	_, err = svc.AddParticipant(context.Background(), stranger.ID, scene.thread.ID, member.ID)
	require.ErrorIs(t, err, ErrNotAParticipant)
}

func TestThreadArchive(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	teams, err := NewTeamContextService(db)
	require.NoError(t, err)
	svc, err := NewThreadService(db, teams)
	require.NoError(t, err)

	scene := seedTeamScene(t, db)

	member := seedUser(t, db, "user-member", "Mia", "mia@example.com")
	seedMembership(t, db, scene.team.ID, member.ID, models.TeamRoleMember)
	seedParticipant(t, db, scene.thread.ID, member.ID, models.ParticipantRoleMember)

	require.ErrorIs(t, svc.Archive(context.Background(), member.ID, scene.thread.ID), ErrNotAuthorized)

	require.NoError(t, svc.Archive(context.Background(), scene.owner.ID, scene.thread.ID))

	var thread models.Thread
	require.NoError(t, db.First(&thread, "id = ?", scene.thread.ID).Error)
	require.True(t, thread.Archived)

	// archiving twice is a no-op
	require.NoError(t, svc.Archive(context.Background(), scene.owner.ID, scene.thread.ID))
}
