package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTeamRoleRanks(t *testing.T) {
	require.Less(t, TeamRoleMember.Rank(), TeamRoleAdmin.Rank())
	require.Less(t, TeamRoleAdmin.Rank(), TeamRoleOwner.Rank())
	require.Zero(t, TeamRole("superuser").Rank())
	require.False(t, TeamRole("superuser").Valid())
}

func TestMembershipHasRole(t *testing.T) {
	cases := []struct {
		held     TeamRole
		required TeamRole
		want     bool
	}{
		{TeamRoleMember, TeamRoleMember, true},
		{TeamRoleMember, TeamRoleAdmin, false},
		{TeamRoleMember, TeamRoleOwner, false},
		{TeamRoleAdmin, TeamRoleMember, true},
		{TeamRoleAdmin, TeamRoleAdmin, true},
		{TeamRoleAdmin, TeamRoleOwner, false},
		{TeamRoleOwner, TeamRoleMember, true},
		{TeamRoleOwner, TeamRoleAdmin, true},
		{TeamRoleOwner, TeamRoleOwner, true},
	}

	for _, tc := range cases {
		m := &TeamMembership{Role: tc.held}
		require.Equal(t, tc.want, m.HasRole(tc.required), "%s vs %s", tc.held, tc.required)
	}

	var nilMembership *TeamMembership
	require.False(t, nilMembership.HasRole(TeamRoleMember))
}

func TestUserDisplayName(t *testing.T) {
	require.Equal(t, "Ada", (&User{Name: "Ada", Email: "ada@example.com"}).DisplayName())
	require.Equal(t, "ada@example.com", (&User{Email: "ada@example.com", Phone: "555"}).DisplayName())
	require.Equal(t, "555", (&User{Phone: "555"}).DisplayName())
	require.Equal(t, "Anonymous", (&User{Name: "   "}).DisplayName())

	var missing *User
	require.Equal(t, "Anonymous", missing.DisplayName())
}

func TestThreadMessageHelpers(t *testing.T) {
	parentID := "parent"
	top := &ThreadMessage{Kind: MessageKindText}
	reply := &ThreadMessage{Kind: MessageKindText, ReplyToID: &parentID}
	system := &ThreadMessage{Kind: MessageKindSystem}

	require.True(t, top.IsTopLevel())
	require.False(t, reply.IsTopLevel())
	require.True(t, top.Editable())
	require.True(t, reply.Editable())
	require.False(t, system.Editable())
}
