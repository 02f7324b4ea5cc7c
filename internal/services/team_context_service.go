package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/huddlehq/huddle/internal/models"
	apperrors "github.com/huddlehq/huddle/pkg/errors"
	"github.com/huddlehq/huddle/pkg/metrics"
)

var (
	// ErrTeamNotFound indicates the requested team does not exist.
	ErrTeamNotFound = apperrors.New("TEAM_NOT_FOUND", "Team not found", http.StatusNotFound)
	// ErrNotAMember signals the caller holds no membership in the team.
	ErrNotAMember = apperrors.New("NOT_A_MEMBER", "You are not a member of this team", http.StatusForbidden)
	// ErrNoTeamSelected is returned by team-scoped operations when the caller
	// has no (valid) current team.
	ErrNoTeamSelected = apperrors.New("NO_TEAM_SELECTED", "No team selected", http.StatusForbidden)
	// ErrInsufficientRole indicates the caller's team role ranks below the requirement.
	ErrInsufficientRole = apperrors.New("INSUFFICIENT_ROLE", "Your team role does not permit this action", http.StatusForbidden)
)

// TeamContextService resolves the caller's currently selected team and gates
// team-scoped mutations by role.
//
// User.CurrentTeamID is only a pointer into the membership table, so every
// resolve re-validates it. A stale pointer (membership revoked after
// selection) is healed on mutation paths and merely ignored on query paths —
// queries never write.
type TeamContextService struct {
	db *gorm.DB
}

// NewTeamContextService constructs a TeamContextService instance.
func NewTeamContextService(db *gorm.DB) (*TeamContextService, error) {
	if db == nil {
		return nil, errors.New("team context service: db is required")
	}
	return &TeamContextService{db: db}, nil
}

// Current resolves the caller's selected team membership without side
// effects. A missing selection or a stale pointer resolves to nil.
func (s *TeamContextService) Current(ctx context.Context, user *models.User) (*models.TeamMembership, error) {
	ctx = ensureContext(ctx)

	if user == nil || user.CurrentTeamID == nil {
		return nil, nil
	}

	return s.lookupMembership(ctx, *user.CurrentTeamID, user.ID)
}

// CurrentForMutation resolves the caller's selected team membership and
// self-heals a stale pointer: when the backing membership no longer exists
// the selection is cleared on the user record before returning nil.
func (s *TeamContextService) CurrentForMutation(ctx context.Context, user *models.User) (*models.TeamMembership, error) {
	ctx = ensureContext(ctx)

	if user == nil || user.CurrentTeamID == nil {
		return nil, nil
	}

	membership, err := s.lookupMembership(ctx, *user.CurrentTeamID, user.ID)
	if err != nil {
		return nil, err
	}
	if membership != nil {
		return membership, nil
	}

	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("current_team_id", nil).Error; err != nil {
		return nil, fmt.Errorf("team context service: clear stale selection: %w", err)
	}
	user.CurrentTeamID = nil

	return nil, nil
}

// RequireCurrent resolves the caller's selected team membership for a
// mutation and fails with ErrNoTeamSelected when there is none.
func (s *TeamContextService) RequireCurrent(ctx context.Context, user *models.User) (*models.TeamMembership, error) {
	membership, err := s.CurrentForMutation(ctx, user)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, ErrNoTeamSelected
	}
	return membership, nil
}

// RequireRole composes RequireCurrent with a role rank check. This is the
// single gate used by every team-scoped mutation.
func (s *TeamContextService) RequireRole(ctx context.Context, user *models.User, required models.TeamRole) (*models.TeamMembership, error) {
	if !required.Valid() {
		return nil, fmt.Errorf("team context service: unknown role %q", required)
	}

	membership, err := s.RequireCurrent(ctx, user)
	if err != nil {
		metrics.RoleChecks.WithLabelValues(string(required), "denied").Inc()
		return nil, err
	}

	if !membership.HasRole(required) {
		metrics.RoleChecks.WithLabelValues(string(required), "denied").Inc()
		return nil, ErrInsufficientRole
	}

	metrics.RoleChecks.WithLabelValues(string(required), "allowed").Inc()
	return membership, nil
}

// SetCurrent selects the team as the caller's current context. The write is
// skipped when the selection is already in place.
func (s *TeamContextService) SetCurrent(ctx context.Context, user *models.User, teamID string) error {
	ctx = ensureContext(ctx)

	if user == nil {
		return apperrors.ErrUnauthenticated
	}

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return apperrors.NewBadRequest("team id is required")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := tx.First(&team, "id = ?", teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeamNotFound
			}
			return fmt.Errorf("team context service: load team: %w", err)
		}

		var count int64
		if err := tx.Model(&models.TeamMembership{}).
			Where("team_id = ? AND user_id = ?", teamID, user.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("team context service: check membership: %w", err)
		}
		if count == 0 {
			return ErrNotAMember
		}

		// Avoid write amplification on repeated selection of the same team.
		if user.CurrentTeamID != nil && *user.CurrentTeamID == teamID {
			return nil
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("current_team_id", teamID).Error; err != nil {
			return fmt.Errorf("team context service: set selection: %w", err)
		}
		user.CurrentTeamID = &team.ID

		return nil
	})
}

// ClearCurrent unconditionally clears the caller's team selection.
func (s *TeamContextService) ClearCurrent(ctx context.Context, user *models.User) error {
	ctx = ensureContext(ctx)

	if user == nil {
		return apperrors.ErrUnauthenticated
	}

	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("current_team_id", nil).Error; err != nil {
		return fmt.Errorf("team context service: clear selection: %w", err)
	}
	user.CurrentTeamID = nil

	return nil
}

func (s *TeamContextService) lookupMembership(ctx context.Context, teamID, userID string) (*models.TeamMembership, error) {
	var membership models.TeamMembership
	err := s.db.WithContext(ctx).
		Preload("Team").
		First(&membership, "team_id = ? AND user_id = ?", teamID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("team context service: load membership: %w", err)
	}
	return &membership, nil
}
