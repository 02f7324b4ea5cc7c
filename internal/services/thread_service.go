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
)

var (
	// ErrThreadNotFound indicates the requested thread does not exist.
	ErrThreadNotFound = apperrors.New("THREAD_NOT_FOUND", "Thread not found", http.StatusNotFound)
	// ErrThreadArchived rejects writes to an archived thread.
	ErrThreadArchived = apperrors.New("THREAD_ARCHIVED", "Thread is archived", http.StatusConflict)
	// ErrAlreadyParticipant signals the user already participates in the thread.
	ErrAlreadyParticipant = apperrors.New("ALREADY_PARTICIPANT", "User already participates in this thread", http.StatusConflict)
)

// CreateThreadInput carries new thread metadata.
type CreateThreadInput struct {
	Title string
}

// ThreadService manages thread lifecycle and participant rosters. Threads are
// scoped to the creator's current team; the creator becomes a thread admin.
type ThreadService struct {
	db    *gorm.DB
	teams *TeamContextService
}

// NewThreadService constructs a ThreadService instance.
func NewThreadService(db *gorm.DB, teams *TeamContextService) (*ThreadService, error) {
	if db == nil {
		return nil, errors.New("thread service: db is required")
	}
	if teams == nil {
		return nil, errors.New("thread service: team context service is required")
	}
	return &ThreadService{db: db, teams: teams}, nil
}

// Create opens a thread in the caller's current team.
func (s *ThreadService) Create(ctx context.Context, user *models.User, input CreateThreadInput) (*models.Thread, error) {
	ctx = ensureContext(ctx)

	membership, err := s.teams.RequireCurrent(ctx, user)
	if err != nil {
		return nil, err
	}

	thread := &models.Thread{
		TeamID: membership.TeamID,
		Title:  strings.TrimSpace(input.Title),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(thread).Error; err != nil {
			return fmt.Errorf("thread service: create thread: %w", err)
		}

		participant := &models.ThreadParticipant{
			ThreadID: thread.ID,
			UserID:   user.ID,
			Role:     models.ParticipantRoleAdmin,
		}
		if err := tx.Create(participant).Error; err != nil {
			return fmt.Errorf("thread service: add creator: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return thread, nil
}

// AddParticipant adds a team member to the thread roster. Only thread admins
// may extend the roster, and the target must belong to the thread's team.
func (s *ThreadService) AddParticipant(ctx context.Context, userID, threadID, targetUserID string) (*models.ThreadParticipant, error) {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	threadID = strings.TrimSpace(threadID)
	targetUserID = strings.TrimSpace(targetUserID)
	if threadID == "" || targetUserID == "" {
		return nil, apperrors.NewBadRequest("thread id and user id are required")
	}

	var participant *models.ThreadParticipant
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var thread models.Thread
		if err := tx.First(&thread, "id = ?", threadID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrThreadNotFound
			}
			return fmt.Errorf("thread service: load thread: %w", err)
		}

		var caller models.ThreadParticipant
		if err := tx.First(&caller, "thread_id = ? AND user_id = ?", threadID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotAParticipant
			}
			return fmt.Errorf("thread service: load caller: %w", err)
		}
		if !caller.IsAdmin() {
			return ErrNotAuthorized
		}

		var count int64
		if err := tx.Model(&models.TeamMembership{}).
			Where("team_id = ? AND user_id = ?", thread.TeamID, targetUserID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("thread service: check team membership: %w", err)
		}
		if count == 0 {
			return ErrNotAMember
		}

		participant = &models.ThreadParticipant{
			ThreadID: threadID,
			UserID:   targetUserID,
			Role:     models.ParticipantRoleMember,
		}
		if err := tx.Create(participant).Error; err != nil {
			if isUniqueConstraintError(err) {
				return ErrAlreadyParticipant
			}
			return fmt.Errorf("thread service: add participant: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return participant, nil
}

// Archive marks the thread archived, freezing message writes. Thread admins only.
func (s *ThreadService) Archive(ctx context.Context, userID, threadID string) error {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return apperrors.ErrUnauthenticated
	}

	threadID = strings.TrimSpace(threadID)
	if threadID == "" {
		return apperrors.NewBadRequest("thread id is required")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var thread models.Thread
		if err := tx.First(&thread, "id = ?", threadID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrThreadNotFound
			}
			return fmt.Errorf("thread service: load thread: %w", err)
		}

		var caller models.ThreadParticipant
		if err := tx.First(&caller, "thread_id = ? AND user_id = ?", threadID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotAParticipant
			}
			return fmt.Errorf("thread service: load caller: %w", err)
		}
		if !caller.IsAdmin() {
			return ErrNotAuthorized
		}

		if thread.Archived {
			return nil
		}

		if err := tx.Model(&thread).Update("archived", true).Error; err != nil {
			return fmt.Errorf("thread service: archive thread: %w", err)
		}

		return nil
	})
}
