package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/huddlehq/huddle/internal/models"
	apperrors "github.com/huddlehq/huddle/pkg/errors"
)

// IdentityService maps the verified caller id supplied by the auth middleware
// to a User record. Reads and writes want different failure behaviour: query
// paths degrade to nil, mutation paths must fail loudly so a write never
// silently no-ops.
type IdentityService struct {
	db *gorm.DB
}

// NewIdentityService constructs an IdentityService instance.
func NewIdentityService(db *gorm.DB) (*IdentityService, error) {
	if db == nil {
		return nil, errors.New("identity service: db is required")
	}
	return &IdentityService{db: db}, nil
}

// Resolve returns the user for the supplied caller id, or nil when the id is
// blank or unknown. Used on query paths; never errors on a miss.
func (s *IdentityService) Resolve(ctx context.Context, userID string) (*models.User, error) {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("identity service: load user: %w", err)
	}

	return &user, nil
}

// Require returns the user for the supplied caller id and fails with
// ErrUnauthenticated when it cannot. Used on mutation paths.
func (s *IdentityService) Require(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrUnauthenticated
	}
	return user, nil
}
