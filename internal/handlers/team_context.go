package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/huddlehq/huddle/internal/middleware"
	"github.com/huddlehq/huddle/internal/models"
	"github.com/huddlehq/huddle/internal/services"
	apperrors "github.com/huddlehq/huddle/pkg/errors"
	"github.com/huddlehq/huddle/pkg/response"
)

// TeamContextHandler exposes the current-team selection endpoints.
type TeamContextHandler struct {
	identity *services.IdentityService
	teams    *services.TeamContextService
}

// NewTeamContextHandler constructs a TeamContextHandler.
func NewTeamContextHandler(identity *services.IdentityService, teams *services.TeamContextService) *TeamContextHandler {
	return &TeamContextHandler{identity: identity, teams: teams}
}

type currentTeamDTO struct {
	TeamID   string          `json:"team_id"`
	TeamName string          `json:"team_name,omitempty"`
	Role     models.TeamRole `json:"role"`
	JoinedAt time.Time       `json:"joined_at"`
}

func toCurrentTeamDTO(m *models.TeamMembership) *currentTeamDTO {
	if m == nil {
		return nil
	}
	dto := &currentTeamDTO{
		TeamID:   m.TeamID,
		Role:     m.Role,
		JoinedAt: m.CreatedAt,
	}
	if m.Team != nil {
		dto.TeamName = m.Team.Name
	}
	return dto
}

// GetCurrent resolves the caller's selected team. This is a read path: a
// stale selection yields null without healing the pointer.
func (h *TeamContextHandler) GetCurrent(c *gin.Context) {
	user, err := h.identity.Resolve(requestContext(c), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, apperrors.Wrap(err, "failed to resolve caller"))
		return
	}
	if user == nil {
		response.Error(c, apperrors.ErrUnauthenticated)
		return
	}

	membership, err := h.teams.Current(requestContext(c), user)
	if err != nil {
		response.Error(c, apperrors.Wrap(err, "failed to resolve current team"))
		return
	}

	response.Success(c, http.StatusOK, toCurrentTeamDTO(membership))
}

type setCurrentTeamRequest struct {
	TeamID string `json:"team_id" validate:"required"`
}

// SetCurrent selects a team as the caller's current context.
func (h *TeamContextHandler) SetCurrent(c *gin.Context) {
	user, err := h.identity.Require(requestContext(c), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}

	var payload setCurrentTeamRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	if err := h.teams.SetCurrent(requestContext(c), user, strings.TrimSpace(payload.TeamID)); err != nil {
		response.Error(c, err)
		return
	}

	membership, err := h.teams.RequireCurrent(requestContext(c), user)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, toCurrentTeamDTO(membership))
}

// ClearCurrent drops the caller's team selection.
func (h *TeamContextHandler) ClearCurrent(c *gin.Context) {
	user, err := h.identity.Require(requestContext(c), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.teams.ClearCurrent(requestContext(c), user); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cleared": true})
}
