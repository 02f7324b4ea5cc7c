package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/huddlehq/huddle/internal/middleware"
	"github.com/huddlehq/huddle/internal/services"
	apperrors "github.com/huddlehq/huddle/pkg/errors"
	"github.com/huddlehq/huddle/pkg/response"
)

// ThreadHandler exposes thread lifecycle and roster endpoints.
type ThreadHandler struct {
	identity *services.IdentityService
	threads  *services.ThreadService
}

// NewThreadHandler constructs a ThreadHandler.
func NewThreadHandler(identity *services.IdentityService, threads *services.ThreadService) *ThreadHandler {
	return &ThreadHandler{identity: identity, threads: threads}
}

type createThreadRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

// Create opens a thread in the caller's current team.
func (h *ThreadHandler) Create(c *gin.Context) {
	user, err := h.identity.Require(requestContext(c), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}

	var payload createThreadRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	thread, err := h.threads.Create(requestContext(c), user, services.CreateThreadInput{Title: payload.Title})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, thread)
}

type addParticipantRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// AddParticipant adds a team member to the thread roster.
func (h *ThreadHandler) AddParticipant(c *gin.Context) {
	user, err := h.identity.Require(requestContext(c), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}

	threadID := strings.TrimSpace(c.Param("threadID"))
	if threadID == "" {
		response.Error(c, apperrors.NewBadRequest("thread id is required"))
		return
	}

	var payload addParticipantRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	participant, err := h.threads.AddParticipant(requestContext(c), user.ID, threadID, strings.TrimSpace(payload.UserID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, participant)
}

// Archive freezes a thread against further message writes.
func (h *ThreadHandler) Archive(c *gin.Context) {
	user, err := h.identity.Require(requestContext(c), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}

	threadID := strings.TrimSpace(c.Param("threadID"))
	if threadID == "" {
		response.Error(c, apperrors.NewBadRequest("thread id is required"))
		return
	}

	if err := h.threads.Archive(requestContext(c), user.ID, threadID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"archived": true})
}
