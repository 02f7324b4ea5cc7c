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

// MessageHandler exposes endpoints for posting, editing, deleting, and
// listing thread messages.
type MessageHandler struct {
	identity *services.IdentityService
	messages *services.MessageService
}

// NewMessageHandler constructs a MessageHandler.
func NewMessageHandler(identity *services.IdentityService, messages *services.MessageService) *MessageHandler {
	return &MessageHandler{identity: identity, messages: messages}
}

type sendMessageRequest struct {
	Content   string  `json:"content" validate:"required,max=4000"`
	ReplyToID *string `json:"reply_to_id" validate:"omitempty,uuid4"`
}

type messageDTO struct {
	ID        string             `json:"id"`
	ThreadID  string             `json:"thread_id"`
	AuthorID  *string            `json:"author_id"`
	Kind      models.MessageKind `json:"kind"`
	Content   string             `json:"content"`
	ReplyToID *string            `json:"reply_to_id,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

func toMessageDTO(msg *models.ThreadMessage) messageDTO {
	return messageDTO{
		ID:        msg.ID,
		ThreadID:  msg.ThreadID,
		AuthorID:  msg.AuthorID,
		Kind:      msg.Kind,
		Content:   msg.Content,
		ReplyToID: msg.ReplyToID,
		CreatedAt: msg.CreatedAt,
	}
}

// Send posts a message (optionally a reply) into the thread.
func (h *MessageHandler) Send(c *gin.Context) {
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

	var payload sendMessageRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	message, err := h.messages.Send(requestContext(c), user.ID, threadID, payload.Content, payload.ReplyToID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, toMessageDTO(message))
}

type editMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

// Edit replaces the content of a message the caller authored.
func (h *MessageHandler) Edit(c *gin.Context) {
	user, err := h.identity.Require(requestContext(c), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}

	messageID := strings.TrimSpace(c.Param("id"))
	if messageID == "" {
		response.Error(c, apperrors.NewBadRequest("message id is required"))
		return
	}

	var payload editMessageRequest
	if !bindAndValidate(c, &payload) {
		return
	}

	if err := h.messages.Edit(requestContext(c), user.ID, messageID, payload.Content); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

// Delete removes a message and its replies.
func (h *MessageHandler) Delete(c *gin.Context) {
	user, err := h.identity.Require(requestContext(c), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, err)
		return
	}

	messageID := strings.TrimSpace(c.Param("id"))
	if messageID == "" {
		response.Error(c, apperrors.NewBadRequest("message id is required"))
		return
	}

	if err := h.messages.Delete(requestContext(c), user.ID, messageID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// List returns one cursor page of the thread's history, enriched with author
// display names and replies.
func (h *MessageHandler) List(c *gin.Context) {
	user, err := h.identity.Resolve(requestContext(c), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		response.Error(c, apperrors.Wrap(err, "failed to resolve caller"))
		return
	}
	if user == nil {
		response.Error(c, apperrors.ErrUnauthenticated)
		return
	}

	threadID := strings.TrimSpace(c.Param("threadID"))
	if threadID == "" {
		response.Error(c, apperrors.NewBadRequest("thread id is required"))
		return
	}

	opts := services.PageOpts{
		Cursor:   strings.TrimSpace(c.Query("cursor")),
		PageSize: parseIntQuery(c, "page_size", 0),
	}

	page, err := h.messages.ListTopLevel(requestContext(c), user.ID, threadID, opts)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, page.Messages, &response.Meta{
		PageSize:       opts.PageSize,
		IsDone:         page.IsDone,
		ContinueCursor: page.ContinueCursor,
	})
}
