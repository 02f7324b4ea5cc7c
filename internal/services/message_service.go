package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/huddlehq/huddle/internal/models"
	apperrors "github.com/huddlehq/huddle/pkg/errors"
	"github.com/huddlehq/huddle/pkg/metrics"
)

const (
	maxMessageLength = 4000

	defaultPageSize = 20
	maxPageSize     = 100
)

var (
	// ErrNotAParticipant gates thread access: no participant row, no read or write.
	ErrNotAParticipant = apperrors.New("NOT_A_PARTICIPANT", "You are not a participant of this thread", http.StatusForbidden)
	// ErrMessageNotFound indicates the requested message does not exist.
	ErrMessageNotFound = apperrors.New("MESSAGE_NOT_FOUND", "Message not found", http.StatusNotFound)
	// ErrNotAuthor rejects edits by anyone but the message author.
	ErrNotAuthor = apperrors.New("NOT_AUTHOR", "Only the author can edit this message", http.StatusForbidden)
	// ErrNotAuthorized rejects deletes by callers who are neither author nor thread admin.
	ErrNotAuthorized = apperrors.New("NOT_AUTHORIZED", "You are not allowed to perform this action", http.StatusForbidden)
	// ErrNotEditable rejects edits to system and AI messages.
	ErrNotEditable = apperrors.New("NOT_EDITABLE", "This message cannot be edited", http.StatusConflict)
	// ErrInvalidReplyTarget rejects replies to messages outside the thread or
	// to messages that are themselves replies.
	ErrInvalidReplyTarget = apperrors.New("INVALID_REPLY_TARGET", "Cannot reply to this message", http.StatusConflict)
)

// PageOpts selects a slice of a thread's top-level messages.
type PageOpts struct {
	Cursor   string
	PageSize int
}

// MessageView is a message enriched with its author's display label.
type MessageView struct {
	ID         string             `json:"id"`
	ThreadID   string             `json:"thread_id"`
	AuthorID   *string            `json:"author_id"`
	AuthorName string             `json:"author_name"`
	Kind       models.MessageKind `json:"kind"`
	Content    string             `json:"content"`
	ReplyToID  *string            `json:"reply_to_id,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	EditedAt   *time.Time         `json:"edited_at,omitempty"`
}

// TopLevelMessage pairs a top-level message with all of its direct replies,
// oldest first. The two-level shape is fixed here so readers never recurse.
type TopLevelMessage struct {
	MessageView
	Replies []MessageView `json:"replies"`
}

// MessagePage is one resumable slice of a thread's history, newest first.
type MessagePage struct {
	Messages       []TopLevelMessage `json:"messages"`
	IsDone         bool              `json:"is_done"`
	ContinueCursor string            `json:"continue_cursor,omitempty"`
}

// MessageService stores threaded messages and serves their paginated history.
// Every operation re-checks thread participation before touching message state.
type MessageService struct {
	db      *gorm.DB
	timeNow func() time.Time
}

// NewMessageService constructs a MessageService instance.
func NewMessageService(db *gorm.DB) (*MessageService, error) {
	if db == nil {
		return nil, errors.New("message service: db is required")
	}
	return &MessageService{
		db:      db,
		timeNow: time.Now,
	}, nil
}

// Send posts a text message (optionally a reply to a top-level message) into
// the thread and bumps the thread's last-message timestamp, atomically.
func (s *MessageService) Send(ctx context.Context, userID, threadID, content string, replyToID *string) (*models.ThreadMessage, error) {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	content, err := normaliseContent(content)
	if err != nil {
		return nil, err
	}

	var message *models.ThreadMessage
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var thread models.Thread
		if err := tx.First(&thread, "id = ?", strings.TrimSpace(threadID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrThreadNotFound
			}
			return fmt.Errorf("message service: load thread: %w", err)
		}

		if _, err := requireParticipant(tx, userID, thread.ID); err != nil {
			return err
		}

		if thread.Archived {
			return ErrThreadArchived
		}

		if replyToID != nil {
			var target models.ThreadMessage
			err := tx.First(&target, "id = ? AND thread_id = ?", strings.TrimSpace(*replyToID), thread.ID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidReplyTarget
			}
			if err != nil {
				return fmt.Errorf("message service: load reply target: %w", err)
			}
			// Replies stay one level deep.
			if target.ReplyToID != nil {
				return ErrInvalidReplyTarget
			}
		}

		now := s.timeNow()
		message = &models.ThreadMessage{
			ThreadID:  thread.ID,
			AuthorID:  &userID,
			Kind:      models.MessageKindText,
			Content:   content,
			ReplyToID: replyToID,
		}
		message.CreatedAt = now
		if err := tx.Create(message).Error; err != nil {
			return fmt.Errorf("message service: create message: %w", err)
		}

		if err := tx.Model(&thread).Update("last_message_at", now).Error; err != nil {
			return fmt.Errorf("message service: bump thread: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MessagesPosted.WithLabelValues(string(models.MessageKindText)).Inc()
	return message, nil
}

// SendSystem posts a system or AI message with no author. Trusted internal
// callers only; no participant check, and archived threads still accept
// system events.
func (s *MessageService) SendSystem(ctx context.Context, threadID, content string, kind models.MessageKind) (*models.ThreadMessage, error) {
	ctx = ensureContext(ctx)

	if kind != models.MessageKindSystem && kind != models.MessageKindAI {
		return nil, apperrors.NewBadRequest("system messages must be of kind system or ai")
	}

	content, err := normaliseContent(content)
	if err != nil {
		return nil, err
	}

	var message *models.ThreadMessage
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var thread models.Thread
		if err := tx.First(&thread, "id = ?", strings.TrimSpace(threadID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrThreadNotFound
			}
			return fmt.Errorf("message service: load thread: %w", err)
		}

		now := s.timeNow()
		message = &models.ThreadMessage{
			ThreadID: thread.ID,
			Kind:     kind,
			Content:  content,
		}
		message.CreatedAt = now
		if err := tx.Create(message).Error; err != nil {
			return fmt.Errorf("message service: create system message: %w", err)
		}

		if err := tx.Model(&thread).Update("last_message_at", now).Error; err != nil {
			return fmt.Errorf("message service: bump thread: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MessagesPosted.WithLabelValues(string(kind)).Inc()
	return message, nil
}

// Edit replaces the content of a text message. Author only; edits bump the
// edit timestamp but do not change any other state.
func (s *MessageService) Edit(ctx context.Context, userID, messageID, content string) error {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return apperrors.ErrUnauthenticated
	}

	content, err := normaliseContent(content)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var message models.ThreadMessage
		if err := tx.First(&message, "id = ?", strings.TrimSpace(messageID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMessageNotFound
			}
			return fmt.Errorf("message service: load message: %w", err)
		}

		// System and AI messages are never editable, no matter who asks.
		if !message.Editable() {
			return ErrNotEditable
		}

		if message.AuthorID == nil || *message.AuthorID != userID {
			return ErrNotAuthor
		}

		now := s.timeNow()
		updates := map[string]any{
			"content":   content,
			"edited_at": now,
		}
		if err := tx.Model(&message).Updates(updates).Error; err != nil {
			return fmt.Errorf("message service: update message: %w", err)
		}

		return nil
	})
}

// Delete hard-removes a message and all of its direct replies in one
// transaction, so no reply is ever visible without its parent. Allowed for
// the author and for thread admins.
func (s *MessageService) Delete(ctx context.Context, userID, messageID string) error {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return apperrors.ErrUnauthenticated
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var message models.ThreadMessage
		if err := tx.First(&message, "id = ?", strings.TrimSpace(messageID)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMessageNotFound
			}
			return fmt.Errorf("message service: load message: %w", err)
		}

		authorized := message.AuthorID != nil && *message.AuthorID == userID
		if !authorized {
			var caller models.ThreadParticipant
			err := tx.First(&caller, "thread_id = ? AND user_id = ?", message.ThreadID, userID).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("message service: load caller: %w", err)
			}
			if !caller.IsAdmin() {
				return ErrNotAuthorized
			}
		}

		// Replies first, then the parent — one transaction, no orphans.
		if err := tx.Where("reply_to_id = ?", message.ID).
			Delete(&models.ThreadMessage{}).Error; err != nil {
			return fmt.Errorf("message service: delete replies: %w", err)
		}
		if err := tx.Delete(&message).Error; err != nil {
			return fmt.Errorf("message service: delete message: %w", err)
		}

		return nil
	})
}

// ListTopLevel returns one page of the thread's top-level messages, newest
// first, each carrying all of its replies oldest first. The cursor resumes
// where the previous page stopped; descending order keeps already-issued
// pages stable while newer messages arrive.
func (s *MessageService) ListTopLevel(ctx context.Context, userID, threadID string, opts PageOpts) (*MessagePage, error) {
	ctx = ensureContext(ctx)

	db := s.db.WithContext(ctx)

	if _, err := requireParticipant(db, strings.TrimSpace(userID), strings.TrimSpace(threadID)); err != nil {
		return nil, err
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	cursor, err := decodeCursor(opts.Cursor)
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid pagination cursor")
	}

	query := db.Model(&models.ThreadMessage{}).
		Where("thread_id = ? AND reply_to_id IS NULL", threadID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(pageSize + 1)

	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.createdAt, cursor.createdAt, cursor.id,
		)
	}

	var rows []models.ThreadMessage
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("message service: list top-level: %w", err)
	}

	isDone := len(rows) <= pageSize
	if !isDone {
		rows = rows[:pageSize]
	}

	replies, err := s.loadReplies(db, rows)
	if err != nil {
		return nil, err
	}

	authors, err := s.loadAuthors(db, rows, replies)
	if err != nil {
		return nil, err
	}

	page := &MessagePage{
		Messages: make([]TopLevelMessage, 0, len(rows)),
		IsDone:   isDone,
	}

	for _, row := range rows {
		top := TopLevelMessage{
			MessageView: toMessageView(row, authors),
			Replies:     make([]MessageView, 0, len(replies[row.ID])),
		}
		for _, reply := range replies[row.ID] {
			top.Replies = append(top.Replies, toMessageView(reply, authors))
		}
		page.Messages = append(page.Messages, top)
	}

	if !isDone && len(rows) > 0 {
		last := rows[len(rows)-1]
		page.ContinueCursor = encodeCursor(last.CreatedAt, last.ID)
	}

	return page, nil
}

// loadReplies eagerly fetches every direct reply for the page's top-level
// messages, grouped by parent and ordered oldest first. Replies are never
// paginated separately.
func (s *MessageService) loadReplies(db *gorm.DB, parents []models.ThreadMessage) (map[string][]models.ThreadMessage, error) {
	if len(parents) == 0 {
		return map[string][]models.ThreadMessage{}, nil
	}

	parentIDs := make([]string, 0, len(parents))
	for _, parent := range parents {
		parentIDs = append(parentIDs, parent.ID)
	}

	var rows []models.ThreadMessage
	if err := db.
		Where("reply_to_id IN ?", parentIDs).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("message service: load replies: %w", err)
	}

	grouped := make(map[string][]models.ThreadMessage, len(parents))
	for _, row := range rows {
		grouped[*row.ReplyToID] = append(grouped[*row.ReplyToID], row)
	}
	return grouped, nil
}

// loadAuthors resolves the users behind every authored message on the page.
// A lookup miss (deleted account) is not an error; the view falls back to
// Anonymous.
func (s *MessageService) loadAuthors(db *gorm.DB, parents []models.ThreadMessage, replies map[string][]models.ThreadMessage) (map[string]*models.User, error) {
	idSet := make(map[string]struct{})
	collect := func(msg models.ThreadMessage) {
		if msg.AuthorID != nil {
			idSet[*msg.AuthorID] = struct{}{}
		}
	}
	for _, parent := range parents {
		collect(parent)
	}
	for _, group := range replies {
		for _, reply := range group {
			collect(reply)
		}
	}

	authors := make(map[string]*models.User, len(idSet))
	if len(idSet) == 0 {
		return authors, nil
	}

	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	var users []models.User
	if err := db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("message service: load authors: %w", err)
	}
	for i := range users {
		authors[users[i].ID] = &users[i]
	}
	return authors, nil
}

func toMessageView(msg models.ThreadMessage, authors map[string]*models.User) MessageView {
	var author *models.User
	if msg.AuthorID != nil {
		author = authors[*msg.AuthorID]
	}

	return MessageView{
		ID:         msg.ID,
		ThreadID:   msg.ThreadID,
		AuthorID:   msg.AuthorID,
		AuthorName: displayNameFor(msg.Kind, author),
		Kind:       msg.Kind,
		Content:    msg.Content,
		ReplyToID:  msg.ReplyToID,
		CreatedAt:  msg.CreatedAt,
		EditedAt:   msg.EditedAt,
	}
}

// requireParticipant confirms the user participates in the thread. Pure
// lookup, shared by reads and writes.
func requireParticipant(db *gorm.DB, userID, threadID string) (*models.ThreadParticipant, error) {
	if userID == "" || threadID == "" {
		return nil, ErrNotAParticipant
	}

	var participant models.ThreadParticipant
	err := db.First(&participant, "thread_id = ? AND user_id = ?", threadID, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotAParticipant
	}
	if err != nil {
		return nil, fmt.Errorf("message service: load participant: %w", err)
	}
	return &participant, nil
}

func normaliseContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperrors.NewBadRequest("message content is required")
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return "", apperrors.NewBadRequest("message content exceeds maximum length")
	}
	return content, nil
}
