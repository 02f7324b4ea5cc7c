package services

import (
	"context"

	"github.com/huddlehq/huddle/internal/models"
)

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// displayNameFor resolves the author label for a message. System and AI
// messages use fixed labels; authored messages fall back through the user's
// contact fields, and a missing author (deleted account) reads as Anonymous.
func displayNameFor(kind models.MessageKind, author *models.User) string {
	switch kind {
	case models.MessageKindSystem:
		return "System"
	case models.MessageKindAI:
		return "AI Assistant"
	default:
		return author.DisplayName()
	}
}
