package services

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// pageCursor marks the resume position of a descending top-level listing.
// The creation timestamp carries the ordering and the message id breaks ties,
// so pages stay disjoint even when neighbouring rows share a timestamp.
type pageCursor struct {
	createdAt time.Time
	id        string
}

func encodeCursor(createdAt time.Time, id string) string {
	raw := strconv.FormatInt(createdAt.UnixNano(), 10) + ":" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(token string) (*pageCursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("cursor: decode token: %w", err)
	}

	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, fmt.Errorf("cursor: malformed token")
	}

	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cursor: malformed timestamp: %w", err)
	}

	return &pageCursor{
		createdAt: time.Unix(0, nanos),
		id:        parts[1],
	}, nil
}
