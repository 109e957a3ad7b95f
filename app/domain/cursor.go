package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// cursorTimeLayout is ISO-8601 with millisecond precision, always UTC
	cursorTimeLayout = "2006-01-02T15:04:05.000Z"
	cursorSeparator  = "_"
)

// Cursor is a position in the (created_at, id) ordering of contacts.
// It never refers to a row by identity, so it survives the deletion of
// the contact it was derived from.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// CursorFor returns the position of the given contact
func CursorFor(c *Contact) Cursor {
	return Cursor{
		CreatedAt: c.CreatedAt.UTC().Truncate(time.Millisecond),
		ID:        c.ID,
	}
}

// Encode renders the cursor as base64("<createdAt>_<id>")
func (c Cursor) Encode() string {
	raw := c.CreatedAt.UTC().Format(cursorTimeLayout) + cursorSeparator + c.ID.String()
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses an opaque cursor token
func DecodeCursor(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, fmt.Errorf("%w: empty token", ErrInvalidCursor)
	}

	raw, err := decodeBase64(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: not base64: %v", ErrInvalidCursor, err)
	}

	createdAtPart, idPart, found := strings.Cut(string(raw), cursorSeparator)
	if !found {
		return Cursor{}, fmt.Errorf("%w: missing separator", ErrInvalidCursor)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, createdAtPart)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: bad timestamp %q", ErrInvalidCursor, createdAtPart)
	}

	id, err := uuid.Parse(idPart)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: bad id %q", ErrInvalidCursor, idPart)
	}

	return Cursor{CreatedAt: createdAt.UTC(), ID: id}, nil
}

func decodeBase64(token string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err == nil {
		return raw, nil
	}
	if raw, urlErr := base64.URLEncoding.DecodeString(token); urlErr == nil {
		return raw, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(token); rawErr == nil {
		return raw, nil
	}
	return nil, err
}
