// Package pagination windows a chat's ordered message history and issues
// opaque cursors that stop working once the history they describe changes.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"messenger/internal/domain"
)

// DefaultPageSize is used when the caller passes a non-positive page size.
const DefaultPageSize = 10

// Page returns items[cursor:cursor+pageSize] clipped to the slice bounds, the
// cursor for the following page and whether anything remains after it.
func Page[T any](items []T, cursor, pageSize int) ([]T, int, bool, error) {
	if cursor < 0 {
		return nil, 0, false, fmt.Errorf("%w: cursor must not be negative", domain.ErrValidation)
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if cursor >= len(items) {
		return []T{}, len(items), false, nil
	}
	end := len(items)
	if pageSize < len(items)-cursor {
		end = cursor + pageSize
	}
	return items[cursor:end], end, end < len(items), nil
}

// Fingerprint hashes the identity and content of every message in order.
// Appending, editing or deleting any message changes the result.
func Fingerprint(messages []*domain.Message) uint64 {
	d := xxhash.New()
	for _, m := range messages {
		_, _ = d.WriteString(strconv.FormatInt(m.ID, 10))
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(m.SenderLogin)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(m.Text)
		_, _ = d.WriteString("\x00")
		if m.EditedAt != nil {
			_, _ = d.WriteString(strconv.FormatInt(m.EditedAt.UnixNano(), 10))
		}
		_, _ = d.WriteString("\x1e")
	}
	return d.Sum64()
}

// Encode produces a URL-safe token for offset bound to the current messages.
func Encode(offset int, messages []*domain.Message) string {
	raw := fmt.Sprintf("%d.%x", offset, Fingerprint(messages))
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Decode returns the offset carried by token. An empty token is the first
// page. domain.ErrStaleCursor is returned when messages no longer match the
// history the token was issued for.
func Decode(token string, messages []*domain.Message) (int, error) {
	if token == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed cursor", domain.ErrValidation)
	}
	offsetPart, sumPart, ok := strings.Cut(string(raw), ".")
	if !ok {
		return 0, fmt.Errorf("%w: malformed cursor", domain.ErrValidation)
	}
	offset, err := strconv.Atoi(offsetPart)
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("%w: malformed cursor offset", domain.ErrValidation)
	}
	sum, err := strconv.ParseUint(sumPart, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: malformed cursor fingerprint", domain.ErrValidation)
	}
	if sum != Fingerprint(messages) {
		return 0, domain.ErrStaleCursor
	}
	return offset, nil
}
