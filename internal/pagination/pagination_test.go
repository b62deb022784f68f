package pagination_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messenger/internal/domain"
	"messenger/internal/pagination"
)

func makeMessages(n int) []*domain.Message {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]*domain.Message, 0, n)
	for i := range n {
		out = append(out, &domain.Message{
			ID:          int64(i + 1),
			Text:        "message",
			SenderLogin: "alice",
			ChatID:      1,
			SentAt:      base.Add(time.Duration(i) * time.Second),
		})
	}
	return out
}

func TestPageWindows(t *testing.T) {
	msgs := makeMessages(25)

	page, next, more, err := pagination.Page(msgs, 0, 10)
	require.NoError(t, err)
	assert.Len(t, page, 10)
	assert.Equal(t, int64(1), page[0].ID)
	assert.Equal(t, 10, next)
	assert.True(t, more)

	page, next, more, err = pagination.Page(msgs, 10, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(11), page[0].ID)
	assert.Equal(t, 20, next)
	assert.True(t, more)

	page, next, more, err = pagination.Page(msgs, 20, 10)
	require.NoError(t, err)
	assert.Len(t, page, 5)
	assert.Equal(t, int64(25), page[4].ID)
	assert.Equal(t, 25, next)
	assert.False(t, more)
}

func TestPageEdges(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		page, next, more, err := pagination.Page([]*domain.Message{}, 0, 10)
		require.NoError(t, err)
		assert.Empty(t, page)
		assert.Equal(t, 0, next)
		assert.False(t, more)
	})

	t.Run("ExactMultiple", func(t *testing.T) {
		_, next, more, err := pagination.Page(makeMessages(20), 10, 10)
		require.NoError(t, err)
		assert.Equal(t, 20, next)
		assert.False(t, more)
	})

	t.Run("PastEnd", func(t *testing.T) {
		page, _, more, err := pagination.Page(makeMessages(3), 7, 10)
		require.NoError(t, err)
		assert.Empty(t, page)
		assert.False(t, more)
	})

	t.Run("DefaultSize", func(t *testing.T) {
		page, _, _, err := pagination.Page(makeMessages(25), 0, 0)
		require.NoError(t, err)
		assert.Len(t, page, pagination.DefaultPageSize)
	})

	t.Run("HugePageSize", func(t *testing.T) {
		page, next, more, err := pagination.Page(makeMessages(5), 1, math.MaxInt)
		require.NoError(t, err)
		assert.Len(t, page, 4)
		assert.Equal(t, 5, next)
		assert.False(t, more)
	})

	t.Run("NegativeCursor", func(t *testing.T) {
		_, _, _, err := pagination.Page(makeMessages(5), -1, 10)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestCursorToken(t *testing.T) {
	msgs := makeMessages(12)

	t.Run("RoundTrip", func(t *testing.T) {
		token := pagination.Encode(10, msgs)
		offset, err := pagination.Decode(token, msgs)
		require.NoError(t, err)
		assert.Equal(t, 10, offset)
	})

	t.Run("EmptyIsFirstPage", func(t *testing.T) {
		offset, err := pagination.Decode("", msgs)
		require.NoError(t, err)
		assert.Equal(t, 0, offset)
	})

	t.Run("StaleAfterAppend", func(t *testing.T) {
		token := pagination.Encode(10, msgs)
		grown := append(makeMessages(12), &domain.Message{ID: 13, Text: "late", SenderLogin: "bob"})
		_, err := pagination.Decode(token, grown)
		assert.ErrorIs(t, err, domain.ErrStaleCursor)
	})

	t.Run("StaleAfterEdit", func(t *testing.T) {
		token := pagination.Encode(10, msgs)
		edited := makeMessages(12)
		edited[3].Text = "changed"
		_, err := pagination.Decode(token, edited)
		assert.ErrorIs(t, err, domain.ErrStaleCursor)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := pagination.Decode("not a cursor!", msgs)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}
