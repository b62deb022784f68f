package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messenger/internal/domain"
	"messenger/internal/pagination"
)

func TestAppendTextBounds(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "alice", "bob")
	chat, err := h.chats.CreateChat(ctx, "alice", []string{"bob"})
	require.NoError(t, err)

	t.Run("MaxLength", func(t *testing.T) {
		text := strings.Repeat("ж", domain.MaxMessageLength)
		msg, err := h.messages.Append(ctx, chat.ID, "alice", text)
		require.NoError(t, err)
		assert.NotZero(t, msg.ID)

		msgs, err := h.messages.ListOrdered(ctx, chat.ID)
		require.NoError(t, err)
		require.NotEmpty(t, msgs)
		assert.Equal(t, text, msgs[len(msgs)-1].Text)
	})

	t.Run("TooLong", func(t *testing.T) {
		_, err := h.messages.Append(ctx, chat.ID, "alice", strings.Repeat("a", domain.MaxMessageLength+1))
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Blank", func(t *testing.T) {
		for _, text := range []string{"", "   ", "\n\t"} {
			_, err := h.messages.Append(ctx, chat.ID, "alice", text)
			assert.ErrorIs(t, err, domain.ErrValidation, "%q", text)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		text := "  quotes ' \" ; DROP TABLE messages; -- 🙂  "
		_, err := h.messages.Append(ctx, chat.ID, "bob", text)
		require.NoError(t, err)

		msgs, err := h.messages.ListOrdered(ctx, chat.ID)
		require.NoError(t, err)
		last := msgs[len(msgs)-1]
		assert.Equal(t, text, last.Text)
		assert.Equal(t, "bob", last.SenderLogin)
		assert.Equal(t, chat.ID, last.ChatID)
	})
}

func TestAppendRequiresMembership(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "alice", "bob", "mallory")
	chat, err := h.chats.CreateChat(ctx, "alice", []string{"bob"})
	require.NoError(t, err)

	_, err = h.messages.Append(ctx, chat.ID, "mallory", "let me in")
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	_, err = h.messages.History(ctx, "mallory", chat.ID)
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	msgs, err := h.messages.ListOrdered(ctx, chat.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestPrivateChatScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "alice", "bob")

	chat, err := h.chats.CreateChat(ctx, "alice", []string{"bob"})
	require.NoError(t, err)
	assert.Equal(t, domain.ChatPrivate, chat.Type)

	hi, err := h.messages.Append(ctx, chat.ID, "alice", "hi")
	require.NoError(t, err)
	_, err = h.messages.Append(ctx, chat.ID, "bob", "hey")
	require.NoError(t, err)

	_, err = h.messages.Edit(ctx, "bob", chat.ID, hi.ID, "x")
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	edited, err := h.messages.Edit(ctx, "alice", chat.ID, hi.ID, "hello")
	require.NoError(t, err)
	require.NotNil(t, edited.EditedAt)

	msgs, err := h.messages.History(ctx, "bob", chat.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Text)
	assert.Equal(t, "alice", msgs[0].SenderLogin)
	assert.NotNil(t, msgs[0].EditedAt)
	assert.Equal(t, "hey", msgs[1].Text)
	assert.Nil(t, msgs[1].EditedAt)
}

func TestGroupChatScenario(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "alice", "bob", "carol")

	chat, err := h.chats.CreateChat(ctx, "alice", []string{"bob", "carol"})
	require.NoError(t, err)
	assert.Equal(t, domain.ChatGroup, chat.Type)

	err = h.chats.RemoveMember(ctx, "carol", chat.ID, "bob")
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	require.NoError(t, h.chats.RemoveMember(ctx, "alice", chat.ID, "bob"))
	_, err = h.messages.Append(ctx, chat.ID, "bob", "am I still here?")
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	_, err = h.messages.Append(ctx, chat.ID, "carol", "bye bob")
	require.NoError(t, err)
}

func TestEditAndDeleteMessage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "alice", "bob")
	chat, err := h.chats.CreateChat(ctx, "alice", []string{"bob"})
	require.NoError(t, err)
	other, err := h.chats.CreateChat(ctx, "bob", []string{"alice"})
	require.NoError(t, err)

	msg, err := h.messages.Append(ctx, chat.ID, "bob", "typo")
	require.NoError(t, err)

	t.Run("MissingMessage", func(t *testing.T) {
		_, err := h.messages.Edit(ctx, "bob", chat.ID, msg.ID+100, "fixed")
		assert.ErrorIs(t, err, domain.ErrMessageNotFound)
		assert.ErrorIs(t, h.messages.Delete(ctx, "bob", chat.ID, msg.ID+100), domain.ErrMessageNotFound)
	})

	t.Run("WrongChat", func(t *testing.T) {
		_, err := h.messages.Edit(ctx, "bob", other.ID, msg.ID, "fixed")
		assert.ErrorIs(t, err, domain.ErrMessageNotFound)
	})

	t.Run("BadText", func(t *testing.T) {
		_, err := h.messages.Edit(ctx, "bob", chat.ID, msg.ID, " ")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("DeleteByOther", func(t *testing.T) {
		assert.ErrorIs(t, h.messages.Delete(ctx, "alice", chat.ID, msg.ID), domain.ErrAuthorization)
	})

	t.Run("DeleteBySender", func(t *testing.T) {
		require.NoError(t, h.messages.Delete(ctx, "bob", chat.ID, msg.ID))
		msgs, err := h.messages.ListOrdered(ctx, chat.ID)
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})
}

func TestHistoryPaging(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.register(t, "alice", "bob")
	chat, err := h.chats.CreateChat(ctx, "alice", []string{"bob"})
	require.NoError(t, err)

	for i := range 25 {
		_, err := h.messages.Append(ctx, chat.ID, "alice", fmt.Sprintf("message %02d", i+1))
		require.NoError(t, err)
	}

	msgs, err := h.messages.History(ctx, "bob", chat.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 25)
	for i := 1; i < len(msgs); i++ {
		assert.Less(t, msgs[i-1].ID, msgs[i].ID)
	}

	page, next, more, err := pagination.Page(msgs, 0, 10)
	require.NoError(t, err)
	assert.Len(t, page, 10)
	assert.Equal(t, "message 01", page[0].Text)
	assert.True(t, more)

	token := pagination.Encode(next, msgs)
	offset, err := pagination.Decode(token, msgs)
	require.NoError(t, err)
	assert.Equal(t, 10, offset)

	page, _, more, err = pagination.Page(msgs, 20, 10)
	require.NoError(t, err)
	assert.Len(t, page, 5)
	assert.Equal(t, "message 25", page[4].Text)
	assert.False(t, more)

	_, err = h.messages.Append(ctx, chat.ID, "bob", "late")
	require.NoError(t, err)
	grown, err := h.messages.History(ctx, "bob", chat.ID)
	require.NoError(t, err)
	_, err = pagination.Decode(token, grown)
	assert.ErrorIs(t, err, domain.ErrStaleCursor)
}
