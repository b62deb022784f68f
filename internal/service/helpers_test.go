package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"messenger/internal/domain"
	"messenger/internal/security"
	"messenger/internal/service"
	"messenger/internal/store/sqlite"
)

type harness struct {
	store    domain.Store
	identity *service.IdentityService
	lists    *service.ListService
	chats    *service.ChatService
	messages *service.MessageService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "messenger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sqlite.Migrate(ctx, db))

	st := sqlite.NewStore(db)
	logger := zaptest.NewLogger(t)
	return &harness{
		store:    st,
		identity: service.NewIdentityService(st, security.NewPasswordHasher(bcrypt.MinCost), logger),
		lists:    service.NewListService(st, logger),
		chats:    service.NewChatService(st, logger),
		messages: service.NewMessageService(st, logger),
	}
}

func (h *harness) register(t *testing.T, logins ...string) {
	t.Helper()
	for _, login := range logins {
		_, err := h.identity.CreateUser(context.Background(), service.RegisterInput{
			Login:    login,
			Password: login + "-pw",
		})
		require.NoError(t, err)
	}
}
