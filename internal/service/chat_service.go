package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"messenger/internal/domain"
)

// ChatService creates chats and manages their membership. Only a chat's
// owner may change its membership or delete it.
type ChatService struct {
	store  domain.Store
	logger *zap.Logger
}

func NewChatService(store domain.Store, logger *zap.Logger) *ChatService {
	return &ChatService{store: store, logger: logger}
}

// CreateChat creates a chat owned by owner with the given members. The owner
// is always a member and is dropped from members before the type is decided:
// one other member makes a private chat, more make a group chat.
func (s *ChatService) CreateChat(ctx context.Context, owner string, members []string) (*domain.ChatSummary, error) {
	for _, login := range members {
		if err := requireLogin(login); err != nil {
			return nil, err
		}
	}
	others := lo.Uniq(lo.Without(members, owner))
	if len(others) == 0 {
		return nil, fmt.Errorf("%w: a chat needs at least one member besides its owner", domain.ErrValidation)
	}

	chat := &domain.Chat{Type: domain.ChatPrivate, InitSender: owner}
	if len(others) > 1 {
		chat.Type = domain.ChatGroup
	}
	all := append([]string{owner}, others...)

	err := s.store.InTx(ctx, func(tx domain.Repositories) error {
		for _, login := range all {
			if err := requireUser(ctx, tx, login); err != nil {
				return err
			}
		}
		return tx.Chats().Create(ctx, chat, all)
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(all)
	s.logger.Info("chat created",
		zap.Int64("chat_id", chat.ID),
		zap.String("type", string(chat.Type)),
		zap.String("owner", owner),
		zap.Int("members", len(all)),
	)
	return &domain.ChatSummary{Chat: *chat, Members: all}, nil
}

// lockOwned locks the chat and checks that actor owns it.
func lockOwned(ctx context.Context, tx domain.Repositories, chatID int64, actor string, exclusive bool) (*domain.Chat, error) {
	chat, err := tx.Chats().Lock(ctx, chatID, exclusive)
	if err != nil {
		return nil, err
	}
	if chat.InitSender != actor {
		return nil, fmt.Errorf("%w: only the owner of chat %d may do that", domain.ErrAuthorization, chatID)
	}
	return chat, nil
}

func (s *ChatService) AddMember(ctx context.Context, actor string, chatID int64, target string) error {
	if err := requireLogin(target); err != nil {
		return err
	}
	err := s.store.InTx(ctx, func(tx domain.Repositories) error {
		if _, err := lockOwned(ctx, tx, chatID, actor, false); err != nil {
			return err
		}
		if err := requireUser(ctx, tx, target); err != nil {
			return err
		}
		return tx.Chats().AddMember(ctx, chatID, target)
	})
	if err != nil {
		return err
	}
	s.logger.Info("chat member added", zap.Int64("chat_id", chatID), zap.String("member", target))
	return nil
}

// RemoveMember removes target from the chat. The owner cannot be removed;
// the chat has to be deleted instead.
func (s *ChatService) RemoveMember(ctx context.Context, actor string, chatID int64, target string) error {
	if err := requireLogin(target); err != nil {
		return err
	}
	err := s.store.InTx(ctx, func(tx domain.Repositories) error {
		chat, err := lockOwned(ctx, tx, chatID, actor, false)
		if err != nil {
			return err
		}
		if target == chat.InitSender {
			return fmt.Errorf("%w: the owner cannot leave chat %d, delete it instead", domain.ErrValidation, chatID)
		}
		return tx.Chats().RemoveMember(ctx, chatID, target)
	})
	if err != nil {
		return err
	}
	s.logger.Info("chat member removed", zap.Int64("chat_id", chatID), zap.String("member", target))
	return nil
}

// DeleteChat removes the chat with all of its messages and memberships.
func (s *ChatService) DeleteChat(ctx context.Context, actor string, chatID int64) error {
	err := s.store.InTx(ctx, func(tx domain.Repositories) error {
		if _, err := lockOwned(ctx, tx, chatID, actor, true); err != nil {
			return err
		}
		return tx.Chats().Delete(ctx, chatID)
	})
	if err != nil {
		return err
	}
	s.logger.Info("chat deleted", zap.Int64("chat_id", chatID), zap.String("owner", actor))
	return nil
}

// ListChatsFor returns every chat login belongs to, with member logins.
func (s *ChatService) ListChatsFor(ctx context.Context, login string) ([]*domain.ChatSummary, error) {
	return s.store.Chats().ListForUser(ctx, login)
}

// IsOwner reports whether login owns the chat. A missing chat is not owned.
func (s *ChatService) IsOwner(ctx context.Context, login string, chatID int64) (bool, error) {
	chat, err := s.store.Chats().GetByID(ctx, chatID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return chat.InitSender == login, nil
}

func (s *ChatService) IsMember(ctx context.Context, login string, chatID int64) (bool, error) {
	return s.store.Chats().IsMember(ctx, chatID, login)
}

// Get returns the chat and its members to one of its members.
func (s *ChatService) Get(ctx context.Context, viewer string, chatID int64) (*domain.ChatSummary, error) {
	var out *domain.ChatSummary
	err := s.store.InTx(ctx, func(tx domain.Repositories) error {
		chat, err := tx.Chats().GetByID(ctx, chatID)
		if err != nil {
			return err
		}
		members, err := tx.Chats().Members(ctx, chatID)
		if err != nil {
			return err
		}
		if !lo.Contains(members, viewer) {
			return fmt.Errorf("%w: %s is not a member of chat %d", domain.ErrAuthorization, viewer, chatID)
		}
		out = &domain.ChatSummary{Chat: *chat, Members: members}
		return nil
	})
	return out, err
}
