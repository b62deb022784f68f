package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"messenger/internal/domain"
)

// MessageService appends, edits and deletes chat messages.
type MessageService struct {
	store  domain.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewMessageService(store domain.Store, logger *zap.Logger) *MessageService {
	return &MessageService{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Append stores text as a new message from sender, who must be a member of
// the chat. The chat is share-locked so a concurrent delete cannot orphan it.
func (s *MessageService) Append(ctx context.Context, chatID int64, sender, text string) (*domain.Message, error) {
	if err := validateInput(textInput{Text: text}); err != nil {
		return nil, err
	}
	msg := &domain.Message{
		Text:        text,
		SenderLogin: sender,
		ChatID:      chatID,
	}
	err := s.store.InTx(ctx, func(tx domain.Repositories) error {
		if _, err := tx.Chats().Lock(ctx, chatID, false); err != nil {
			return err
		}
		if err := requireMember(ctx, tx, chatID, sender); err != nil {
			return err
		}
		msg.SentAt = s.now()
		return tx.Messages().Create(ctx, msg)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("message appended",
		zap.Int64("chat_id", chatID), zap.Int64("message_id", msg.ID), zap.String("sender", sender))
	return msg, nil
}

// Edit replaces the text of a message. Only its sender may edit it.
func (s *MessageService) Edit(ctx context.Context, actor string, chatID, messageID int64, text string) (*domain.Message, error) {
	if err := validateInput(textInput{Text: text}); err != nil {
		return nil, err
	}
	var msg *domain.Message
	err := s.store.InTx(ctx, func(tx domain.Repositories) error {
		var err error
		if msg, err = authoredMessage(ctx, tx, actor, chatID, messageID); err != nil {
			return err
		}
		edited := s.now()
		msg.Text = text
		msg.EditedAt = &edited
		return tx.Messages().UpdateText(ctx, msg)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("message edited", zap.Int64("chat_id", chatID), zap.Int64("message_id", messageID))
	return msg, nil
}

// Delete removes a message. Only its sender may delete it.
func (s *MessageService) Delete(ctx context.Context, actor string, chatID, messageID int64) error {
	err := s.store.InTx(ctx, func(tx domain.Repositories) error {
		if _, err := authoredMessage(ctx, tx, actor, chatID, messageID); err != nil {
			return err
		}
		return tx.Messages().Delete(ctx, chatID, messageID)
	})
	if err != nil {
		return err
	}
	s.logger.Debug("message deleted", zap.Int64("chat_id", chatID), zap.Int64("message_id", messageID))
	return nil
}

// ListOrdered returns the chat's messages oldest first.
func (s *MessageService) ListOrdered(ctx context.Context, chatID int64) ([]*domain.Message, error) {
	var out []*domain.Message
	err := s.store.InTx(ctx, func(tx domain.Repositories) error {
		if _, err := tx.Chats().GetByID(ctx, chatID); err != nil {
			return err
		}
		var err error
		out, err = tx.Messages().ListOrdered(ctx, chatID)
		return err
	})
	return out, err
}

// History is ListOrdered restricted to members of the chat.
func (s *MessageService) History(ctx context.Context, viewer string, chatID int64) ([]*domain.Message, error) {
	var out []*domain.Message
	err := s.store.InTx(ctx, func(tx domain.Repositories) error {
		if _, err := tx.Chats().GetByID(ctx, chatID); err != nil {
			return err
		}
		if err := requireMember(ctx, tx, chatID, viewer); err != nil {
			return err
		}
		var err error
		out, err = tx.Messages().ListOrdered(ctx, chatID)
		return err
	})
	return out, err
}

func requireMember(ctx context.Context, tx domain.Repositories, chatID int64, login string) error {
	ok, err := tx.Chats().IsMember(ctx, chatID, login)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s is not a member of chat %d", domain.ErrAuthorization, login, chatID)
	}
	return nil
}

func authoredMessage(ctx context.Context, tx domain.Repositories, actor string, chatID, messageID int64) (*domain.Message, error) {
	if _, err := tx.Chats().Lock(ctx, chatID, false); err != nil {
		return nil, err
	}
	msg, err := tx.Messages().GetInChat(ctx, chatID, messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderLogin != actor {
		return nil, fmt.Errorf("%w: only the sender may change message %d", domain.ErrAuthorization, messageID)
	}
	return msg, nil
}
