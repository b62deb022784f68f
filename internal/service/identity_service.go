package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"messenger/internal/domain"
	"messenger/internal/security"
)

// IdentityService registers accounts and checks credentials.
type IdentityService struct {
	store  domain.Store
	hash   *security.PasswordHasher
	logger *zap.Logger
}

func NewIdentityService(store domain.Store, hash *security.PasswordHasher, logger *zap.Logger) *IdentityService {
	return &IdentityService{
		store:  store,
		hash:   hash,
		logger: logger,
	}
}

type RegisterInput struct {
	Login    string `validate:"notblank,max=50"`
	Password string `validate:"required,max=72"`
	Phone    string `validate:"omitempty,e164"`
}

// CreateUser creates the account together with its empty contact and block lists.
func (s *IdentityService) CreateUser(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	hashed, err := s.hash.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Login:    in.Login,
		Password: hashed,
		Phone:    in.Phone,
	}
	err = s.store.InTx(ctx, func(tx domain.Repositories) error {
		return tx.Users().Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("login", user.Login),
		zap.Int64("contact_list_id", user.ContactListID),
		zap.Int64("block_list_id", user.BlockListID),
	)
	return user, nil
}

// Authenticate returns the user when login and password match. Unknown logins
// and wrong passwords are indistinguishable to the caller.
func (s *IdentityService) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	user, err := s.store.Users().GetByLogin(ctx, login)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.hash.Verify(password, user.Password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, err
		}
		return nil, fmt.Errorf("verify password: %w", err)
	}
	return user, nil
}

func (s *IdentityService) Exists(ctx context.Context, login string) (bool, error) {
	return s.store.Users().Exists(ctx, login)
}

func (s *IdentityService) Get(ctx context.Context, login string) (*domain.User, error) {
	return s.store.Users().GetByLogin(ctx, login)
}

// DeleteAccount removes the user, both of its lists and any messages it sent
// in chats it has since left. It is refused while the user still belongs to a chat.
func (s *IdentityService) DeleteAccount(ctx context.Context, login string) error {
	err := s.store.InTx(ctx, func(tx domain.Repositories) error {
		if _, err := tx.Users().GetByLogin(ctx, login); err != nil {
			return err
		}
		chats, err := tx.Chats().CountForUser(ctx, login)
		if err != nil {
			return fmt.Errorf("count chats: %w", err)
		}
		if chats > 0 {
			return fmt.Errorf("%w: %s is still a member of %d chat(s)", domain.ErrConflict, login, chats)
		}
		removed, err := tx.Messages().DeleteBySender(ctx, login)
		if err != nil {
			return err
		}
		if removed > 0 {
			s.logger.Debug("messages of deleted user removed", zap.String("login", login), zap.Int64("count", removed))
		}
		return tx.Users().Delete(ctx, login)
	})
	if err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.String("login", login))
	return nil
}
