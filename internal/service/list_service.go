package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"messenger/internal/domain"
)

// ListService manages the contact and block lists each user owns.
type ListService struct {
	store  domain.Store
	logger *zap.Logger
}

func NewListService(store domain.Store, logger *zap.Logger) *ListService {
	return &ListService{store: store, logger: logger}
}

func (s *ListService) AddMember(ctx context.Context, owner string, kind domain.ListKind, target string) error {
	if err := requireLogin(target); err != nil {
		return err
	}
	if _, err := domain.ParseListKind(string(kind)); err != nil {
		return err
	}
	err := s.store.InTx(ctx, func(tx domain.Repositories) error {
		u, err := tx.Users().GetByLogin(ctx, owner)
		if err != nil {
			return err
		}
		if err := requireUser(ctx, tx, target); err != nil {
			return err
		}
		return tx.Lists().AddMember(ctx, u.ListID(kind), target)
	})
	if err != nil {
		return err
	}
	s.logger.Debug("list member added",
		zap.String("owner", owner), zap.String("list", string(kind)), zap.String("member", target))
	return nil
}

func (s *ListService) RemoveMember(ctx context.Context, owner string, kind domain.ListKind, target string) error {
	if err := requireLogin(target); err != nil {
		return err
	}
	if _, err := domain.ParseListKind(string(kind)); err != nil {
		return err
	}
	err := s.store.InTx(ctx, func(tx domain.Repositories) error {
		u, err := tx.Users().GetByLogin(ctx, owner)
		if err != nil {
			return err
		}
		if err := requireUser(ctx, tx, target); err != nil {
			return err
		}
		return tx.Lists().RemoveMember(ctx, u.ListID(kind), target)
	})
	if err != nil {
		return err
	}
	s.logger.Debug("list member removed",
		zap.String("owner", owner), zap.String("list", string(kind)), zap.String("member", target))
	return nil
}

// ListMembers returns the logins on the owner's list, sorted.
func (s *ListService) ListMembers(ctx context.Context, owner string, kind domain.ListKind) ([]string, error) {
	if _, err := domain.ParseListKind(string(kind)); err != nil {
		return nil, err
	}
	u, err := s.store.Users().GetByLogin(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.store.Lists().Members(ctx, u.ListID(kind))
}

func requireUser(ctx context.Context, repos domain.Repositories, login string) error {
	ok, err := repos.Users().Exists(ctx, login)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w %q", domain.ErrUserNotFound, login)
	}
	return nil
}
