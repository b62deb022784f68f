package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the application.
var (
	ErrValidation         = errors.New("invalid input")
	ErrNotFound           = errors.New("resource not found")
	ErrAuthorization      = errors.New("not permitted")
	ErrDuplicateMember    = errors.New("member already present")
	ErrDuplicateLogin     = errors.New("login already registered")
	ErrInvalidCredentials = errors.New("incorrect login or password")
	ErrConflict           = errors.New("conflicting state")
	ErrStaleCursor        = errors.New("cursor is stale")
)

// Not-found variants, distinguishable with errors.Is against both the variant and ErrNotFound.
var (
	ErrUserNotFound       = fmt.Errorf("%w: user", ErrNotFound)
	ErrChatNotFound       = fmt.Errorf("%w: chat", ErrNotFound)
	ErrMessageNotFound    = fmt.Errorf("%w: message", ErrNotFound)
	ErrMembershipNotFound = fmt.Errorf("%w: membership", ErrNotFound)
)
