package service

import (
	"errors"

	"github.com/taskhub/taskhub/internal/tokens"
)

// Domain failures raised by the service layer. Handlers translate these to
// HTTP status codes; services never build HTTP responses themselves.
var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInactiveUser       = errors.New("inactive user")
	ErrUserNotFound       = errors.New("user not found")
	ErrIncorrectPassword  = errors.New("incorrect current password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrNotFound           = errors.New("not found")
	ErrCategoryExists     = errors.New("category already exists")
	ErrCategoryNotOwned   = errors.New("category does not exist or does not belong to the user")

	// re-exported so handlers depend on one package for auth failures
	ErrInvalidToken   = tokens.ErrInvalidToken
	ErrWrongTokenType = tokens.ErrWrongTokenType
	ErrTokenExpired   = tokens.ErrExpired
)
