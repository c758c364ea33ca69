package service

import (
	"context"
	"fmt"

	"github.com/taskhub/taskhub/internal/events"
	"github.com/taskhub/taskhub/internal/hash"
	"github.com/taskhub/taskhub/internal/logging"
	"github.com/taskhub/taskhub/internal/models"
	"github.com/taskhub/taskhub/internal/repo"
	"github.com/taskhub/taskhub/internal/tokens"
)

// RevocationChecker is the extension point for deployments that need
// logout or server-side refresh revocation. The default nil checker keeps
// refresh tokens fully stateless.
type RevocationChecker interface {
	Revoked(ctx context.Context, jti string) (bool, error)
}

// AuthService is the session facade: registration, login, refresh,
// password change and the token-to-user gate used by the middleware.
type AuthService struct {
	Users      *repo.UserRepository
	Issuer     *tokens.Issuer
	Producer   *events.Producer
	Revocation RevocationChecker
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type RegisterInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	// advisory pre-checks; the unique indexes are the source of truth
	if _, err := s.Users.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !repo.IsNotFound(err) {
		return nil, err
	}
	if _, err := s.Users.FindByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !repo.IsNotFound(err) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: pwHash,
		IsActive:     true,
		IsSuperuser:  false,
	}
	if err := s.Users.Create(ctx, &user); err != nil {
		if repo.IsDuplicate(err) {
			// lost the race to a concurrent insert
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.publish(ctx, "user_events", user.ID, map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})

	l.Info("user registered", "user_id", user.ID, "username", user.Username)
	return &user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		if repo.IsNotFound(err) {
			// same failure as a wrong password, no user enumeration
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	access, err := s.Issuer.IssueAccess(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.Issuer.IssueRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	s.publish(ctx, "user_events", user.ID, map[string]any{
		"type":     "user_logged_in",
		"user_id":  user.ID,
		"username": user.Username,
	})

	l.Info("user logged in", "user_id", user.ID)
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is never rotated or invalidated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.Issuer.Parse(refreshToken, tokens.TypeRefresh)
	if err != nil {
		return "", err
	}

	if s.Revocation != nil && claims.ID != "" {
		revoked, err := s.Revocation.Revoked(ctx, claims.ID)
		if err != nil {
			return "", err
		}
		if revoked {
			return "", ErrInvalidToken
		}
	}

	user, err := s.resolveSubject(ctx, claims)
	if err != nil {
		return "", err
	}

	access, err := s.Issuer.IssueAccess(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return access, nil
}

// Authenticate is the sole gate for protected routes: it runs the full
// verifier chain on an access token and yields the resolved active user.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.Issuer.Parse(accessToken, tokens.TypeAccess)
	if err != nil {
		return nil, err
	}
	return s.resolveSubject(ctx, claims)
}

func (s *AuthService) resolveSubject(ctx context.Context, claims *tokens.Claims) (*models.User, error) {
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

// ChangePassword re-verifies the current password before accepting the new
// one. Previously issued tokens stay valid.
func (s *AuthService) ChangePassword(ctx context.Context, user *models.User, current, new string) error {
	if !hash.CheckPassword(user.PasswordHash, current) {
		return ErrIncorrectPassword
	}
	pwHash, err := hash.HashPassword(new)
	if err != nil {
		return err
	}
	user.PasswordHash = pwHash
	if err := s.Users.Save(ctx, user); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("password changed", "user_id", user.ID)
	return nil
}

type ProfileUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// UpdateProfile mutates email and name fields, re-checking email
// uniqueness when it changes.
func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User, in ProfileUpdate) (*models.User, error) {
	if in.Email != nil && *in.Email != user.Email {
		taken, err := s.Users.EmailTaken(ctx, *in.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if err := s.Users.Save(ctx, user); err != nil {
		if repo.IsDuplicate(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) publish(ctx context.Context, topic string, userID uint, event map[string]any) {
	if err := s.Producer.PublishEvent(ctx, topic, fmt.Sprint(userID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
