package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taskhub/taskhub/internal/models"
	"github.com/taskhub/taskhub/internal/repo"
	"github.com/taskhub/taskhub/internal/tokens"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Category{}, &models.Task{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := initTestDB(t)
	svc := &AuthService{
		Users: repo.NewUserRepository(db),
		Issuer: &tokens.Issuer{
			Secret:     []byte("test-secret"),
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 7 * 24 * time.Hour,
		},
	}
	return svc, db
}

func registerAlice(t *testing.T, svc *AuthService) *models.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "alice",
		Email:    "a@x.com",
		Password: "P@ssw0rd1",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	user := registerAlice(t, svc)
	require.NotZero(t, user.ID)
	require.True(t, user.IsActive)
	require.False(t, user.IsSuperuser)
	require.NotEqual(t, "P@ssw0rd1", user.PasswordHash)

	pair, err := svc.Login(ctx, "a@x.com", "P@ssw0rd1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := svc.Issuer.Parse(pair.AccessToken, tokens.TypeAccess)
	require.NoError(t, err)
	subject, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, user.ID, subject)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	registerAlice(t, svc)

	// wrong password and unknown email fail identically
	_, err := svc.Login(ctx, "a@x.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@x.com", "P@ssw0rd1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()
	user := registerAlice(t, svc)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, err := svc.Login(ctx, "a@x.com", "P@ssw0rd1")
	require.ErrorIs(t, err, ErrInactiveUser)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	registerAlice(t, svc)

	_, err := svc.Register(ctx, RegisterInput{Username: "alice2", Email: "a@x.com", Password: "P@ssw0rd1"})
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Email: "a2@x.com", Password: "P@ssw0rd1"})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRefresh(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	user := registerAlice(t, svc)

	pair, err := svc.Login(ctx, "a@x.com", "P@ssw0rd1")
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, access)

	claims, err := svc.Issuer.Parse(access, tokens.TypeAccess)
	require.NoError(t, err)
	subject, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, user.ID, subject)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	registerAlice(t, svc)

	pair, err := svc.Login(ctx, "a@x.com", "P@ssw0rd1")
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrWrongTokenType)
}

func TestRefreshUnknownOrInactiveSubject(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()
	user := registerAlice(t, svc)

	pair, err := svc.Login(ctx, "a@x.com", "P@ssw0rd1")
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInactiveUser)

	require.NoError(t, db.Unscoped().Delete(user).Error)
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrUserNotFound)
}

type staticRevocation struct{ revoked bool }

func (s staticRevocation) Revoked(context.Context, string) (bool, error) {
	return s.revoked, nil
}

func TestRefreshHonorsRevocationChecker(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	registerAlice(t, svc)

	pair, err := svc.Login(ctx, "a@x.com", "P@ssw0rd1")
	require.NoError(t, err)

	svc.Revocation = staticRevocation{revoked: false}
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	svc.Revocation = staticRevocation{revoked: true}
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	user := registerAlice(t, svc)

	pair, err := svc.Login(ctx, "a@x.com", "P@ssw0rd1")
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	// a refresh token never passes the access gate
	_, err = svc.Authenticate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrWrongTokenType)

	_, err = svc.Authenticate(ctx, "garbage")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	user := registerAlice(t, svc)

	expired := &tokens.Issuer{Secret: svc.Issuer.Secret, AccessTTL: -time.Minute}
	raw, err := expired.IssueAccess(user.ID)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, raw)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	user := registerAlice(t, svc)

	err := svc.ChangePassword(ctx, user, "wrong", "NewP@ssw0rd")
	require.ErrorIs(t, err, ErrIncorrectPassword)

	require.NoError(t, svc.ChangePassword(ctx, user, "P@ssw0rd1", "NewP@ssw0rd"))

	_, err = svc.Login(ctx, "a@x.com", "P@ssw0rd1")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "a@x.com", "NewP@ssw0rd")
	require.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	user := registerAlice(t, svc)

	_, err := svc.Register(ctx, RegisterInput{Username: "bob", Email: "b@x.com", Password: "P@ssw0rd1"})
	require.NoError(t, err)

	email := "b@x.com"
	_, err = svc.UpdateProfile(ctx, user, ProfileUpdate{Email: &email})
	require.ErrorIs(t, err, ErrEmailTaken)

	newEmail := "alice@x.com"
	first := "Alice"
	updated, err := svc.UpdateProfile(ctx, user, ProfileUpdate{Email: &newEmail, FirstName: &first})
	require.NoError(t, err)
	require.Equal(t, "alice@x.com", updated.Email)
	require.Equal(t, "Alice", updated.FirstName)
}
