package tokens

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
	ErrExpired        = errors.New("token expired")
)

// Claims is the claim set carried by both access and refresh tokens.
// TokenType discriminates the two so one can never stand in for the other.
type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// Issuer mints and verifies HS256 tokens with a process-wide secret.
// The secret is set once at startup and never mutated afterwards.
type Issuer struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (i *Issuer) IssueAccess(userID uint) (string, error) {
	return i.sign(userID, TypeAccess, i.AccessTTL, "")
}

func (i *Issuer) IssueRefresh(userID uint) (string, error) {
	return i.sign(userID, TypeRefresh, i.RefreshTTL, uuid.NewString())
}

func (i *Issuer) sign(userID uint, tokenType string, ttl time.Duration, jti string) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(i.Secret)
}

// Parse validates signature and expiry and checks that the token carries
// the wanted type. Expiry is strict: a token whose exp equals the current
// instant is already expired.
func (i *Issuer) Parse(raw, wantType string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return i.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalidToken
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrWrongTokenType
	}
	return &claims, nil
}
