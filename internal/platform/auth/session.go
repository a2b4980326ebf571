package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Session claims issued by the identity provider. "sub" is the provider user
// id, "tid" the tenant the client claims to be acting in. Claims are never
// trusted for authorization; ResolveAccess re-checks the database per request.

var (
	ErrTokenInvalid = errors.New("session token invalid")
	ErrTokenExpired = errors.New("session token expired")
)

type SessionClaims struct {
	UserID   string
	TenantID string
	Email    string
}

type sessionJWTClaims struct {
	TenantID string `json:"tid,omitempty"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenParser validates HS256 session tokens from the identity provider.
type TokenParser struct {
	Secret []byte
}

func NewTokenParser(secret string) TokenParser {
	return TokenParser{Secret: []byte(secret)}
}

func (p TokenParser) Parse(raw string, now time.Time) (SessionClaims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SessionClaims{}, ErrTokenInvalid
	}

	var claims sessionJWTClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return p.Secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionClaims{}, ErrTokenExpired
		}
		return SessionClaims{}, ErrTokenInvalid
	}
	if !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return SessionClaims{}, ErrTokenInvalid
	}

	return SessionClaims{
		UserID:   claims.Subject,
		TenantID: claims.TenantID,
		Email:    claims.Email,
	}, nil
}

type contextKey struct{}

// Identity is the per-request authenticated principal after access resolution.
type Identity struct {
	UserID   string
	TenantID string
	Role     string
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
