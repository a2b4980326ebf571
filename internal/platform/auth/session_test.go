package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func mintToken(t *testing.T, secret string, claims sessionJWTClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return raw
}

func TestParseValidToken(t *testing.T) {
	parser := NewTokenParser("session-secret")
	now := time.Now().UTC()

	raw := mintToken(t, "session-secret", sessionJWTClaims{
		TenantID: "tenant-1",
		Email:    "member@acme.example",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	claims, err := parser.Parse(raw, now)
	if err != nil {
		t.Fatalf("parse should succeed: %v", err)
	}
	if claims.UserID != "user-1" || claims.TenantID != "tenant-1" || claims.Email != "member@acme.example" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseExpiredToken(t *testing.T) {
	parser := NewTokenParser("session-secret")
	now := time.Now().UTC()

	raw := mintToken(t, "session-secret", sessionJWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
		},
	})

	if _, err := parser.Parse(raw, now); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected expired token, got %v", err)
	}
}

func TestParseRejectsInvalidTokens(t *testing.T) {
	parser := NewTokenParser("session-secret")
	now := time.Now().UTC()

	wrongSecret := mintToken(t, "other-secret", sessionJWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	noSubject := mintToken(t, "session-secret", sessionJWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})

	for _, raw := range []string{"", "garbage", wrongSecret, noSubject} {
		if _, err := parser.Parse(raw, now); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("expected invalid token for %q, got %v", raw, err)
		}
	}
}

func TestIdentityContextRoundTrip(t *testing.T) {
	id := Identity{UserID: "user-1", TenantID: "tenant-1", Role: "owner"}

	ctx := WithIdentity(context.Background(), id)
	got, ok := IdentityFrom(ctx)
	if !ok || got != id {
		t.Fatalf("expected identity round trip, got %+v ok=%v", got, ok)
	}

	if _, ok := IdentityFrom(context.Background()); ok {
		t.Fatalf("expected no identity on a bare context")
	}
}
