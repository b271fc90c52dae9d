package token_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oceandatatools/sealog-relay/pkg/sealog/token"
	"github.com/oceandatatools/sealog-relay/pkg/utils/try"
)

func issue(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func TestInspect(t *testing.T) {
	t.Run("it decodes id, scope and exp", func(t *testing.T) {
		exp := time.Now().Add(time.Hour).Truncate(time.Second)
		signed := issue(t, jwt.MapClaims{
			"id":    "user-0001",
			"scope": []string{"admin", "event_logger"},
			"exp":   exp.Unix(),
		})

		claims := try.To(token.Inspect(signed)).OrFatal(t)

		if claims.UserID != "user-0001" {
			t.Errorf("unexpected user id: %s", claims.UserID)
		}
		if !claims.HasRole("admin") || !claims.HasRole("event_logger") {
			t.Errorf("roles are lost: %v", claims.Roles)
		}
		if claims.HasRole("root") {
			t.Error("phantom role")
		}
		if claims.ExpiresAt == nil || !claims.ExpiresAt.Equal(exp) {
			t.Errorf("unexpected exp: %v", claims.ExpiresAt)
		}
	})

	t.Run("a token without exp never expires", func(t *testing.T) {
		signed := issue(t, jwt.MapClaims{"id": "user-0001"})

		claims := try.To(token.Inspect(signed)).OrFatal(t)
		if claims.Expired(time.Now().Add(24 * 365 * time.Hour)) {
			t.Error("non-expiring token reported expired")
		}
	})

	t.Run("an expired token reports so", func(t *testing.T) {
		signed := issue(t, jwt.MapClaims{
			"id":  "user-0001",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})

		claims := try.To(token.Inspect(signed)).OrFatal(t)
		if !claims.Expired(time.Now()) {
			t.Error("expired token not reported")
		}
	})

	t.Run("a token without id is malformed", func(t *testing.T) {
		signed := issue(t, jwt.MapClaims{"scope": []string{"admin"}})

		if _, err := token.Inspect(signed); !errors.Is(err, token.ErrMalformedToken) {
			t.Errorf("expected ErrMalformedToken, got %v", err)
		}
	})

	t.Run("garbage is malformed", func(t *testing.T) {
		if _, err := token.Inspect("not.a.token"); !errors.Is(err, token.ErrMalformedToken) {
			t.Errorf("expected ErrMalformedToken, got %v", err)
		}
	})
}
