package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestUserFromAccessToken(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	user := userFromAccessToken(token)
	if user == nil || user.ID != "user-42" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUserFromAccessTokenOpaque(t *testing.T) {
	if user := userFromAccessToken("not-a-jwt"); user != nil {
		t.Fatalf("expected nil user for opaque token, got %+v", user)
	}
	if user := userFromAccessToken(signedToken(t, jwt.MapClaims{"exp": time.Now().Unix()})); user != nil {
		t.Fatalf("expected nil user without sub claim, got %+v", user)
	}
}

func TestAccessTokenExpiry(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{"sub": "user-42", "exp": exp.Unix()})

	got, ok := AccessTokenExpiry(token)
	if !ok {
		t.Fatal("expected expiry to be present")
	}
	if !got.Equal(exp) {
		t.Fatalf("expected expiry %v, got %v", exp, got)
	}

	if _, ok := AccessTokenExpiry(signedToken(t, jwt.MapClaims{"sub": "user-42"})); ok {
		t.Fatal("expected no expiry without exp claim")
	}
}
