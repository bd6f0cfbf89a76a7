package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"fitnessai-client-go/internal/domain/session/model"
)

// userFromAccessToken recovers the user identity a restored access token
// claims to carry. The token is decoded without signature verification:
// validity is the backend's call and is discovered lazily on the first
// request (a 401 drives the normal refresh path).
func userFromAccessToken(token string) *model.User {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return nil
	}
	return &model.User{ID: sub}
}

// AccessTokenExpiry reports the exp claim of a token, when present.
// Informational only; the client never pre-empts the backend's verdict.
func AccessTokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
