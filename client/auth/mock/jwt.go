package mock

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessType  = "access"
	refreshType = "refresh"
)

var errInvalidSession = errors.New("invalid session")

// createJWT creates a signed session token for userID with the given type and expiry
func (s *Service) createJWT(userID, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"jti":   uuid.NewString(),
		"typ":   tokenType,
		"epoch": s.epoch.Load(),
		"exp":   now.Add(expiry).Unix(),
		"iat":   now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// verifyJWT returns the user id of a valid token of tokenType.
func (s *Service) verifyJWT(raw, tokenType string) (string, error) {
	token, err := jwt.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidSession, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != tokenType {
		return "", fmt.Errorf("%w: unexpected token type", errInvalidSession)
	}
	// access tokens die with Expire; refresh tokens outlive it
	if epoch, _ := claims["epoch"].(float64); tokenType == accessType && int64(epoch) != s.epoch.Load() {
		return "", fmt.Errorf("%w: token revoked", errInvalidSession)
	}
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("%w: missing subject", errInvalidSession)
	}
	return subject, nil
}

func (s *Service) setSessionCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
}

// authenticate resolves the user behind the access cookie.
func (s *Service) authenticate(r *http.Request) (*User, error) {
	cookie, err := r.Cookie(AccessCookie)
	if err != nil {
		return nil, fmt.Errorf("%w: missing access token", errInvalidSession)
	}
	userID, err := s.verifyJWT(cookie.Value, accessType)
	if err != nil {
		return nil, err
	}
	user, ok := s.users.Get(userID)
	if !ok {
		return nil, fmt.Errorf("%w: unknown user", errInvalidSession)
	}
	return user, nil
}
