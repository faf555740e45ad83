// Package auth owns the client-side session lifecycle: a session is created
// by Login, carried explicitly through every API call, and discarded by
// Logout. There is no ambient token storage.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/examportal/examterm/internal/api"
	"github.com/examportal/examterm/internal/model"
)

var ErrNotLoggedIn = errors.New("not logged in")

// Claims is the subset of the portal's JWT payload the client cares about.
// The token is parsed without signature verification; only the portal
// services hold the signing key, and they re-verify on every request. The
// client reads claims purely to label the session and warn about expiry.
type Claims struct {
	Role   string `json:"role"`
	UserID int64  `json:"userId"`
	jwt.RegisteredClaims
}

// Session is an authenticated portal session.
type Session struct {
	Credential api.Credential
	User       model.User
	ExpiresAt  time.Time
}

// Expired reports whether the session's token has passed its expiry claim.
// A zero ExpiresAt (no exp claim) never expires client-side.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Login authenticates against the user service and builds a Session from the
// login reply plus the token's claims.
func Login(ctx context.Context, client *api.Client, log zerolog.Logger, username, password string) (*Session, error) {
	resp, err := client.Login(ctx, model.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.Token) == "" {
		return nil, errors.New("login reply carried no token")
	}

	session := &Session{
		Credential: api.Credential{Token: resp.Token},
		User: model.User{
			ID:       resp.UserID,
			Username: resp.Username,
			Role:     resp.Role,
		},
	}

	claims, err := parseClaims(resp.Token)
	if err != nil {
		// The reply fields are authoritative; claim parsing only enriches.
		log.Warn().Err(err).Msg("could not parse token claims")
		return session, nil
	}

	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	if session.User.ID == 0 {
		session.User.ID = claims.UserID
	}
	if session.User.Role == "" {
		session.User.Role = model.Role(claims.Role)
	}
	if session.User.Username == "" {
		session.User.Username = claims.Subject
	}

	log.Info().
		Str("username", session.User.Username).
		Str("role", string(session.User.Role)).
		Time("expires_at", session.ExpiresAt).
		Msg("logged in")

	return session, nil
}

// Logout discards the session. The portal issues stateless tokens, so there
// is nothing to revoke server-side; dropping the credential is the teardown.
func Logout(session *Session, log zerolog.Logger) {
	if session == nil {
		return
	}
	log.Info().Str("username", session.User.Username).Msg("logged out")
	*session = Session{}
}

func parseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}
