package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examportal/examterm/internal/api"
	"github.com/examportal/examterm/internal/model"
)

func signedToken(t *testing.T, userID int64, role string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:   role,
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "student",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func loginServer(t *testing.T, resp model.LoginResponse) *api.Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/auth/login", r.URL.Path)
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return api.New(server.URL, server.Client(), zerolog.Nop())
}

func TestLoginBuildsSessionFromReplyAndClaims(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	client := loginServer(t, model.LoginResponse{
		Token:    signedToken(t, 3, "STUDENT", expiry),
		Username: "student",
		Role:     model.RoleStudent,
		UserID:   3,
	})

	session, err := Login(context.Background(), client, zerolog.Nop(), "student", "student123")

	require.NoError(t, err)
	assert.Equal(t, int64(3), session.User.ID)
	assert.Equal(t, model.RoleStudent, session.User.Role)
	assert.Equal(t, expiry.Unix(), session.ExpiresAt.Unix())
	assert.False(t, session.Expired(time.Now()))
	assert.NotEmpty(t, session.Credential.Token)
}

func TestLoginFillsIdentityFromClaimsWhenReplyIsSparse(t *testing.T) {
	client := loginServer(t, model.LoginResponse{
		Token: signedToken(t, 7, "TEACHER", time.Now().Add(time.Hour)),
	})

	session, err := Login(context.Background(), client, zerolog.Nop(), "teacher", "pw")

	require.NoError(t, err)
	assert.Equal(t, int64(7), session.User.ID)
	assert.Equal(t, model.RoleTeacher, session.User.Role)
	assert.Equal(t, "student", session.User.Username) // claim subject
}

func TestLoginToleratesUnparsableToken(t *testing.T) {
	client := loginServer(t, model.LoginResponse{
		Token:    "not-a-jwt",
		Username: "student",
		Role:     model.RoleStudent,
		UserID:   3,
	})

	session, err := Login(context.Background(), client, zerolog.Nop(), "student", "pw")

	require.NoError(t, err)
	assert.Equal(t, int64(3), session.User.ID)
	assert.True(t, session.ExpiresAt.IsZero())
	assert.False(t, session.Expired(time.Now()), "no exp claim never expires client-side")
}

func TestLoginRejectsEmptyToken(t *testing.T) {
	client := loginServer(t, model.LoginResponse{Username: "student"})

	_, err := Login(context.Background(), client, zerolog.Nop(), "student", "pw")
	require.Error(t, err)
}

func TestSessionExpiry(t *testing.T) {
	session := &Session{ExpiresAt: time.Now().Add(-time.Minute)}
	assert.True(t, session.Expired(time.Now()))
}

func TestLogoutZeroesSession(t *testing.T) {
	session := &Session{
		Credential: api.Credential{Token: "secret"},
		User:       model.User{ID: 3, Username: "student"},
	}

	Logout(session, zerolog.Nop())

	assert.Empty(t, session.Credential.Token)
	assert.Zero(t, session.User.ID)

	Logout(nil, zerolog.Nop()) // must not panic
}
