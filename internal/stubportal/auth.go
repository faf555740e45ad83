package stubportal

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/examportal/examterm/internal/model"
)

const contextKeyClaims = "claims"

// tokenClaims is the JWT payload the stub issues, shaped like the real user
// service's tokens so the client's claim parsing sees the same fields.
type tokenClaims struct {
	Role   string `json:"role"`
	UserID int64  `json:"userId"`
	jwt.RegisteredClaims
}

func (s *Server) issueToken(u model.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Role:   string(u.Role),
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *Server) validateToken(tokenStr string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// requireAuth validates the bearer token and stores the claims on the
// context.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := s.validateToken(parts[1])
		if err != nil {
			abortError(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set(contextKeyClaims, claims)
		c.Next()
	}
}

// requireStaff allows only admin and teacher tokens through.
func (s *Server) requireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := getClaims(c)
		if claims == nil {
			abortError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		role := model.Role(claims.Role)
		if role != model.RoleAdmin && role != model.RoleTeacher {
			abortError(c, http.StatusForbidden, "requires a teacher or admin account")
			return
		}
		c.Next()
	}
}

func getClaims(c *gin.Context) *tokenClaims {
	val, exists := c.Get(contextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*tokenClaims)
	if !ok {
		return nil
	}
	return claims
}

func hashPassword(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(err) // only reachable with an invalid cost
	}
	return hash
}

func checkPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
