package stubportal

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/examportal/examterm/internal/model"
)

func (s *Server) handleLogin(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid login payload")
		return
	}

	u, ok := s.store.userByName(req.Username)
	if !ok || !checkPassword(u.passwordHash, req.Password) {
		abortError(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.issueToken(u.User)
	if err != nil {
		abortError(c, http.StatusInternalServerError, "could not issue token")
		return
	}

	c.JSON(http.StatusOK, model.LoginResponse{
		Token:    token,
		Username: u.Username,
		Role:     u.Role,
		UserID:   u.ID,
	})
}

func (s *Server) handleRegister(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "invalid registration payload")
		return
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		abortError(c, http.StatusBadRequest, "username and password are required")
		return
	}
	if _, exists := s.store.userByName(req.Username); exists {
		abortError(c, http.StatusConflict, "username already taken")
		return
	}

	// Self-registration only ever creates students, whatever the payload says.
	user := s.store.addUser(req.Username, req.Email, model.RoleStudent, hashPassword(req.Password))
	c.JSON(http.StatusCreated, user)
}

func (s *Server) handleGetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user, ok := s.store.userByID(id)
	if !ok {
		abortError(c, http.StatusNotFound, "user not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) handleListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.listUsers())
}
