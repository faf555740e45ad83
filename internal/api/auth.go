package api

import (
	"context"
	"net/http"

	"github.com/examportal/examterm/internal/model"
)

// Login exchanges credentials for a bearer token at the user service.
func (c *Client) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	var resp model.LoginResponse
	if err := c.doJSON(ctx, Anonymous, http.MethodPost, "/users/auth/login", req, &resp); err != nil {
		return model.LoginResponse{}, err
	}
	return resp, nil
}

// Register self-registers a new account. The role is forced to STUDENT;
// privileged accounts are provisioned through the admin user endpoints.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	req.Role = model.RoleStudent

	var user model.User
	if err := c.doJSON(ctx, Anonymous, http.MethodPost, "/users/register", req, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// GetUser fetches one user record.
func (c *Client) GetUser(ctx context.Context, cred Credential, id int64) (model.User, error) {
	var user model.User
	if err := c.doJSON(ctx, cred, http.MethodGet, "/users/"+formatID(id), nil, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// ListUsers fetches all user records (admin only).
func (c *Client) ListUsers(ctx context.Context, cred Credential) ([]model.User, error) {
	var users []model.User
	if err := c.doJSON(ctx, cred, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
