package client

import (
	"context"
	"net/http"

	"unpolished/internal/models"
	"unpolished/pkg/schema"
)

// AuthResponse is returned by Signup and Signin.
type AuthResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
}

// Signup creates an account and signs the client in with the issued token.
func (c *Client) Signup(ctx context.Context, in schema.SignupInput) (*AuthResponse, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", in, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Signin exchanges credentials for a token and signs the client in.
func (c *Client) Signin(ctx context.Context, in schema.SigninInput) (*AuthResponse, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signin", in, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Token)
	return &out, nil
}

// Signout revokes the current token on the server and forgets it locally.
func (c *Client) Signout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/signout", nil, nil); err != nil {
		return err
	}
	c.ClearToken()
	return nil
}
