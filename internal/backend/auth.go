package backend

import (
	"context"

	"coin-admin/internal/features/access"

	"github.com/gofiber/fiber/v2"
)

type LoginResult struct {
	Token string      `json:"token"`
	Role  access.Role `json:"role"`
}

// Login exchanges admin credentials for a backend token and the role payload.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var res LoginResult
	err := c.Do(ctx, Request{
		Method: fiber.MethodPost,
		Path:   "/admin/login",
		Body: fiber.Map{
			"email":    email,
			"password": password,
		},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
