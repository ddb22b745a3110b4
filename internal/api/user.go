package api

import (
	"context"
	"net/http"
)

type UserClient struct{ c *Client }

func NewUserClient(c *Client) *UserClient { return &UserClient{c: c} }

func (u *UserClient) Me(ctx context.Context) (*User, error) {
	var out User
	if err := u.c.do(ctx, http.MethodGet, "/users/me", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
