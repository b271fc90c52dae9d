package sealog

import (
	"context"
	"net/http"

	apiusers "github.com/oceandatatools/sealog-relay/pkg/sealog/api/users"
)

func (c *client) GetUsers(ctx context.Context) ([]apiusers.User, error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("users"), nil)
	if err != nil {
		return nil, err
	}

	var found []apiusers.User
	if err := unmarshalJsonResponse(resp, &found); err != nil {
		return nil, err
	}
	return found, nil
}

func (c *client) CreateUser(ctx context.Context, user apiusers.User) (apiusers.User, error) {
	resp, err := c.do(ctx, http.MethodPost, c.apipath("users"), user)
	if err != nil {
		return apiusers.User{}, err
	}

	var stored apiusers.User
	if err := unmarshalJsonResponse(resp, &stored); err != nil {
		return apiusers.User{}, err
	}
	return stored, nil
}
