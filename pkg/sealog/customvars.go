package sealog

import (
	"context"
	"fmt"
	"net/http"

	apicustomvars "github.com/oceandatatools/sealog-relay/pkg/sealog/api/customvars"
)

func (c *client) GetCustomVar(ctx context.Context, name string) (apicustomvars.CustomVar, error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("custom_vars"), nil)
	if err != nil {
		return apicustomvars.CustomVar{}, err
	}

	var found []apicustomvars.CustomVar
	if err := unmarshalJsonResponse(resp, &found); err != nil {
		return apicustomvars.CustomVar{}, err
	}

	for _, v := range found {
		if v.Name == name {
			return v, nil
		}
	}
	return apicustomvars.CustomVar{}, fmt.Errorf("%w: custom var %s", ErrNotFound, name)
}

func (c *client) SetCustomVar(ctx context.Context, id string, value string) error {
	payload := struct {
		Value string `json:"custom_var_value"`
	}{Value: value}

	resp, err := c.do(ctx, http.MethodPatch, c.apipath("custom_vars", id), payload)
	if err != nil {
		return err
	}
	return discardResponse(resp)
}
