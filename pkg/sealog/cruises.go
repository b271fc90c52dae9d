package sealog

import (
	"context"
	"fmt"
	"net/http"

	apicruises "github.com/oceandatatools/sealog-relay/pkg/sealog/api/cruises"
	apilowerings "github.com/oceandatatools/sealog-relay/pkg/sealog/api/lowerings"
)

func (c *client) GetCruises(ctx context.Context) ([]apicruises.Cruise, error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("cruises"), nil)
	if err != nil {
		return nil, err
	}

	var found []apicruises.Cruise
	if err := unmarshalJsonResponse(resp, &found); err != nil {
		return nil, err
	}
	return found, nil
}

func (c *client) GetCruiseByID(ctx context.Context, cruiseID string) (apicruises.Cruise, error) {
	found, err := c.GetCruises(ctx)
	if err != nil {
		return apicruises.Cruise{}, err
	}
	for _, cruise := range found {
		if cruise.CruiseID == cruiseID {
			return cruise, nil
		}
	}
	return apicruises.Cruise{}, fmt.Errorf("%w: cruise %s", ErrNotFound, cruiseID)
}

func (c *client) GetLowerings(ctx context.Context) ([]apilowerings.Lowering, error) {
	resp, err := c.do(ctx, http.MethodGet, c.apipath("lowerings"), nil)
	if err != nil {
		return nil, err
	}

	var found []apilowerings.Lowering
	if err := unmarshalJsonResponse(resp, &found); err != nil {
		return nil, err
	}
	return found, nil
}
