package sealog

import (
	"context"
	"errors"
	"net/http"

	apiauxdata "github.com/oceandatatools/sealog-relay/pkg/sealog/api/auxdata"
)

func (c *client) GetEventAuxData(ctx context.Context, filter EventFilter) ([]apiauxdata.AuxData, error) {
	apiurl := c.apipath("event_aux_data")
	if q := filter.query().Encode(); q != "" {
		apiurl += "?" + q
	}

	resp, err := c.do(ctx, http.MethodGet, apiurl, nil)
	if err != nil {
		return nil, err
	}

	var found []apiauxdata.AuxData
	if err := unmarshalJsonResponse(resp, &found); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return found, nil
}

func (c *client) PostAuxData(ctx context.Context, record apiauxdata.AuxData) (apiauxdata.AuxData, error) {
	resp, err := c.do(ctx, http.MethodPost, c.apipath("event_aux_data"), record)
	if err != nil {
		return apiauxdata.AuxData{}, err
	}

	var stored apiauxdata.AuxData
	if err := unmarshalJsonResponse(resp, &stored); err != nil {
		return apiauxdata.AuxData{}, err
	}
	return stored, nil
}
