package sealog

import (
	"context"
	"errors"
	"net/http"

	apievents "github.com/oceandatatools/sealog-relay/pkg/sealog/api/events"
)

func (c *client) GetEvents(ctx context.Context, filter EventFilter) ([]apievents.Event, error) {
	apiurl := c.apipath("events")
	if q := filter.query().Encode(); q != "" {
		apiurl += "?" + q
	}

	resp, err := c.do(ctx, http.MethodGet, apiurl, nil)
	if err != nil {
		return nil, err
	}

	var found []apievents.Event
	if err := unmarshalJsonResponse(resp, &found); err != nil {
		// sealog answers 404 to queries matching nothing
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return found, nil
}

func (c *client) PostEvent(ctx context.Context, event apievents.Event) (apievents.Event, error) {
	resp, err := c.do(ctx, http.MethodPost, c.apipath("events"), event)
	if err != nil {
		return apievents.Event{}, err
	}

	var stored apievents.Event
	if err := unmarshalJsonResponse(resp, &stored); err != nil {
		return apievents.Event{}, err
	}
	return stored, nil
}
