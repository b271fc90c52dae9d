// Package sealog is the REST client for a Sealog event-logging server.
package sealog

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	apiauxdata "github.com/oceandatatools/sealog-relay/pkg/sealog/api/auxdata"
	apicruises "github.com/oceandatatools/sealog-relay/pkg/sealog/api/cruises"
	apicustomvars "github.com/oceandatatools/sealog-relay/pkg/sealog/api/customvars"
	apievents "github.com/oceandatatools/sealog-relay/pkg/sealog/api/events"
	apilowerings "github.com/oceandatatools/sealog-relay/pkg/sealog/api/lowerings"
	apiusers "github.com/oceandatatools/sealog-relay/pkg/sealog/api/users"
	"github.com/oceandatatools/sealog-relay/pkg/utils/isotime"
	"github.com/oceandatatools/sealog-relay/pkg/xerrors"
)

// EventFilter narrows event-scoped queries.
type EventFilter struct {
	// StartTS/StopTS bound the time range, inclusive, when non-nil.
	StartTS *isotime.ISO8601
	StopTS  *isotime.ISO8601

	// Values keeps only events whose event_value is one of these.
	Values []string

	// Limit caps the number of returned records. 0 = server default.
	Limit int
}

func (f EventFilter) query() url.Values {
	q := url.Values{}
	if f.StartTS != nil {
		q.Set("startTS", f.StartTS.String())
	}
	if f.StopTS != nil {
		q.Set("stopTS", f.StopTS.String())
	}
	for _, v := range f.Values {
		q.Add("value", v)
	}
	if 0 < f.Limit {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// Client is the Sealog server API surface the tools use.
type Client interface {
	// GetEvents finds events matching the filter.
	//
	// # Args
	//
	// - context.Context
	//
	// - EventFilter
	//
	// # Returns
	//
	// - []events.Event: found events. Empty when nothing matches.
	//
	// - error
	GetEvents(ctx context.Context, filter EventFilter) ([]apievents.Event, error)

	// PostEvent submits a new event.
	//
	// # Returns
	//
	// - events.Event: the event as stored, with its server-assigned id.
	//
	// - error
	PostEvent(ctx context.Context, event apievents.Event) (apievents.Event, error)

	// GetEventAuxData finds aux-data records of events matching the filter.
	GetEventAuxData(ctx context.Context, filter EventFilter) ([]apiauxdata.AuxData, error)

	// PostAuxData attaches an aux-data record to its event.
	//
	// # Returns
	//
	// - auxdata.AuxData: the record as stored.
	//
	// - error
	PostAuxData(ctx context.Context, record apiauxdata.AuxData) (apiauxdata.AuxData, error)

	// GetCruises lists cruises visible to the token.
	GetCruises(ctx context.Context) ([]apicruises.Cruise, error)

	// GetCruiseByID gets one cruise by its human-facing cruise_id.
	//
	// # Returns
	//
	// - cruises.Cruise
	//
	// - error: ErrNotFound when no such cruise exists.
	GetCruiseByID(ctx context.Context, cruiseID string) (apicruises.Cruise, error)

	// GetLowerings lists lowerings visible to the token.
	GetLowerings(ctx context.Context) ([]apilowerings.Lowering, error)

	// GetCustomVar reads a named server-side flag, like asnapStatus.
	//
	// # Returns
	//
	// - customvars.CustomVar
	//
	// - error: ErrNotFound when the variable is not defined.
	GetCustomVar(ctx context.Context, name string) (apicustomvars.CustomVar, error)

	// SetCustomVar updates the value of a server-side flag.
	SetCustomVar(ctx context.Context, id string, value string) error

	// GetUsers lists accounts. Requires an admin token.
	GetUsers(ctx context.Context) ([]apiusers.User, error)

	// CreateUser registers a new account. Requires an admin token.
	//
	// # Returns
	//
	// - users.User: the account as stored, password omitted.
	//
	// - error
	CreateUser(ctx context.Context, user apiusers.User) (apiusers.User, error)
}

type client struct {
	httpclient *http.Client
	api        string
	token      string
}

type Option func(*client) *client

// WithHTTPClient swaps the underlying http.Client, for TLS or timeouts.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) *client {
		c.httpclient = hc
		return c
	}
}

// NewClient builds a Client for the server at baseURL.
//
// # Args
//
// - baseURL: root of the server, like "http://localhost:8000/sealog-server".
//
// - token: JWT issued by the server. Sent as Authorization on every call.
//
// # Returns
//
// - Client
//
// - error: when baseURL is not a parsable absolute URL.
func NewClient(baseURL string, token string, options ...Option) (Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, xerrors.Wrap(err)
	}
	if !parsed.IsAbs() || parsed.Hostname() == "" {
		return nil, xerrors.New("sealog: base url must be absolute: " + baseURL)
	}

	c := &client{
		httpclient: new(http.Client),
		api:        strings.TrimSuffix(baseURL, "/") + "/api/v1",
		token:      token,
	}
	for _, option := range options {
		c = option(c)
	}
	return c, nil
}

func (c *client) apipath(resources ...string) string {
	return c.api + "/" + path.Join(resources...)
}
