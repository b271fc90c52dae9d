package sealog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrNotFound: the addressed resource does not exist on the server.
	ErrNotFound = errors.New("sealog: not found")

	// ErrUnauthorized: the token was rejected.
	ErrUnauthorized = errors.New("sealog: unauthorized")

	// ErrServer: the server answered outside 2xx for another reason.
	ErrServer = errors.New("sealog: server error")
)

func (c *client) do(ctx context.Context, method string, apiurl string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiurl, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpclient.Do(req)
}

// unmarshalJsonResponse decodes a 2xx body into v, or maps the status
// code onto a sentinel error carrying the server's message.
func unmarshalJsonResponse[T any](resp *http.Response, v *T) error {
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf(
			"%w: unreadable response (status code = %d): %s",
			ErrServer, resp.StatusCode, err,
		)
	}
	return nil
}

func discardResponse(resp *http.Response) error {
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func statusError(resp *http.Response) error {
	if 200 <= resp.StatusCode && resp.StatusCode < 300 {
		return nil
	}

	message := serverMessage(resp.Body)
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, message)
	}
	return fmt.Errorf("%w (status code = %d): %s", ErrServer, resp.StatusCode, message)
}

func serverMessage(body io.Reader) string {
	buf, err := io.ReadAll(body)
	if err != nil {
		return "(cannot read server message)"
	}

	parsed := struct {
		Message string `json:"message"`
	}{}
	if err := json.Unmarshal(buf, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return string(buf)
}
