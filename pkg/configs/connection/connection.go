package connection

import (
	"errors"
	"fmt"
	"net/url"

	"gopkg.in/yaml.v3"
)

var ErrInvalidServer = errors.New("connection: invalid sealog server config")

// Server locates a Sealog server and the token to speak to it.
type Server struct {
	// URL is the REST root, like "http://localhost:8000/sealog-server".
	URL string

	// Websocket is the event feed endpoint, like "ws://localhost:8000/ws".
	// Only the daemons consuming the feed need it.
	Websocket string

	// Token is the JWT sent on every call.
	Token string
}

func (s *Server) UnmarshalYAML(node *yaml.Node) error {
	raw := struct {
		URL       string `yaml:"url"`
		Websocket string `yaml:"websocket"`
		Token     string `yaml:"token"`
	}{}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.URL == "" {
		return fmt.Errorf("%w: url is empty", ErrInvalidServer)
	}
	if parsed, err := url.Parse(raw.URL); err != nil || !parsed.IsAbs() || parsed.Hostname() == "" {
		return fmt.Errorf("%w: url is not absolute: %s", ErrInvalidServer, raw.URL)
	}
	if raw.Token == "" {
		return fmt.Errorf("%w: token is empty", ErrInvalidServer)
	}
	if raw.Websocket != "" {
		parsed, err := url.Parse(raw.Websocket)
		if err != nil || (parsed.Scheme != "ws" && parsed.Scheme != "wss") {
			return fmt.Errorf("%w: websocket is not a ws(s) url: %s", ErrInvalidServer, raw.Websocket)
		}
	}

	s.URL = raw.URL
	s.Websocket = raw.Websocket
	s.Token = raw.Token
	return nil
}
