// Package feed subscribes to the Sealog new-event websocket feed.
//
// The server speaks the nes protocol: the client says hello with its
// auth header, subscribes to a path, then receives pub frames and
// answers server pings. Broken connections are redialed with backoff.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"

	apievents "github.com/oceandatatools/sealog-relay/pkg/sealog/api/events"
	"github.com/oceandatatools/sealog-relay/pkg/loop"
	"github.com/oceandatatools/sealog-relay/pkg/xerrors"
)

// NewEventsPath is the subscription path of the live event stream.
const NewEventsPath = "/ws/status/newEvents"

const defaultRedialInterval = 5 * time.Second

type message struct {
	Type       string          `json:"type"`
	ID         int             `json:"id,omitempty"`
	Version    string          `json:"version,omitempty"`
	Path       string          `json:"path,omitempty"`
	Auth       *auth           `json:"auth,omitempty"`
	Message    json.RawMessage `json:"message,omitempty"`
	StatusCode int             `json:"statusCode,omitempty"`
}

type auth struct {
	Headers map[string]string `json:"headers"`
}

type Subscriber struct {
	url      string
	token    string
	path     string
	dialer   *websocket.Dialer
	redial   time.Duration
	logger   *log.Logger
	onRedial func()
}

type Option func(*Subscriber) *Subscriber

// WithPath subscribes to another path than NewEventsPath.
func WithPath(path string) Option {
	return func(s *Subscriber) *Subscriber {
		s.path = path
		return s
	}
}

// WithRedialInterval sets the pause before reconnecting a broken feed.
func WithRedialInterval(d time.Duration) Option {
	return func(s *Subscriber) *Subscriber {
		s.redial = d
		return s
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Subscriber) *Subscriber {
		s.logger = logger
		return s
	}
}

// WithOnRedial registers a hook called each time a broken connection
// is going to be redialed.
func WithOnRedial(hook func()) Option {
	return func(s *Subscriber) *Subscriber {
		s.onRedial = hook
		return s
	}
}

// NewSubscriber builds a Subscriber for the websocket endpoint at
// wsURL, like "ws://localhost:8000/ws".
func NewSubscriber(wsURL string, token string, options ...Option) *Subscriber {
	s := &Subscriber{
		url:    wsURL,
		token:  token,
		path:   NewEventsPath,
		dialer: websocket.DefaultDialer,
		redial: defaultRedialInterval,
		logger: log.Default(),
	}
	for _, option := range options {
		s = option(s)
	}
	return s
}

// Watch consumes the feed until ctx is done, sending each new event on
// the returned channel. The channel is closed when ctx finishes.
//
// Events are delivered in arrival order; the channel is unbuffered so
// the consumer paces the feed.
func (s *Subscriber) Watch(ctx context.Context) <-chan apievents.Event {
	out := make(chan apievents.Event)

	go func() {
		defer close(out)

		_, err := loop.Start(ctx, 0, func(ctx context.Context, failures int) (int, loop.Next) {
			if err := s.consume(ctx, out); err != nil {
				if ctx.Err() != nil {
					return failures, loop.Break(nil)
				}
				s.logger.Printf("event feed broken (redial in %s): %s", s.redial, err)
				if s.onRedial != nil {
					s.onRedial()
				}
				return failures + 1, loop.Continue(s.redial)
			}
			return 0, loop.Continue(s.redial)
		})
		if err != nil && ctx.Err() == nil {
			s.logger.Printf("event feed stopped: %s", err)
		}
	}()

	return out
}

// consume runs one connection: dial, handshake, then read until error
// or ctx done.
func (s *Subscriber) consume(ctx context.Context, out chan<- apievents.Event) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return xerrors.Wrap(err)
	}
	defer conn.Close()

	// unblock reads when ctx is canceled
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	if err := s.handshake(conn); err != nil {
		return err
	}

	for {
		var frame message
		if err := conn.ReadJSON(&frame); err != nil {
			return xerrors.Wrap(err)
		}

		switch frame.Type {
		case "ping":
			if err := conn.WriteJSON(message{Type: "ping", ID: frame.ID}); err != nil {
				return xerrors.Wrap(err)
			}
		case "pub":
			if frame.Path != s.path {
				continue
			}
			var event apievents.Event
			if err := json.Unmarshal(frame.Message, &event); err != nil {
				s.logger.Printf("undecodable event on feed, skipped: %s", err)
				continue
			}
			select {
			case out <- event:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (s *Subscriber) handshake(conn *websocket.Conn) error {
	hello := message{
		Type:    "hello",
		ID:      1,
		Version: "2",
	}
	if s.token != "" {
		hello.Auth = &auth{Headers: map[string]string{
			"authorization": "Bearer " + s.token,
		}}
	}
	if err := conn.WriteJSON(hello); err != nil {
		return xerrors.Wrap(err)
	}
	if err := expectAck(conn, "hello"); err != nil {
		return err
	}

	if err := conn.WriteJSON(message{Type: "sub", ID: 2, Path: s.path}); err != nil {
		return xerrors.Wrap(err)
	}
	return expectAck(conn, "sub")
}

func expectAck(conn *websocket.Conn, requested string) error {
	var ack message
	if err := conn.ReadJSON(&ack); err != nil {
		return xerrors.Wrap(err)
	}
	if ack.Type != requested {
		return xerrors.New(fmt.Sprintf("feed: unexpected answer to %s: %s", requested, ack.Type))
	}
	if ack.StatusCode != 0 && (ack.StatusCode < 200 || 300 <= ack.StatusCode) {
		return xerrors.New(fmt.Sprintf("feed: %s refused (status code = %d)", requested, ack.StatusCode))
	}
	return nil
}
