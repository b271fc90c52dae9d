// Package monitor exposes the relay's liveness and counters over HTTP.
package monitor

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// Stats counts what the relay has done since start. All methods are
// safe for concurrent use.
type Stats struct {
	startedAt time.Time

	eventsSeen     atomic.Int64
	recordsPosted  atomic.Int64
	buildsSkipped  atomic.Int64
	backendErrors  atomic.Int64
	feedReconnects atomic.Int64
}

func NewStats() *Stats {
	return &Stats{startedAt: time.Now()}
}

func (s *Stats) EventSeen()     { s.eventsSeen.Add(1) }
func (s *Stats) RecordPosted()  { s.recordsPosted.Add(1) }
func (s *Stats) BuildSkipped()  { s.buildsSkipped.Add(1) }
func (s *Stats) BackendError()  { s.backendErrors.Add(1) }
func (s *Stats) FeedReconnect() { s.feedReconnects.Add(1) }

type Snapshot struct {
	UptimeSeconds  int64 `json:"uptime_seconds"`
	EventsSeen     int64 `json:"events_seen"`
	RecordsPosted  int64 `json:"records_posted"`
	BuildsSkipped  int64 `json:"builds_skipped"`
	BackendErrors  int64 `json:"backend_errors"`
	FeedReconnects int64 `json:"feed_reconnects"`
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		UptimeSeconds:  int64(time.Since(s.startedAt).Seconds()),
		EventsSeen:     s.eventsSeen.Load(),
		RecordsPosted:  s.recordsPosted.Load(),
		BuildsSkipped:  s.buildsSkipped.Load(),
		BackendErrors:  s.backendErrors.Load(),
		FeedReconnects: s.feedReconnects.Load(),
	}
}

// BuildServer wires /healthz and /stats on a new echo instance. The
// caller starts and shuts it down.
func BuildServer(stats *Stats, loglevel string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	switch strings.ToLower(loglevel) {
	case "debug":
		e.Logger.SetLevel(log.DEBUG)
	case "info":
		e.Logger.SetLevel(log.INFO)
	case "warn", "":
		e.Logger.SetLevel(log.WARN)
	case "error":
		e.Logger.SetLevel(log.ERROR)
	case "off":
		e.Logger.SetLevel(log.OFF)
	default:
		e.Logger.SetLevel(log.WARN)
		e.Logger.Warnf("unknown loglevel: %s . fall-backed to warn", loglevel)
	}

	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}

	e.GET("/healthz", HealthzHandler())
	e.GET("/stats", StatsHandler(stats))

	return e
}

func HealthzHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}

func StatsHandler(stats *Stats) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, stats.Snapshot())
	}
}
