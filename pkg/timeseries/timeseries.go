// Package timeseries defines how builders read sensor samples.
//
// Implementations live in the subpackages influx and timescale.
package timeseries

import (
	"context"
	"errors"
	"time"
)

// DefaultLookback bounds how far behind an event timestamp the
// backends search for a sample, unless configured otherwise.
const DefaultLookback = 60 * time.Second

// ErrBackendUnavailable marks connectivity/query failures of a backend.
//
// Callers log and skip the (event, data source) pair; they do not retry
// within the call.
var ErrBackendUnavailable = errors.New("timeseries: backend unavailable")

// Sample is one row of field values read at a point in time.
//
// Field values are float64 for numeric readings and string otherwise.
type Sample struct {
	At     time.Time
	Fields map[string]any
}

// Backend is a read-only connection to a time-series store.
//
// It is opened once at process start and shared by all builders; it
// owns no per-call mutable state.
type Backend interface {
	// FindNearestSample returns the newest sample at-or-before atOrBefore,
	// restricted to the named fields of the measurement.
	//
	// # Returns
	//
	// - Sample: the found sample. Only requested fields appear in it.
	//
	// - bool: false when the measurement has no sample in range.
	// This is "no data", not an error.
	//
	// - error: connectivity or query failure, wrapping ErrBackendUnavailable
	// where the backend is unreachable.
	FindNearestSample(ctx context.Context, measurement string, fields []string, atOrBefore time.Time) (Sample, bool, error)

	// Close releases the underlying connection.
	Close()
}
