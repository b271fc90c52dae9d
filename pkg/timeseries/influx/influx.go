// Package influx reads sensor samples from an InfluxDB 2.x bucket.
package influx

import (
	"context"
	"fmt"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/oceandatatools/sealog-relay/pkg/timeseries"
)

type Backend struct {
	client   influxdb2.Client
	query    api.QueryAPI
	bucket   string
	lookback time.Duration
}

var _ timeseries.Backend = &Backend{}

type Option func(*Backend) *Backend

// WithLookback bounds the search window behind the event timestamp.
func WithLookback(d time.Duration) Option {
	return func(b *Backend) *Backend {
		b.lookback = d
		return b
	}
}

func New(url string, token string, org string, bucket string, options ...Option) *Backend {
	client := influxdb2.NewClient(url, token)
	b := &Backend{
		client:   client,
		query:    client.QueryAPI(org),
		bucket:   bucket,
		lookback: timeseries.DefaultLookback,
	}
	for _, option := range options {
		b = option(b)
	}
	return b
}

func (b *Backend) FindNearestSample(
	ctx context.Context, measurement string, fields []string, atOrBefore time.Time,
) (timeseries.Sample, bool, error) {
	if len(fields) == 0 {
		return timeseries.Sample{}, false, nil
	}

	flux := nearestSampleFlux(
		b.bucket, measurement, fields,
		atOrBefore.Add(-b.lookback), atOrBefore.Add(time.Nanosecond),
	)

	result, err := b.query.Query(ctx, flux)
	if err != nil {
		return timeseries.Sample{}, false, fmt.Errorf(
			"%w: influx query: %s", timeseries.ErrBackendUnavailable, err,
		)
	}

	sample := timeseries.Sample{Fields: map[string]any{}}
	for result.Next() {
		record := result.Record()
		value, ok := normalize(record.Value())
		if !ok {
			continue
		}
		sample.Fields[record.Field()] = value
		if record.Time().After(sample.At) {
			sample.At = record.Time()
		}
	}
	if err := result.Err(); err != nil {
		return timeseries.Sample{}, false, fmt.Errorf(
			"%w: influx result: %s", timeseries.ErrBackendUnavailable, err,
		)
	}

	if len(sample.Fields) == 0 {
		return timeseries.Sample{}, false, nil
	}
	return sample, true, nil
}

func (b *Backend) Close() {
	b.client.Close()
}

// nearestSampleFlux renders the query: the last() point of each wanted
// field within (start, stop]. `stop` in flux range is exclusive, so the
// caller passes atOrBefore + 1ns to keep at-or-before inclusive.
func nearestSampleFlux(bucket string, measurement string, fields []string, start time.Time, stop time.Time) string {
	predicates := make([]string, 0, len(fields))
	for _, field := range fields {
		predicates = append(predicates, fmt.Sprintf(`r._field == %s`, fluxString(field)))
	}

	return fmt.Sprintf(
		`from(bucket: %s)
  |> range(start: %s, stop: %s)
  |> filter(fn: (r) => r._measurement == %s)
  |> filter(fn: (r) => %s)
  |> last()`,
		fluxString(bucket),
		start.UTC().Format(time.RFC3339Nano),
		stop.UTC().Format(time.RFC3339Nano),
		fluxString(measurement),
		strings.Join(predicates, " or "),
	)
}

func fluxString(s string) string {
	escaped := strings.ReplaceAll(s, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}

// normalize maps influx column values onto the two value kinds the
// builders understand: float64 and string.
func normalize(value any) (any, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		return v, true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	}
	return nil, false
}
