// Package timescale reads sensor samples from TimescaleDB (or plain
// Postgres).
//
// Expected schema: one hypertable per measurement, named after it, with
// a timestamptz column "ts" and one column per raw field.
package timescale

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/oceandatatools/sealog-relay/pkg/timeseries"
	"github.com/oceandatatools/sealog-relay/pkg/xerrors"
)

type Backend struct {
	pool     *pgxpool.Pool
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

func New(ctx context.Context, url string, options ...Option) (*Backend, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, xerrors.Wrap(fmt.Errorf(
			"%w: %s", timeseries.ErrBackendUnavailable, err,
		))
	}

	b := &Backend{pool: pool, lookback: timeseries.DefaultLookback}
	for _, option := range options {
		b = option(b)
	}
	return b, nil
}

func (b *Backend) FindNearestSample(
	ctx context.Context, measurement string, fields []string, atOrBefore time.Time,
) (timeseries.Sample, bool, error) {
	if len(fields) == 0 {
		return timeseries.Sample{}, false, nil
	}

	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		columns = append(columns, quoteIdent(field))
	}

	// identifiers cannot be bound as parameters; they come quoted from
	// the immutable startup config, not from user input.
	query := fmt.Sprintf(
		`SELECT "ts", %s FROM %s WHERE "ts" <= $1 AND "ts" > $2 ORDER BY "ts" DESC LIMIT 1`,
		strings.Join(columns, ", "), quoteIdent(measurement),
	)

	row := b.pool.QueryRow(ctx, query, atOrBefore, atOrBefore.Add(-b.lookback))

	ts := pgtype.Timestamptz{}
	cells := make([]any, 0, len(fields)+1)
	cells = append(cells, &ts)
	for range fields {
		cells = append(cells, new(any))
	}

	if err := row.Scan(cells...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return timeseries.Sample{}, false, nil
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
			// a configured measurement whose hypertable is not created
			// yet simply has no data
			return timeseries.Sample{}, false, nil
		}
		return timeseries.Sample{}, false, fmt.Errorf(
			"%w: timescale query: %s", timeseries.ErrBackendUnavailable, err,
		)
	}

	sample := timeseries.Sample{At: ts.Time, Fields: map[string]any{}}
	for nth, field := range fields {
		value, ok := normalize(*cells[nth+1].(*any))
		if !ok {
			continue
		}
		sample.Fields[field] = value
	}

	if len(sample.Fields) == 0 {
		return timeseries.Sample{}, false, nil
	}
	return sample, true, nil
}

func (b *Backend) Close() {
	b.pool.Close()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// normalize maps column values onto the two value kinds the builders
// understand: float64 and string. NULL cells are dropped.
func normalize(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		return v, true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	case pgtype.Numeric:
		var f float64
		if err := v.AssignTo(&f); err != nil {
			return nil, false
		}
		return f, true
	}
	return nil, false
}
