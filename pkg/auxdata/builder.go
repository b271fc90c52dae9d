// Package auxdata turns domain events into auxiliary-data records.
//
// A Builder holds one SourceConfig. Per event it finds the nearest
// preceding sample in a time-series backend, applies the declared field
// rules, and emits a record, or nothing when the backend has no usable
// data. Field transforms are data, not code: adding a sensor feed is a
// config change.
package auxdata

import (
	"context"

	apiauxdata "github.com/oceandatatools/sealog-relay/pkg/sealog/api/auxdata"
	"github.com/oceandatatools/sealog-relay/pkg/sealog/api/events"
	"github.com/oceandatatools/sealog-relay/pkg/timeseries"
	"github.com/oceandatatools/sealog-relay/pkg/xerrors"
)

type Builder struct {
	src     SourceConfig
	backend timeseries.Backend
}

// NewBuilder builds a Builder over a shared backend. One Builder per
// SourceConfig entry, reused across all events.
func NewBuilder(src SourceConfig, backend timeseries.Backend) *Builder {
	return &Builder{src: src, backend: backend}
}

func (b *Builder) DataSource() string {
	return b.src.DataSource
}

// Build maps one event to zero-or-one aux-data record.
//
// # Returns
//
// - *apiauxdata.AuxData: the record, or nil when no measurement has a
// sample in the event's window or every resolved field is suppressed.
// A nil record with nil error means "no data": the caller must not
// persist anything.
//
// - error: backend failure. The caller logs and skips this
// (event, data source) pair; it does not retry here.
func (b *Builder) Build(ctx context.Context, event events.Event) (*apiauxdata.AuxData, error) {
	working, found, err := b.resolveSample(ctx, event)
	if err != nil {
		return nil, err
	}
	if !found || len(working) == 0 {
		return nil, nil
	}

	b.applyModifiers(working)

	dataArray := make([]apiauxdata.DataItem, 0, len(b.src.Lookup))
	for _, mapping := range b.src.Lookup {
		rule := mapping.Rule
		if rule.NoOutput {
			continue
		}
		value, ok := working[mapping.RawField]
		if !ok {
			continue
		}

		if rule.Round != nil {
			if v, isNum := asFloat(value); isNum {
				value = roundTo(v, *rule.Round)
			}
		}

		name := rule.Name
		if name == "" {
			name = mapping.RawField
		}
		dataArray = append(dataArray, apiauxdata.DataItem{
			Name:  name,
			Value: value,
			UOM:   rule.UOM,
		})
	}

	// A record with zero entries carries no information.
	if len(dataArray) == 0 {
		return nil, nil
	}

	return &apiauxdata.AuxData{
		EventID:    event.ID,
		DataSource: b.src.DataSource,
		DataArray:  dataArray,
	}, nil
}

// resolveSample queries the configured measurements per the declared
// policy and keeps only fields listed in the lookup.
func (b *Builder) resolveSample(ctx context.Context, event events.Event) (map[string]any, bool, error) {
	fields := b.src.RawFields()
	at := event.Timestamp.Time()

	working := map[string]any{}
	found := false
	for _, measurement := range b.src.QueryMeasurements {
		sample, ok, err := b.backend.FindNearestSample(ctx, measurement, fields, at)
		if err != nil {
			return nil, false, xerrors.Wrap(err)
		}
		if !ok {
			continue
		}
		found = true

		for _, mapping := range b.src.Lookup {
			if _, taken := working[mapping.RawField]; taken {
				// an earlier measurement already yielded this field
				continue
			}
			if value, has := sample.Fields[mapping.RawField]; has {
				working[mapping.RawField] = value
			}
		}

		if b.src.Policy == PolicyFirst {
			break
		}
	}
	return working, found, nil
}

// applyModifiers evaluates every field's modify rules in declared
// order. Tests read the current working values, so a rule may observe
// the effect of rules declared before it.
func (b *Builder) applyModifiers(working map[string]any) {
	for _, mapping := range b.src.Lookup {
		value, ok := asFloat(working[mapping.RawField])
		if !ok {
			continue
		}

		for _, modifier := range mapping.Rule.Modify {
			if !holdsAll(modifier.Test, working) {
				continue
			}
			for _, op := range modifier.Operation {
				value = op.Apply(value)
			}
			working[mapping.RawField] = value
		}
	}
}

func holdsAll(conditions []Condition, working map[string]any) bool {
	for _, c := range conditions {
		value, ok := working[c.Field]
		if !ok || !c.Holds(value) {
			return false
		}
	}
	return true
}
