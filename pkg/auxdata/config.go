package auxdata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = fmt.Errorf("auxdata: invalid source config")

// MeasurementPolicy declares what to do when a source names several
// query_measurements.
type MeasurementPolicy string

const (
	// PolicyFirst tries measurements in declared order and takes the
	// first one yielding a sample.
	PolicyFirst MeasurementPolicy = "first"

	// PolicyMerge unions fields across all measurements yielding
	// samples; on conflicts, an earlier-declared measurement wins.
	PolicyMerge MeasurementPolicy = "merge"
)

// FieldMapping pairs a raw backend field with its rule. Declared order
// in the config is evaluation order, so it is kept.
type FieldMapping struct {
	RawField string
	Rule     FieldRule
}

// SourceConfig declares one physical data source: which measurements
// to query and how to map the raw fields into an aux-data record.
//
// A SourceConfig is loaded once at startup and never changes afterwards.
type SourceConfig struct {
	DataSource        string
	QueryMeasurements []string
	Policy            MeasurementPolicy
	Lookup            []FieldMapping
}

// RawFields lists the backend fields to query, in declared order.
func (c *SourceConfig) RawFields() []string {
	fields := make([]string, 0, len(c.Lookup))
	for _, m := range c.Lookup {
		fields = append(fields, m.RawField)
	}
	return fields
}

func (c *SourceConfig) UnmarshalYAML(node *yaml.Node) error {
	raw := struct {
		DataSource        string     `yaml:"data_source"`
		QueryMeasurements []string   `yaml:"query_measurements"`
		Policy            string     `yaml:"on_multiple_measurements"`
		AuxRecordLookup   yaml.Node  `yaml:"aux_record_lookup"`
	}{}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.DataSource == "" {
		return fmt.Errorf("%w: data_source is empty", ErrInvalidConfig)
	}
	if len(raw.QueryMeasurements) == 0 {
		return fmt.Errorf("%w: %s: query_measurements is empty", ErrInvalidConfig, raw.DataSource)
	}

	policy := PolicyFirst
	switch MeasurementPolicy(raw.Policy) {
	case "":
	case PolicyFirst:
	case PolicyMerge:
		policy = PolicyMerge
	default:
		return fmt.Errorf(
			"%w: %s: on_multiple_measurements must be first or merge, got %q",
			ErrInvalidConfig, raw.DataSource, raw.Policy,
		)
	}

	lookup, err := decodeLookup(&raw.AuxRecordLookup)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, raw.DataSource, err)
	}
	if len(lookup) == 0 {
		return fmt.Errorf("%w: %s: aux_record_lookup is empty", ErrInvalidConfig, raw.DataSource)
	}

	c.DataSource = raw.DataSource
	c.QueryMeasurements = raw.QueryMeasurements
	c.Policy = policy
	c.Lookup = lookup
	return nil
}

// decodeLookup reads aux_record_lookup keeping the document's key order,
// which a plain map decode would lose.
func decodeLookup(node *yaml.Node) ([]FieldMapping, error) {
	if node == nil || node.IsZero() {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("aux_record_lookup is not a mapping")
	}

	mappings := make([]FieldMapping, 0, len(node.Content)/2)
	seen := map[string]bool{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var rawField string
		if err := node.Content[i].Decode(&rawField); err != nil {
			return nil, err
		}
		if seen[rawField] {
			return nil, fmt.Errorf("duplicated field %s", rawField)
		}
		seen[rawField] = true

		rule := FieldRule{}
		if err := node.Content[i+1].Decode(&rule); err != nil {
			return nil, err
		}
		if err := rule.validate(rawField); err != nil {
			return nil, err
		}
		mappings = append(mappings, FieldMapping{RawField: rawField, Rule: rule})
	}
	return mappings, nil
}

// LoadSourceConfigs reads an array of SourceConfig from a YAML file.
//
// Malformed config is fatal to the caller: there is no partial load.
func LoadSourceConfigs(filepath string) ([]SourceConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return UnmarshalSourceConfigs(content)
}

func UnmarshalSourceConfigs(content []byte) ([]SourceConfig, error) {
	var configs []SourceConfig
	if err := yaml.Unmarshal(content, &configs); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for _, c := range configs {
		if seen[c.DataSource] {
			return nil, fmt.Errorf("%w: duplicated data_source %s", ErrInvalidConfig, c.DataSource)
		}
		seen[c.DataSource] = true
	}
	return configs, nil
}
