// Package relay holds the aux-data relay daemon config.
package relay

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oceandatatools/sealog-relay/pkg/auxdata"
	"github.com/oceandatatools/sealog-relay/pkg/configs/connection"
)

var ErrInvalidConfig = fmt.Errorf("relay: invalid config")

type BackendKind string

const (
	BackendInflux    BackendKind = "influx"
	BackendTimescale BackendKind = "timescale"
)

// InfluxConfig locates an InfluxDB 2.x bucket.
type InfluxConfig struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Org    string `yaml:"org"`
	Bucket string `yaml:"bucket"`
}

// TimescaleConfig locates a TimescaleDB/Postgres database.
type TimescaleConfig struct {
	// URL is a postgres connection string.
	URL string `yaml:"url"`
}

// BackendConfig selects and configures the time-series store.
type BackendConfig struct {
	Kind      BackendKind
	Lookback  time.Duration
	Influx    InfluxConfig
	Timescale TimescaleConfig
}

func (b *BackendConfig) UnmarshalYAML(node *yaml.Node) error {
	raw := struct {
		Kind      string           `yaml:"kind"`
		Lookback  string           `yaml:"lookback"`
		Influx    *InfluxConfig    `yaml:"influx"`
		Timescale *TimescaleConfig `yaml:"timescale"`
	}{}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	switch BackendKind(raw.Kind) {
	case BackendInflux:
		if raw.Influx == nil || raw.Influx.URL == "" || raw.Influx.Bucket == "" {
			return fmt.Errorf("%w: influx backend needs url and bucket", ErrInvalidConfig)
		}
		b.Influx = *raw.Influx
	case BackendTimescale:
		if raw.Timescale == nil || raw.Timescale.URL == "" {
			return fmt.Errorf("%w: timescale backend needs url", ErrInvalidConfig)
		}
		b.Timescale = *raw.Timescale
	default:
		return fmt.Errorf(
			"%w: backend kind must be influx or timescale, got %q", ErrInvalidConfig, raw.Kind,
		)
	}
	b.Kind = BackendKind(raw.Kind)

	if raw.Lookback != "" {
		d, err := time.ParseDuration(raw.Lookback)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: bad lookback %q", ErrInvalidConfig, raw.Lookback)
		}
		b.Lookback = d
	}
	return nil
}

// MonitorConfig configures the daemon's status HTTP endpoint.
type MonitorConfig struct {
	// Port of the monitor server. 0 disables it.
	Port int `yaml:"port"`
}

type Config struct {
	Sealog      connection.Server
	Backend     BackendConfig
	Monitor     MonitorConfig
	DataSources []auxdata.SourceConfig
}

func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	raw := struct {
		Sealog          *connection.Server     `yaml:"sealog"`
		Backend         *BackendConfig         `yaml:"backend"`
		Monitor         MonitorConfig          `yaml:"monitor"`
		DataSources     []auxdata.SourceConfig `yaml:"data_sources"`
		DataSourcesFile string                 `yaml:"data_sources_file"`
	}{}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.Sealog == nil {
		return fmt.Errorf("%w: sealog section is missing", ErrInvalidConfig)
	}
	if raw.Sealog.Websocket == "" {
		return fmt.Errorf("%w: sealog.websocket is required for the relay", ErrInvalidConfig)
	}
	if raw.Backend == nil {
		return fmt.Errorf("%w: backend section is missing", ErrInvalidConfig)
	}

	switch {
	case len(raw.DataSources) != 0 && raw.DataSourcesFile != "":
		return fmt.Errorf(
			"%w: data_sources and data_sources_file are mutually exclusive", ErrInvalidConfig,
		)
	case len(raw.DataSources) != 0:
		c.DataSources = raw.DataSources
	case raw.DataSourcesFile != "":
		sources, err := auxdata.LoadSourceConfigs(raw.DataSourcesFile)
		if err != nil {
			return fmt.Errorf("%w: data_sources_file: %s", ErrInvalidConfig, err)
		}
		c.DataSources = sources
	default:
		return fmt.Errorf("%w: no data sources are configured", ErrInvalidConfig)
	}

	seen := map[string]bool{}
	for _, src := range c.DataSources {
		if seen[src.DataSource] {
			return fmt.Errorf("%w: duplicated data_source %s", ErrInvalidConfig, src.DataSource)
		}
		seen[src.DataSource] = true
	}

	c.Sealog = *raw.Sealog
	c.Backend = *raw.Backend
	c.Monitor = raw.Monitor
	return nil
}

// LoadConfig reads the relay daemon config from a file.
//
// Malformed config is fatal: the daemon must not start on it.
func LoadConfig(filepath string) (*Config, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(content []byte) (*Config, error) {
	conf := &Config{}
	if err := yaml.Unmarshal(content, conf); err != nil {
		return nil, err
	}
	return conf, nil
}
