// Package asnap holds the ASNAP submitter config.
package asnap

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oceandatatools/sealog-relay/pkg/configs/connection"
)

var ErrInvalidConfig = fmt.Errorf("asnap: invalid config")

const (
	DefaultInterval = 10 * time.Second

	// DefaultStatusVar is the server-side flag gating submission.
	DefaultStatusVar = "asnapStatus"
)

type Config struct {
	Sealog connection.Server

	// Interval between snapshot events.
	Interval time.Duration

	// StatusVar is the custom variable holding "On"/"Off".
	StatusVar string

	// Author recorded on submitted events.
	Author string
}

func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	raw := struct {
		Sealog    *connection.Server `yaml:"sealog"`
		Interval  string             `yaml:"interval"`
		StatusVar string             `yaml:"status_var"`
		Author    string             `yaml:"author"`
	}{}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.Sealog == nil {
		return fmt.Errorf("%w: sealog section is missing", ErrInvalidConfig)
	}

	interval := DefaultInterval
	if raw.Interval != "" {
		d, err := time.ParseDuration(raw.Interval)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: bad interval %q", ErrInvalidConfig, raw.Interval)
		}
		interval = d
	}

	statusVar := raw.StatusVar
	if statusVar == "" {
		statusVar = DefaultStatusVar
	}

	c.Sealog = *raw.Sealog
	c.Interval = interval
	c.StatusVar = statusVar
	c.Author = raw.Author
	return nil
}

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
