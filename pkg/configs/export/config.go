// Package export holds the cruise/lowering export tool config.
package export

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oceandatatools/sealog-relay/pkg/configs/connection"
)

var ErrInvalidConfig = fmt.Errorf("export: invalid config")

// WarehouseConfig is the rsync destination for finished exports.
type WarehouseConfig struct {
	// Dest is an rsync destination, like
	// "warehouse@10.0.0.5:/mnt/soi_data01/sealog".
	Dest string `yaml:"dest"`

	// SSHKey is the identity file passed to ssh. Empty = ssh defaults.
	SSHKey string `yaml:"ssh_key"`

	// ExtraArgs are appended to the rsync invocation.
	ExtraArgs []string `yaml:"extra_args"`
}

type Config struct {
	Sealog connection.Server

	// ExportRoot is where the export directory tree is built.
	ExportRoot string

	// Warehouse is nil when transfer is not configured; the export
	// tree is then left on local disk only.
	Warehouse *WarehouseConfig
}

func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	raw := struct {
		Sealog     *connection.Server `yaml:"sealog"`
		ExportRoot string             `yaml:"export_root"`
		Warehouse  *WarehouseConfig   `yaml:"warehouse"`
	}{}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	if raw.Sealog == nil {
		return fmt.Errorf("%w: sealog section is missing", ErrInvalidConfig)
	}
	if raw.ExportRoot == "" {
		return fmt.Errorf("%w: export_root is empty", ErrInvalidConfig)
	}
	if raw.Warehouse != nil && raw.Warehouse.Dest == "" {
		return fmt.Errorf("%w: warehouse.dest is empty", ErrInvalidConfig)
	}

	c.Sealog = *raw.Sealog
	c.ExportRoot = raw.ExportRoot
	c.Warehouse = raw.Warehouse
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
