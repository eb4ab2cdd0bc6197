package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Exclude    []string `yaml:"exclude"`
	MinSize    int64    `yaml:"min_size"`
	Algorithm  string   `yaml:"algorithm"`
	Workers    int      `yaml:"workers"`
	ReportFile string   `yaml:"report_file"`
}

func DefaultConfig() *Config {
	return &Config{
		Exclude: []string{
			".git/",
			".svn/",
			"node_modules/",
			"__pycache__/",
			"*.swp",
			"Thumbs.db",
		},
		MinSize:   0,
		Algorithm: "fast",
		Workers:   0, // 0 means one worker per CPU
	}
}

// LoadConfig reads a YAML config file. A missing file is not an error; the
// defaults apply.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = "fast"
	}

	return cfg, nil
}
