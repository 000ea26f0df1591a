package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML configuration. Zero values mean "not set".
type File struct {
	Delay     time.Duration     `yaml:"delay"`
	Timeout   time.Duration     `yaml:"timeout"`
	Proxy     string            `yaml:"proxy"`
	RateLimit float64           `yaml:"rate_limit"`
	Retries   int               `yaml:"retries"`
	Headers   map[string]string `yaml:"headers"`
	Payloads  []string          `yaml:"payloads"`
	Output    string            `yaml:"output"`
	Session   string            `yaml:"session"`
	Listen    string            `yaml:"listen"`
	Verbose   int               `yaml:"verbose"`
}

// LoadFile reads and decodes a YAML configuration file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if f.Delay < 0 || f.Timeout < 0 {
		return nil, fmt.Errorf("parse config: negative duration")
	}
	if f.RateLimit < 0 {
		return nil, fmt.Errorf("parse config: negative rate_limit")
	}
	return &f, nil
}
