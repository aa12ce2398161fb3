package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deepnoodle-ai/anvil/attrs"
)

// BuildConfig mirrors the YAML target description accepted by --target:
//
//	triple: x86_64-unknown-linux-gnu
//	attributes:
//	  - nounwind
//	  - cold
type BuildConfig struct {
	Triple     string   `yaml:"triple"`
	Attributes []string `yaml:"attributes"`
}

// LoadBuildConfig reads and strictly decodes a YAML target description.
// Unknown fields are rejected.
func LoadBuildConfig(path string) (*BuildConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg BuildConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("target config %s: %w", path, err)
	}
	return &cfg, nil
}

// AttrKeys converts the configured attribute names to typed keys.
func (c *BuildConfig) AttrKeys() []attrs.Key {
	keys := make([]attrs.Key, 0, len(c.Attributes))
	for _, name := range c.Attributes {
		keys = append(keys, attrs.Key(name))
	}
	return keys
}
