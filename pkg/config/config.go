// Package config loads the openact tool configuration: logging preferences
// and rules-file settings, kept separate from the rules themselves.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/goccy/go-yaml"
	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/openact/openact/pkg/rule"
	"github.com/openact/openact/pkg/schema"
)

//go:generate go run ../../internal/schemagen -o config.v1beta1.json

var (
	//go:embed config.v1beta1.json
	schemaJSON []byte

	// DefaultValidator validates configuration files against the JSON schema.
	DefaultValidator = schema.MustNewValidator("config.v1beta1.json", schemaJSON)
)

const (
	// APIVersion is the configuration API version written by this release.
	APIVersion = "openact.dev/v1beta1"
	// KindConfiguration is the only recognized configuration kind.
	KindConfiguration = "Configuration"
)

type Config struct {
	// Log configures log output.
	Log *LogConfig `json:"log,omitempty" jsonschema:"title=Logging"`
	// Rules configures rules-file loading.
	Rules *RulesConfig `json:"rules,omitempty" jsonschema:"title=Rules"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion,omitempty" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind,omitempty" jsonschema:"title=Kind"`
}

type LogConfig struct {
	// Level is the minimum level to log.
	Level string `json:"level,omitempty" jsonschema:"title=Level,enum=error,enum=warn,enum=info,enum=debug"`
	// Format selects the log output format.
	Format string `json:"format,omitempty" jsonschema:"title=Format,enum=text,enum=logfmt,enum=json"`
}

type RulesConfig struct {
	// Path overrides the default rules file location.
	Path string `json:"path,omitempty" jsonschema:"title=Path"`
	// CacheSize bounds how many compiled rule sets are kept in memory.
	CacheSize int `json:"cacheSize,omitempty" jsonschema:"title=Cache Size,minimum=1"`
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	if v, ok := jss.Properties.Get("apiVersion"); ok {
		v.Enum = []any{APIVersion}
	}
	if v, ok := jss.Properties.Get("kind"); ok {
		v.Enum = []any{KindConfiguration}
	}
}

// New creates a [Config] with default values.
func New() *Config {
	c := &Config{
		APIVersion: APIVersion,
		Kind:       KindConfiguration,
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil or zero fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Log == nil {
		c.Log = &LogConfig{}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Rules == nil {
		c.Rules = &RulesConfig{}
	}
	if c.Rules.Path == "" {
		c.Rules.Path = rule.DefaultPath()
	}
	if c.Rules.CacheSize == 0 {
		c.Rules.CacheSize = rule.DefaultCacheSize
	}
}

// GetPath returns the configuration file path inside the user config
// directory.
func GetPath() string {
	return filepath.Join(xdg.ConfigHome, "openact", "config.yaml")
}

// Load reads, validates, and decodes the configuration at path. A missing
// file yields the default configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is user configuration.
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return LoadBytes(data)
}

// LoadBytes validates and decodes configuration data.
func LoadBytes(data []byte) (*Config, error) {
	var doc any

	err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := DefaultValidator.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	c := &Config{}
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	c.EnsureDefaults()

	return c, nil
}
