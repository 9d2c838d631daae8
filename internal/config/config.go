// Package config loads the rewrite configuration from HCL.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/hashicorp-forge/uuid-redirector/pkg/entityid"
	"github.com/hashicorp-forge/uuid-redirector/pkg/rewrite"
)

// DefaultLogLevel is used when neither the file nor a flag sets one.
const DefaultLogLevel = "info"

var extensionPattern = regexp.MustCompile(`^\.[A-Za-z0-9_-]+$`)

// Config is the run configuration. Every field may be set from the
// command line instead; flags win.
type Config struct {
	// Root is the world directory to rewrite.
	Root string `hcl:"root,optional"`

	// Source is the identifier being replaced.
	Source string `hcl:"source,optional"`

	// Target is the replacement identifier.
	Target string `hcl:"target,optional"`

	LogLevel string `hcl:"log_level,optional"`

	// Report is an optional path for the YAML run report.
	Report string `hcl:"report,optional"`

	// Extensions replaces the stock extension table when present.
	Extensions *ExtensionsConfig `hcl:"extensions,block"`
}

// ExtensionsConfig lists the extensions handled by each processor.
type ExtensionsConfig struct {
	Text   []string `hcl:"text,optional"`
	Tag    []string `hcl:"tag,optional"`
	Region []string `hcl:"region,optional"`
}

// New returns a configuration with defaults set.
func New() *Config {
	return &Config{LogLevel: DefaultLogLevel}
}

// Load reads an HCL configuration file. The result is not validated
// because flags may still fill in missing fields.
func Load(filename string) (*Config, error) {
	if filename == "" {
		return nil, fmt.Errorf("configuration file path is required")
	}

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", filename)
	}

	cfg := New()
	if err := hclsimple.DecodeFile(filename, nil, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	return cfg, nil
}

// Validate checks that the configuration describes a runnable job.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.Source, validation.Required, validation.By(isEntityID)),
		validation.Field(&c.Target, validation.Required, validation.By(isEntityID)),
		validation.Field(&c.LogLevel,
			validation.In("trace", "debug", "info", "warn", "error")),
		validation.Field(&c.Extensions),
	)
}

// Validate checks the extension lists.
func (e *ExtensionsConfig) Validate() error {
	if err := validation.ValidateStruct(e,
		validation.Field(&e.Text, validation.Each(validation.Match(extensionPattern))),
		validation.Field(&e.Tag, validation.Each(validation.Match(extensionPattern))),
		validation.Field(&e.Region, validation.Each(validation.Match(extensionPattern))),
	); err != nil {
		return err
	}

	seen := map[string]bool{}
	for _, list := range [][]string{e.Text, e.Tag, e.Region} {
		for _, ext := range list {
			ext = strings.ToLower(ext)
			if seen[ext] {
				return fmt.Errorf("extension %q is assigned to more than one class", ext)
			}
			seen[ext] = true
		}
	}
	return nil
}

// Classifier returns the extension table for the run.
func (c *Config) Classifier() rewrite.Classifier {
	if c.Extensions == nil {
		return rewrite.DefaultClassifier()
	}
	cl := rewrite.Classifier{}
	add := func(exts []string, class rewrite.Class) {
		for _, ext := range exts {
			cl[strings.ToLower(ext)] = class
		}
	}
	add(c.Extensions.Text, rewrite.ClassText)
	add(c.Extensions.Tag, rewrite.ClassTag)
	add(c.Extensions.Region, rewrite.ClassRegion)
	return cl
}

func isEntityID(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	_, err := entityid.Normalize(s)
	var fe *entityid.FormatError
	if errors.As(err, &fe) {
		return validation.NewError("validation_entity_id", fe.Reason)
	}
	return err
}
