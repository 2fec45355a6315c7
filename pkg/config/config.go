// Package config reads the optional yamine configuration file. Values from
// the file override the built-in defaults and are in turn overridden by
// command line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"yamine/pkg/combine"
	"yamine/pkg/encoder"
	"yamine/pkg/loader"

	"gopkg.in/yaml.v3"
)

// DefaultPath is looked up in the working directory when --config is not given.
const DefaultPath = ".yamine.yaml"

// File represents the configuration file. Pointer fields distinguish an
// explicit false or zero from an absent key.
type File struct {
	Depth       *int     `yaml:"depth"`
	Output      string   `yaml:"output"`
	Format      string   `yaml:"format"`
	Mode        string   `yaml:"mode"`
	Workers     *int     `yaml:"workers"`
	Split       string   `yaml:"split"`
	CoerceKeys  *bool    `yaml:"coerce_keys"`
	Hidden      *bool    `yaml:"hidden"`
	NoIgnore    *bool    `yaml:"no_ignore"`
	IgnoreFiles []string `yaml:"ignore_files"`
	Ignore      []string `yaml:"ignore"`
	FailOnError *bool    `yaml:"fail_on_error"`
}

// Load reads and validates the configuration file at path. A missing file is
// not an error unless required is set; Load then returns nil.
func Load(path string, required bool) (*File, error) {
	path = os.ExpandEnv(path)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()

	var cfg File
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.expandEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *File) expandEnv() {
	c.Output = os.ExpandEnv(c.Output)
	for i := range c.IgnoreFiles {
		c.IgnoreFiles[i] = os.ExpandEnv(c.IgnoreFiles[i])
	}
}

// Validate checks the configuration for errors.
func (c *File) Validate() error {
	if c.Depth != nil && *c.Depth < 0 {
		return fmt.Errorf("depth must not be negative: %d", *c.Depth)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must not be negative: %d", *c.Workers)
	}
	if c.Format != "" {
		if _, err := encoder.ParseEncoding(c.Format); err != nil {
			return fmt.Errorf("format: %w", err)
		}
	}
	if c.Mode != "" {
		if _, err := combine.ParseMode(c.Mode); err != nil {
			return fmt.Errorf("mode: %w", err)
		}
	}
	if c.Split != "" {
		if _, err := loader.ParseSplit(c.Split); err != nil {
			return fmt.Errorf("split: %w", err)
		}
	}
	return nil
}

// Apply overrides args with every value present in the file.
func (c *File) Apply(args *combine.Arguments) error {
	if c == nil {
		return nil
	}
	if c.Depth != nil {
		args.Depth = *c.Depth
	}
	if c.Output != "" {
		args.Output = c.Output
	}
	if c.Format != "" {
		enc, err := encoder.ParseEncoding(c.Format)
		if err != nil {
			return err
		}
		args.Encoding = enc
	}
	if c.Mode != "" {
		mode, err := combine.ParseMode(c.Mode)
		if err != nil {
			return err
		}
		args.Mode = mode
	}
	if c.Workers != nil {
		args.Workers = *c.Workers
	}
	if c.Split != "" {
		split, err := loader.ParseSplit(c.Split)
		if err != nil {
			return err
		}
		args.Split = split
	}
	if c.CoerceKeys != nil {
		args.CoerceKeys = *c.CoerceKeys
	}
	if c.Hidden != nil {
		args.SkipHidden = !*c.Hidden
	}
	if c.IgnoreFiles != nil {
		args.IgnoreFiles = append([]string(nil), c.IgnoreFiles...)
	}
	if c.NoIgnore != nil && *c.NoIgnore {
		args.IgnoreFiles = nil
	}
	args.IgnorePatterns = append(args.IgnorePatterns, c.Ignore...)
	if c.FailOnError != nil {
		args.FailOnError = *c.FailOnError
	}
	return nil
}
