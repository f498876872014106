package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// Load returns the defaults overlaid with the file at path (if path is
// not empty) and the process environment. The result is validated.
func Load(path string) (Config, error) {
	return LoadFrom(path, nil)
}

// LoadFrom is Load with an explicit environment. A nil environ reads the
// process environment.
func LoadFrom(path string, environ map[string]string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := decodeTOML(path, data, &cfg); err != nil {
			return Config{}, err
		}
	}

	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decodeTOML decodes data over cfg, rejecting unknown keys.
func decodeTOML(path string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		pe := &ParseError{Path: path, Message: err.Error(), Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return pe
	}
	return nil
}
