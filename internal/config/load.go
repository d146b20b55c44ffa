package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. TERMSESSION_SHELL.
const EnvPrefix = "TERMSESSION_"

// Load reads the file at path over the defaults and applies environment
// overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := Decode(path, data, &cfg); err != nil {
				return Config{}, err
			}
		}
	}

	ApplyEnv(&cfg, os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses data into cfg, picking the format from the extension of
// path. Keys absent from data leave cfg unchanged.
func Decode(path string, data []byte, cfg *Config) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(cfg)
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

// ApplyEnv overrides cfg from environment variables read through lookup.
// Unparseable values are ignored.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvPrefix + "SHELL"); ok && v != "" {
		cfg.Shell = v
	}
	if v, ok := lookup(EnvPrefix + "WORKING_DIRECTORY"); ok && v != "" {
		cfg.WorkingDirectory = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup(EnvPrefix + "SCROLLBACK"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scrollback = n
		}
	}
	if v, ok := lookup(EnvPrefix + "ALTERNATE_SCROLL"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.AlternateScroll = b
		}
	}
	if v, ok := lookup(EnvPrefix + "BLINKING"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Blinking = b
		}
	}
}
