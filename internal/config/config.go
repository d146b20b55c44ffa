package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/termsession/internal/theme"
)

// Config holds the settings of a terminal session.
type Config struct {
	// Shell is the program to run. Empty selects $SHELL, then /bin/sh.
	Shell string `toml:"shell" yaml:"shell"`

	// Args are passed to Shell.
	Args []string `toml:"args" yaml:"args"`

	// WorkingDirectory is where Shell starts. Empty selects the home directory.
	WorkingDirectory string `toml:"working_directory" yaml:"working_directory"`

	// Env is added to the inherited environment.
	Env map[string]string `toml:"env" yaml:"env"`

	// Scrollback is the number of history lines kept.
	Scrollback int `toml:"scrollback" yaml:"scrollback"`

	// Blinking starts the session with a blinking cursor.
	Blinking bool `toml:"blinking" yaml:"blinking"`

	// AlternateScroll turns wheel events into arrow keys on the
	// alternate screen.
	AlternateScroll bool `toml:"alternate_scroll" yaml:"alternate_scroll"`

	// AltIsMeta sends Alt+key as ESC followed by the key.
	AltIsMeta bool `toml:"alt_is_meta" yaml:"alt_is_meta"`

	// CellWidth and LineHeight are the cell size in pixels.
	CellWidth  float64 `toml:"cell_width" yaml:"cell_width"`
	LineHeight float64 `toml:"line_height" yaml:"line_height"`

	// LogLevel is one of trace, debug, info, warn or error.
	LogLevel string `toml:"log_level" yaml:"log_level"`

	// Theme overrides the default colors.
	Theme theme.Colors `toml:"theme" yaml:"theme"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Scrollback:      10000,
		Blinking:        false,
		AlternateScroll: true,
		AltIsMeta:       true,
		CellWidth:       1,
		LineHeight:      1,
		LogLevel:        "info",
	}
}

var logLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that every setting is in range.
func (c Config) Validate() error {
	if c.Scrollback < 0 {
		return fmt.Errorf("%w: scrollback %d is negative", ErrInvalidValue, c.Scrollback)
	}
	if c.CellWidth <= 0 || c.LineHeight <= 0 {
		return fmt.Errorf("%w: cell size %vx%v must be positive", ErrInvalidValue, c.CellWidth, c.LineHeight)
	}
	if !logLevels[c.LogLevel] {
		return fmt.Errorf("%w: log level %q", ErrInvalidValue, c.LogLevel)
	}
	if _, err := theme.New(c.Theme); err != nil {
		return fmt.Errorf("%w: theme: %v", ErrInvalidValue, err)
	}
	return nil
}

// ResolveWorkingDirectory returns WorkingDirectory with a leading "~"
// expanded, or the home directory when it is empty.
func (c Config) ResolveWorkingDirectory() string {
	dir := c.WorkingDirectory
	home, err := os.UserHomeDir()
	if err != nil {
		return dir
	}
	switch {
	case dir == "":
		return home
	case dir == "~":
		return home
	case len(dir) > 1 && dir[0] == '~' && dir[1] == '/':
		return filepath.Join(home, dir[2:])
	}
	return dir
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "termsession", "config.toml")
}
