// Package config loads treepatch CLI configuration from file, environment,
// and defaults. Field tags use mapstructure for viper unmarshalling.
package config

import (
	"errors"
	"fmt"
)

// Output format names accepted by the patch command.
const (
	FormatText    = "text"
	FormatUnified = "unified"
	FormatEdits   = "edits"
)

// ErrBadFormat indicates an unknown output format name.
var ErrBadFormat = errors.New("unknown output format")

// Config is the top-level configuration struct for treepatch.
type Config struct {
	Format   string `mapstructure:"format"`
	Color    bool   `mapstructure:"color"`
	Trace    bool   `mapstructure:"trace"`
	MaxDepth int    `mapstructure:"max_depth"`
}

// Validate checks field values after unmarshalling.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatText, FormatUnified, FormatEdits:
	default:
		return fmt.Errorf("%w: %q", ErrBadFormat, c.Format)
	}

	if c.MaxDepth <= 0 {
		return errors.New("max_depth must be positive")
	}

	return nil
}
