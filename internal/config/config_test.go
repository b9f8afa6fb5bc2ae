package config

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "text format", cfg: Config{Format: FormatText, MaxDepth: 100}},
		{name: "unified format", cfg: Config{Format: FormatUnified, MaxDepth: 100}},
		{name: "edits format", cfg: Config{Format: FormatEdits, MaxDepth: 100}},
		{name: "unknown format", cfg: Config{Format: "xml", MaxDepth: 100}, wantErr: true},
		{name: "empty format", cfg: Config{Format: "", MaxDepth: 100}, wantErr: true},
		{name: "zero depth", cfg: Config{Format: FormatText, MaxDepth: 0}, wantErr: true},
		{name: "negative depth", cfg: Config{Format: FormatText, MaxDepth: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateBadFormatError(t *testing.T) {
	t.Parallel()

	cfg := Config{Format: "xml", MaxDepth: 1}

	if err := cfg.Validate(); !errors.Is(err, ErrBadFormat) {
		t.Errorf("Validate() error = %v, want ErrBadFormat", err)
	}
}
