package cliconfig

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host = %v, want 127.0.0.1", cfg.Host)
	}
	if cfg.Port != 50000 {
		t.Errorf("Port = %v, want 50000", cfg.Port)
	}
	if cfg.Frequency != 100000000 {
		t.Errorf("Frequency = %v, want 100000000", cfg.Frequency)
	}
	if cfg.Output != "iq_data.bin" {
		t.Errorf("Output = %v, want iq_data.bin", cfg.Output)
	}
	if cfg.BufferSize != 8<<10 {
		t.Errorf("BufferSize = %v, want 8KiB", cfg.BufferSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func(mut func(*Config)) Config {
		c := DefaultConfig()
		mut(&c)
		return c
	}

	tests := []struct {
		name     string
		config   Config
		wantErr  bool
		wantHost string
	}{
		{
			name:     "defaults",
			config:   DefaultConfig(),
			wantHost: "127.0.0.1",
		},
		{
			name:     "empty host falls back to default",
			config:   valid(func(c *Config) { c.Host = "" }),
			wantHost: "127.0.0.1",
		},
		{
			name:    "port zero",
			config:  valid(func(c *Config) { c.Port = 0 }),
			wantErr: true,
		},
		{
			name:    "port too large",
			config:  valid(func(c *Config) { c.Port = 70000 }),
			wantErr: true,
		},
		{
			name:    "missing output",
			config:  valid(func(c *Config) { c.Output = "" }),
			wantErr: true,
		},
		{
			name:    "zero buffer",
			config:  valid(func(c *Config) { c.BufferSize = 0 }),
			wantErr: true,
		},
		{
			name:    "negative duration",
			config:  valid(func(c *Config) { c.Duration = -time.Second }),
			wantErr: true,
		},
		{
			name:    "unknown log level",
			config:  valid(func(c *Config) { c.LogLevel = "loud" }),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && tt.config.Host != tt.wantHost {
				t.Errorf("Host = %v, want %v", tt.config.Host, tt.wantHost)
			}
		})
	}
}
