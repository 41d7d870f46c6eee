package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
//
// Frequency holds whatever the file carried: a string in SI notation
// ("7.1M"), an integer (7000000) or a float (7.1e6). Use FrequencyString to
// normalize it.
type FileConfig struct {
	Host           string `toml:"host"`
	Port           int    `toml:"port"`
	Frequency      any    `toml:"frequency"`
	Output         string `toml:"output"`
	Duration       string `toml:"duration"`
	ConnectTimeout string `toml:"connect_timeout"`
	BufferSize     int    `toml:"buffer_size"`
	MetricsAddr    string `toml:"metrics_addr"`
	Watch          *bool  `toml:"watch"`
	Record         *bool  `toml:"record"`
	LogLevel       string `toml:"log_level"`
}

// FrequencyString returns the file frequency in a form ParseFrequency
// accepts. It returns "" when the key is absent.
func (fc FileConfig) FrequencyString() (string, error) {
	switch v := fc.Frequency.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("frequency: unsupported value %v (%T)", v, v)
	}
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// LoadFrequency reads only the frequency from the config file at path.
func LoadFrequency(path string) (int64, error) {
	fc, err := LoadFileConfig(path)
	if err != nil {
		return 0, err
	}
	freq, err := fc.FrequencyString()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if freq == "" {
		return 0, fmt.Errorf("%s: frequency not set", path)
	}
	return ParseFrequency(freq)
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.netsdr/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".netsdr", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("host", fc.Host, &cfg.Host)
	s.setString("output", fc.Output, &cfg.Output)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setInt("port", fc.Port, &cfg.Port)
	s.setInt("buffer-size", fc.BufferSize, &cfg.BufferSize)

	freq, err := fc.FrequencyString()
	if err != nil {
		return fmt.Errorf("parse freq: %w", err)
	}
	if err := s.setFrequency("freq", freq, &cfg.Frequency); err != nil {
		return err
	}
	if err := s.setDuration("duration", fc.Duration, &cfg.Duration); err != nil {
		return err
	}
	if err := s.setDuration("connect-timeout", fc.ConnectTimeout, &cfg.ConnectTimeout); err != nil {
		return err
	}

	s.setBool("watch", fc.Watch, &cfg.Watch)
	s.setBool("record", fc.Record, &cfg.Record)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
