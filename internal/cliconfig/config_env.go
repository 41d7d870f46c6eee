package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (NETSDR_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("host", os.Getenv("NETSDR_HOST"), &cfg.Host)
	s.setString("output", os.Getenv("NETSDR_OUTPUT"), &cfg.Output)
	s.setString("metrics-addr", os.Getenv("NETSDR_METRICS_ADDR"), &cfg.MetricsAddr)
	s.setString("log-level", os.Getenv("NETSDR_LOG_LEVEL"), &cfg.LogLevel)

	if err := s.setIntFromString("port", os.Getenv("NETSDR_PORT"), &cfg.Port); err != nil {
		return err
	}
	if err := s.setIntFromString("buffer-size", os.Getenv("NETSDR_BUFFER_SIZE"), &cfg.BufferSize); err != nil {
		return err
	}
	if err := s.setFrequency("freq", os.Getenv("NETSDR_FREQ"), &cfg.Frequency); err != nil {
		return err
	}
	if err := s.setDuration("duration", os.Getenv("NETSDR_DURATION"), &cfg.Duration); err != nil {
		return err
	}
	if err := s.setDuration("connect-timeout", os.Getenv("NETSDR_CONNECT_TIMEOUT"), &cfg.ConnectTimeout); err != nil {
		return err
	}

	s.setBoolFromString("watch", os.Getenv("NETSDR_WATCH"), &cfg.Watch)
	s.setBoolFromString("record", os.Getenv("NETSDR_RECORD"), &cfg.Record)

	return nil
}
