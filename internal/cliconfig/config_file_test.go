package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true
	falseVal := false

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				Host:       "192.168.1.50",
				Port:       50001,
				Frequency:  "145.8M",
				Duration:   "5m",
				BufferSize: 16384,
				Watch:      &trueVal,
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				Host:       "192.168.1.50",
				Port:       50001,
				Frequency:  145800000,
				Duration:   5 * time.Minute,
				BufferSize: 16384,
				Watch:      true,
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				Host:   "file-host",
				Output: "file.bin",
			},
			changed: map[string]bool{"host": true},
			initial: Config{
				Host:   "flag-host",
				Output: "flag.bin",
			},
			expected: Config{
				Host:   "flag-host", // unchanged because flag was set
				Output: "file.bin",
			},
		},
		{
			name:       "explicit false overrides",
			fileConfig: FileConfig{Record: &falseVal},
			changed:    map[string]bool{},
			initial:    Config{Record: true},
			expected:   Config{Record: false},
		},
		{
			name:       "zero values keep existing",
			fileConfig: FileConfig{},
			changed:    map[string]bool{},
			initial:    DefaultConfig(),
			expected:   DefaultConfig(),
		},
		{
			name:       "invalid duration",
			fileConfig: FileConfig{ConnectTimeout: "soon"},
			changed:    map[string]bool{},
			wantErr:    true,
		},
		{
			name:       "invalid frequency",
			fileConfig: FileConfig{Frequency: "lots"},
			changed:    map[string]bool{},
			wantErr:    true,
		},
		{
			name:       "integer frequency",
			fileConfig: FileConfig{Frequency: int64(7000000)},
			changed:    map[string]bool{},
			initial:    Config{},
			expected:   Config{Frequency: 7000000},
		},
		{
			name:       "float frequency",
			fileConfig: FileConfig{Frequency: 14.2e6},
			changed:    map[string]bool{},
			initial:    Config{},
			expected:   Config{Frequency: 14200000},
		},
		{
			name:       "negative integer frequency",
			fileConfig: FileConfig{Frequency: int64(-5)},
			changed:    map[string]bool{},
			wantErr:    true,
		},
		{
			name:       "unsupported frequency type",
			fileConfig: FileConfig{Frequency: true},
			changed:    map[string]bool{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyFileConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg != tt.expected {
				t.Errorf("ApplyFileConfig() = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.TrimSpace(`
host = "10.1.1.1"
port = 50005
frequency = "7.1M"
output = "capture.bin"
duration = "1m"
record = true
`)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}
	if fc.Host != "10.1.1.1" || fc.Port != 50005 || fc.Frequency != "7.1M" {
		t.Errorf("LoadFileConfig() = %+v", fc)
	}
	if fc.Record == nil || !*fc.Record {
		t.Error("record not parsed")
	}
	if fc.Watch != nil {
		t.Error("watch should be unset")
	}

	hz, err := LoadFrequency(path)
	if err != nil {
		t.Fatalf("LoadFrequency() error = %v", err)
	}
	if hz != 7100000 {
		t.Errorf("LoadFrequency() = %d, want 7100000", hz)
	}
}

func TestLoadFrequency_Forms(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int64
		wantErr bool
	}{
		{name: "si string", content: `frequency = "7.1M"`, want: 7100000},
		{name: "plain string", content: `frequency = "7000000"`, want: 7000000},
		{name: "bare integer", content: `frequency = 7000000`, want: 7000000},
		{name: "integer with separators", content: `frequency = 14_200_000`, want: 14200000},
		{name: "float", content: `frequency = 7.1e6`, want: 7100000},
		{name: "negative integer", content: `frequency = -1`, wantErr: true},
		{name: "boolean", content: `frequency = true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			got, err := LoadFrequency(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadFrequency() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("LoadFrequency() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLoadFileConfig_IntegerFrequency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "host = \"10.1.1.1\"\nfrequency = 7000000\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() error = %v", err)
	}

	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, map[string]bool{}); err != nil {
		t.Fatalf("ApplyFileConfig() error = %v", err)
	}
	if cfg.Frequency != 7000000 {
		t.Errorf("Frequency = %d, want 7000000", cfg.Frequency)
	}
}

func TestLoadFileConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFileConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing file: expected error")
	}

	bad := filepath.Join(dir, "bad.toml")
	os.WriteFile(bad, []byte("host = "), 0o644)
	if _, err := LoadFileConfig(bad); err == nil {
		t.Error("malformed file: expected error")
	}

	nofreq := filepath.Join(dir, "nofreq.toml")
	os.WriteFile(nofreq, []byte(`host = "x"`), 0o644)
	if _, err := LoadFrequency(nofreq); err == nil {
		t.Error("LoadFrequency without frequency: expected error")
	}
}

// Flags beat env, env beats file.
func TestPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	os.WriteFile(path, []byte(`
host = "file-host"
port = 50001
frequency = "1M"
`), 0o644)

	t.Setenv("NETSDR_PORT", "50002")
	t.Setenv("NETSDR_FREQ", "2M")
	t.Setenv("NETSDR_HOST", "")

	cfg := DefaultConfig()
	cfg.Frequency = 3000000 // set by --freq
	changed := map[string]bool{"freq": true}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatal(err)
	}
	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatal(err)
	}

	if cfg.Host != "file-host" {
		t.Errorf("Host = %q, want file-host", cfg.Host)
	}
	if cfg.Port != 50002 {
		t.Errorf("Port = %d, want 50002 from env", cfg.Port)
	}
	if cfg.Frequency != 3000000 {
		t.Errorf("Frequency = %d, want 3000000 from flag", cfg.Frequency)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "f")
	if FileExists(p) {
		t.Error("FileExists() = true before create")
	}
	os.WriteFile(p, nil, 0o644)
	if !FileExists(p) {
		t.Error("FileExists() = false after create")
	}
}
