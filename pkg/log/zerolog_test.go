package log

import (
	"bytes"
	"errors"
	stdlog "log"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapterWithLogger(zerolog.New(&buf))

	l.Info("sent command",
		String("command", "START_IQ"),
		Int("attempt", 1),
		Int64("bytes", 9),
		Bool("connected", true),
		Duration("took", time.Millisecond),
		Err(errors.New("boom")),
		Any("tags", []string{"a"}),
	)

	out := buf.String()
	for _, want := range []string{
		`"message":"sent command"`,
		`"command":"START_IQ"`,
		`"attempt":1`,
		`"bytes":9`,
		`"connected":true`,
		`"error":"boom"`,
		`"tags":["a"]`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
}

func TestZerologAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapterWithLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))

	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected no output below warn, got %q", buf.String())
	}

	l.Error("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("error entry missing: %q", buf.String())
	}
}

func TestZerologAdapter_Named(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapterWithLogger(zerolog.New(&buf)).Named("session")
	l.Warn("disconnected")

	if !strings.Contains(buf.String(), `"component":"session"`) {
		t.Errorf("component field missing: %q", buf.String())
	}
}

func TestZerologAdapter_LoggerBacksStdlib(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapterWithLogger(zerolog.New(&buf)).Named("metrics")

	stdlog.New(l.Logger(), "", 0).Print("http: accept error")

	out := buf.String()
	for _, want := range []string{`"component":"metrics"`, `"message":"http: accept error"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s missing %s", out, want)
		}
	}
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NewNoopLogger()
	l.Debug("x")
	l.Info("x", String("k", "v"))
	l.Warn("x")
	l.Error("x", Err(errors.New("e")))
}
