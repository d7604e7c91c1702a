package infra

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLoggerProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger("production", &buf)
	l.Debug().Msg("hidden")
	l.Info().Str("pledge_id", "p1").Msg("pledge added")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line written in production: %s", out)
	}
	for _, want := range []string{`"service":"flabi"`, `"env":"production"`, `"pledge_id":"p1"`, `"message":"pledge added"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log %s missing %s", out, want)
		}
	}
}

func TestNewLoggerDevelopmentIsVerbose(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger("development", &buf)
	l.Debug().Msg("visible")
	if !strings.Contains(buf.String(), "visible") || strings.HasPrefix(buf.String(), "{") {
		t.Fatalf("unexpected development output %q", buf.String())
	}
}
