package cli

import (
	"context"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
)

func TestLoggerRoundTripsThroughContext(t *testing.T) {
	logger := newLogger(&strings.Builder{}, charmlog.DebugLevel)
	ctx := withLogger(context.Background(), logger)

	if got := loggerFromContext(ctx); got != logger {
		t.Error("loggerFromContext did not return the attached logger")
	}
}

func TestLoggerFromContextFallback(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext must fall back to a usable logger")
	}
}

func TestProgressDone(t *testing.T) {
	var buf strings.Builder
	logger := newLogger(&buf, charmlog.InfoLevel)

	p := newProgress(logger)
	p.done("Rendered 7 examples")

	if out := buf.String(); !strings.Contains(out, "Rendered 7 examples") {
		t.Errorf("progress output missing message: %q", out)
	}
}
