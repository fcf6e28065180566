package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/coinbase/netcdf-go/pkg/netcdf/logging"
)

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	l.With("file", "a.nc").Info(context.Background(), "opened", "mode", "read")

	out := buf.String()
	for _, want := range []string{"opened", "file=a.nc", "mode=read"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestFromLogrus(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetLevel(logrus.DebugLevel)
	base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})

	l := logging.FromLogrus(base).With("component", "gate")
	l.Warn(context.Background(), "slow native call", "held", 42, slog.String("op", "close"))
	l.Debug(context.Background(), "dangling", "orphan")

	out := buf.String()
	for _, want := range []string{"level=warning", "slow native call", "component=gate", "held=42", "op=close", "!BADKEY=orphan"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestDiscard(t *testing.T) {
	l := logging.Discard().With("k", "v")
	l.Error(context.Background(), "dropped")
}
