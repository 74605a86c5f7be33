package log

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q",
				tt.level, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("json") != FormatJSON {
		t.Error(`ParseFormat("json") != FormatJSON`)
	}

	if ParseFormat("JSON ") != FormatJSON {
		t.Error(`ParseFormat("JSON ") != FormatJSON`)
	}

	if ParseFormat("text") != FormatText {
		t.Error(`ParseFormat("text") != FormatText`)
	}

	if ParseFormat("unknown") != FormatText {
		t.Error(`ParseFormat("unknown") != FormatText`)
	}
}

func TestLevels(t *testing.T) {
	var names []string
	for name := range Levels() {
		names = append(names, name)
	}

	want := []string{"trace", "debug", "info", "warn", "error"}
	if len(names) != len(want) {
		t.Fatalf("Levels() yielded %d names, want %d", len(names), len(want))
	}

	for i, name := range names {
		if name != want[i] {
			t.Errorf("Levels()[%d] = %q, want %q", i, name, want[i])
		}
	}
}

func TestResolveTimeLayout(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"RFC3339", time.RFC3339},
		{"rfc3339nano", time.RFC3339Nano},
		{"DateOnly", time.DateOnly},
		{"none", ""},
		{"", ""},
		{"  RFC3339  ", time.RFC3339},
		{"2006-01-02", "2006-01-02"},
	}

	for _, tt := range tests {
		if got := resolveTimeLayout(tt.in); got != tt.want {
			t.Errorf("resolveTimeLayout(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoggerNamedTimeLayout(t *testing.T) {
	var buf strings.Builder

	logger := Make(&buf, WithPretty(false), WithTimeLayout("none"))
	logger.Info("stamped")

	if strings.Contains(buf.String(), "time=") {
		t.Errorf("output contains timestamp with layout none: %q", buf.String())
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf strings.Builder

	logger := Make(&buf,
		WithLevel(LevelWarn),
		WithPretty(false),
		WithTimeLayout(""))

	logger.Debug("hidden")
	logger.Info("also hidden")
	logger.Warn("visible warning")
	logger.Error("visible error")

	out := buf.String()

	if strings.Contains(out, "hidden") {
		t.Errorf("output contains filtered messages: %q", out)
	}

	if !strings.Contains(out, "visible warning") {
		t.Errorf("output missing warning: %q", out)
	}

	if !strings.Contains(out, "visible error") {
		t.Errorf("output missing error: %q", out)
	}
}

func TestLoggerTraceLevelName(t *testing.T) {
	var buf strings.Builder

	logger := Make(&buf,
		WithLevel(LevelTrace),
		WithPretty(false),
		WithTimeLayout(""))

	logger.Trace("tracing")

	if !strings.Contains(buf.String(), "TRACE") {
		t.Errorf("trace record not labeled TRACE: %q", buf.String())
	}
}

func TestLoggerWithAttrs(t *testing.T) {
	var buf strings.Builder

	logger := Make(&buf, WithPretty(false), WithTimeLayout(""))
	logger = logger.With(slog.String("component", "analyzer"))

	logger.Info("event")

	if !strings.Contains(buf.String(), "component=analyzer") {
		t.Errorf("output missing attached attribute: %q", buf.String())
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf strings.Builder

	logger := Make(&buf, WithFormat(FormatJSON), WithTimeLayout(""))

	logger.Info("structured", slog.Int("count", 3))

	out := buf.String()

	if !strings.Contains(out, `"msg":"structured"`) {
		t.Errorf("output is not JSON encoded: %q", out)
	}

	if !strings.Contains(out, `"count":3`) {
		t.Errorf("output missing attribute: %q", out)
	}
}

func TestZeroValueLoggerIsNoop(t *testing.T) {
	var logger Logger

	// Must not panic.
	logger.Info("dropped")
	logger.Error("dropped")

	if logger.Level() != DefaultLevel {
		t.Errorf("zero logger level = %v, want %v",
			logger.Level(), DefaultLevel)
	}
}

func TestWrapOverridesLevel(t *testing.T) {
	var buf strings.Builder

	logger := Make(&buf, WithPretty(false), WithTimeLayout(""))

	if logger.Level() != DefaultLevel {
		t.Fatalf("initial level = %v, want %v", logger.Level(), DefaultLevel)
	}

	logger = logger.Wrap(WithLevel(LevelDebug))

	if logger.Level() != LevelDebug {
		t.Errorf("wrapped level = %v, want %v", logger.Level(), LevelDebug)
	}

	logger.Debug("now visible")

	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("debug message not written after Wrap: %q", buf.String())
	}
}
