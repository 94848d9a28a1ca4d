package logger

import (
	"context"
	"log/slog"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	logger := Get()
	if logger == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerGetLazyInit(t *testing.T) {
	global = nil

	logger := Get()
	if logger == nil {
		t.Fatal("expected Get to initialize the logger")
	}
}

func TestLoggerBasic(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	logger := Get()
	logger.Debug(ctx, "debug message", String("k", "v"))
	logger.Info(ctx, "info message", Int("count", 3), Bool("ok", true))
	logger.Warn(ctx, "warn message", Int64("id", 42))
	logger.Error(ctx, "error message", Any("payload", map[string]int{"a": 1}))
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	named := Named("worker")
	if named == nil {
		t.Fatal("named logger is nil")
	}
	named.Info(context.Background(), "named message", String("k", "v"))
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	cases := []struct {
		level   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"WARNING", slog.LevelWarn, false},
		{"Error", slog.LevelError, false},
		{"verbose", 0, true},
	}
	for _, tc := range cases {
		err := SetLevelString(tc.level)
		if tc.wantErr {
			if err == nil {
				t.Errorf("expected error for level %q", tc.level)
			}
			continue
		}
		if err != nil {
			t.Errorf("unexpected error for level %q: %v", tc.level, err)
			continue
		}
		if got := levelVar.Level(); got != tc.want {
			t.Errorf("level %q: expected %v, got %v", tc.level, tc.want, got)
		}
	}
}
