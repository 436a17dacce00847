package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker", "cli"} {
		l, err := NewLogger(env)
		if err != nil {
			t.Fatalf("env %s: unexpected error: %v", env, err)
		}
		if l == nil {
			t.Fatalf("env %s: nil logger", env)
		}
	}
}

func TestNewLogger_UnknownEnv(t *testing.T) {
	if _, err := NewLogger("staging"); err == nil {
		t.Fatal("expected error for unknown env")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("prod", "warn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}

	if _, err := NewLogger("prod", "loud"); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected nop logger, got nil")
	}

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core).With(zap.String("request_id", "abc")))

	FromContext(ctx).Info("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != "abc" {
		t.Errorf("expected request_id=abc, got %v", got)
	}
}

func TestFromContextOr(t *testing.T) {
	fallback := zap.NewExample()
	if FromContextOr(context.Background(), fallback) != fallback {
		t.Fatal("expected fallback logger")
	}

	stored := zap.NewNop()
	ctx := ContextWithLogger(context.Background(), stored)
	if FromContextOr(ctx, fallback) != stored {
		t.Fatal("expected stored logger")
	}
}
