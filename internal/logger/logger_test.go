package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func jsonLogger(buf *bytes.Buffer) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(buf),
		zapcore.DebugLevel,
	)
	return zap.New(core)
}

// Feature: storefront-catalog, Property 20: Logs are structured
func TestProperty_LogsAreStructured(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("catalog log entries are JSON with level, timestamp and fields", prop.ForAll(
		func(message string, productID int64) bool {
			var buf bytes.Buffer
			logger := jsonLogger(&buf)
			defer logger.Sync()

			logger.Info(message, zap.Int64("product_id", productID))

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				return false
			}
			if _, ok := entry["level"].(string); !ok {
				return false
			}
			if _, ok := entry["timestamp"]; !ok {
				return false
			}
			if entry["message"] != message {
				return false
			}
			id, ok := entry["product_id"].(float64)
			return ok && int64(id) == productID
		},
		gen.AlphaString(),
		gen.Int64Range(1, 1<<40),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestNew(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		logger, err := New(env)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", env, err)
		}
		if logger == nil {
			t.Fatalf("New(%q) returned a nil logger", env)
		}
	}
}

func TestFromContext(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	scoped := zap.New(core).With(zap.String("request_id", "abc"))
	fallback := zap.NewNop()

	ctx := WithContext(context.Background(), scoped)
	FromContext(ctx, fallback).Info("Cart stored")

	if logs.Len() != 1 {
		t.Fatalf("expected one entry, got %d", logs.Len())
	}
	if logs.All()[0].ContextMap()["request_id"] != "abc" {
		t.Error("request-scoped fields were lost")
	}

	if FromContext(context.Background(), fallback) != fallback {
		t.Error("expected fallback logger when none is stored")
	}
	if FromContext(context.Background(), nil) == nil {
		t.Error("expected a no-op logger when fallback is nil")
	}
}
