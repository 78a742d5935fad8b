package salesbase

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNoOpLogger(t *testing.T) {
	logger := &NoOpLogger{}

	// These should all be safe to call
	logger.Debug("test message", "key", "value")
	logger.Info("test message", "key", "value")
	logger.Warn("test message", "key", "value")
	logger.Error("test message", "key", "value")
}

func TestStdLoggerFormatting(t *testing.T) {
	logger := NewStdLogger("salesbase")

	// Should not panic with various field combinations
	testCases := []struct {
		name   string
		msg    string
		fields []interface{}
	}{
		{"no fields", "simple message", nil},
		{"one pair", "message", []interface{}{"key", "value"}},
		{"multiple pairs", "message", []interface{}{"k1", "v1", "k2", "v2"}},
		{"odd fields", "message", []interface{}{"k1", "v1", "k2"}}, // Missing value
		{"mixed types", "message", []interface{}{
			"string", "value",
			"int", 123,
			"float", 45.67,
			"bool", true,
			"nil", nil,
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			logger.Info(tc.msg, tc.fields...)
			logger.Debug(tc.msg, tc.fields...)
			logger.Warn(tc.msg, tc.fields...)
			logger.Error(tc.msg, tc.fields...)
		})
	}
}

func TestLoggerInterface(t *testing.T) {
	var _ Logger = &NoOpLogger{}
	var _ Logger = &StdLogger{}
	var _ Logger = &ZapLogger{}
}

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewZapLogger(zap.New(core))

	logger.Info("ingestion complete", "documents", 128)
	logger.Error("lookup failed", "order_id", "A-1")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
	if entries[0].Message != "ingestion complete" {
		t.Errorf("first message = %q", entries[0].Message)
	}
	fields := entries[0].ContextMap()
	if fields["documents"] != int64(128) {
		t.Errorf("documents field = %v", fields["documents"])
	}
	if entries[1].Level != zap.ErrorLevel {
		t.Errorf("second entry level = %v, want error", entries[1].Level)
	}
}

func TestNewProductionZapLogger(t *testing.T) {
	logger, err := NewProductionZapLogger()
	if err != nil {
		t.Fatalf("NewProductionZapLogger failed: %v", err)
	}
	logger.Info("startup", "backend", "memory")
	logger.Sync()
}
