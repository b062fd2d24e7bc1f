package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("verbose"))
}

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := &zapLogger{logger: zap.New(core)}

	l.Debug("hidden")
	l.Info("Reminder 1 created")
	l.Warn("LINE credentials not set")
	l.Error("Failed to deliver alarm", errors.New("429"))
	l.Error("Handler not set", nil)

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, "Reminder 1 created", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "429", entries[2].ContextMap()["error"])
	assert.Empty(t, entries[3].Context)
}

func TestNew(t *testing.T) {
	l, err := New("debug")
	require.NoError(t, err)
	l.Debug("hello")
	Sync(l)
	Sync(NewNop())
}
