package logger

import (
	"errors"
	"testing"

	"github.com/leandrodaf/rtdriver/sdk/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerWritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLoggerFrom(zap.New(core))

	log.Warn("MIDI event in the future",
		log.Field().Uint64("time", 42),
		log.Field().Uint32("frames", 256),
		log.Field().Error("error", errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "MIDI event in the future", entries[0].Message)

	ctx := entries[0].ContextMap()
	assert.EqualValues(t, 42, ctx["time"])
	assert.EqualValues(t, 256, ctx["frames"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestZapLoggerSetLevelFilters(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLoggerFrom(zap.New(core))

	log.SetLevel(contracts.WarnLevel)
	log.Debug("dropped")
	log.Info("dropped")
	log.Error("kept")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
}

func TestZapLoggerWithAttachesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLoggerFrom(zap.New(core))

	child := log.With(log.Field().String("instance", "abc"))
	child.Info("opened")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "abc", logs.All()[0].ContextMap()["instance"])
}
