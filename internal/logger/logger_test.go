package logger

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelParsing(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, New("test", "debug").GetLevel())
	assert.Equal(t, zerolog.WarnLevel, New("test", "warn").GetLevel())

	// unknown and empty levels fall back to info
	assert.Equal(t, zerolog.InfoLevel, New("test", "loud").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, New("test", "").GetLevel())
}

func TestNop_Discards(t *testing.T) {
	l := Nop()
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
	l.Info().Msg("goes nowhere")
}

func TestFromContext_RoundTrip(t *testing.T) {
	l := New("test", "debug")
	ctx := l.WithContext(context.Background())

	got := FromContext(ctx)
	require.NotNil(t, got)
	assert.Equal(t, l.GetLevel(), got.GetLevel())
}
