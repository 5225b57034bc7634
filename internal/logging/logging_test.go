package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("", &buf)
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())

	log.Debug().Msg("hidden")
	log.Info().Str("addr", "127.0.0.1:502").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "addr=127.0.0.1:502")
}

func TestNew_Levels(t *testing.T) {
	for name, want := range map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"WARN":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
	} {
		log, err := New(name, &bytes.Buffer{})
		require.NoError(t, err, name)
		assert.Equal(t, want, log.GetLevel(), name)
	}
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New("loud", &bytes.Buffer{})
	require.Error(t, err)
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	log := Console(&buf)
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())

	log.Info().Msg("bootstrap")
	assert.Contains(t, buf.String(), "bootstrap")
}
