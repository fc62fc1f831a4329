package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_JSONOutputWithComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: DebugLevel, Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: InfoLevel, Pretty: true}) })

	l := Component("rides")
	l.Info().Int64("rideID", 7).Msg("joined")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "rides", entry["component"])
	assert.Equal(t, "campusbeacon", entry["service"])
	assert.Equal(t, float64(7), entry["rideID"])
	assert.Equal(t, "joined", entry["message"])
}

func TestZerologLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, zerologLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, zerologLevel(WarnLevel))
	assert.Equal(t, zerolog.InfoLevel, zerologLevel("verbose"))
}
