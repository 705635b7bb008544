package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcvelit/http/internal/shared/types"
)

func TestInitWithWriter_Levels(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, InitWithWriter(types.LogConf{Level: "warn"}, &out))

	Info().Msg("hidden message")
	Warn().Int64("active", 5000).Msg("visible message")

	assert.NotContains(t, out.String(), "hidden message")
	assert.Contains(t, out.String(), "visible message")
	assert.Contains(t, out.String(), "active=5000")
}

func TestInitWithWriter_UnknownLevelDefaultsToInfo(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, InitWithWriter(types.LogConf{Level: "chatty"}, &out))

	Debug().Msg("debug line")
	Info().Msg("info line")

	assert.NotContains(t, out.String(), "debug line")
	assert.Contains(t, out.String(), "info line")
}

func TestWithComponent(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, InitWithWriter(types.LogConf{Level: "debug"}, &out))

	l := WithComponent("gateway")
	l.Info().Msg("hello")

	assert.Contains(t, out.String(), "component=gateway")
	assert.Contains(t, out.String(), "hello")
}
