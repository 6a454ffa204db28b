package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorsGoToErrOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	logg := New(Options{ServiceName: "test", Output: &out, ErrOutput: &errOut})
	ctx := context.Background()

	logg.Info(ctx, "hello")
	logg.Warn(ctx, "careful")
	logg.Error(ctx, "broken", errors.New("boom"))

	assert.Contains(t, out.String(), `"message":"hello"`)
	assert.Contains(t, out.String(), `"message":"careful"`)
	assert.NotContains(t, out.String(), "broken")

	var line map[string]any
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "test", line["service"])
}

func TestContextFields(t *testing.T) {
	var out bytes.Buffer
	logg := New(Options{ServiceName: "test", Output: &out})

	ctx := logg.WithRequestID(context.Background(), "req-1")
	ctx = logg.WithFields(ctx, map[string]any{"method": "GET"})
	logg.Info(ctx, "request.complete")

	var line map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "GET", line["method"])
}

func TestLevelFiltering(t *testing.T) {
	var out bytes.Buffer
	logg := New(Options{Level: zerolog.WarnLevel, Output: &out})

	logg.Info(context.Background(), "dropped")
	assert.Empty(t, out.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
}
