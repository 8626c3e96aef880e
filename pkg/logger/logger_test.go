package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pdv-api/pkg/logger"
)

func TestNew_WritesJSONWithServiceAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", Service: "api", Out: &buf})

	l.Info().Msg("descartado")
	l.Warn().Str("sale_id", "s1").Msg("venta cancelada")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "api", entry["service"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "s1", entry["sale_id"])
}
