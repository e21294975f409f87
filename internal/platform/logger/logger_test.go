package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pns/internal/platform/config"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("json output carries the service attribute", func(t *testing.T) {
		var buf bytes.Buffer
		NewWithWriter(config.Log{Level: slog.LevelInfo, Format: "json"}, &buf).Info("domain_minted", "name", "partisia")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "pns", line["service"])
		assert.Equal(t, "partisia", line["name"])
	})

	t.Run("level filters lower records", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWithWriter(config.Log{Level: slog.LevelWarn, Format: "text"}, &buf)
		l.Info("hidden")
		l.Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}
