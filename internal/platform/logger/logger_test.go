package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("development logs debug lines as JSON", func(t *testing.T) {
		var buf bytes.Buffer
		NewWithWriter(&buf, "development").Debug("lookup", "category", "timeout")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "DEBUG", line["level"])
		assert.Equal(t, "ficha", line["service"])
		assert.Equal(t, "timeout", line["category"])
	})

	t.Run("production drops debug lines", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, "production")
		log.Debug("noise")
		assert.Zero(t, buf.Len())

		log.Info("started")
		assert.Contains(t, buf.String(), `"msg":"started"`)
	})
}
