package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFormats(t *testing.T) {
	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{
			format: JSON,
			check: func(t *testing.T, out string) {
				var entry map[string]interface{}
				require.NoError(t, json.Unmarshal([]byte(out), &entry))
				assert.Equal(t, "signed", entry["msg"])
				assert.Equal(t, "P-256", entry["curve"])
				assert.Equal(t, "info", entry["level"])
			},
		},
		{
			format: Logfmt,
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "level=info")
				assert.Contains(t, out, "msg=signed")
				assert.Contains(t, out, "curve=P-256")
			},
		},
		{
			format: Console,
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "INFO")
				assert.Contains(t, out, "signed")
				assert.Contains(t, out, `"curve": "P-256"`)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.format, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger, err := New(Config{Format: test.format, Writer: buf})
			require.NoError(t, err)

			logger.Info("signed", zap.String("curve", "P-256"))
			require.NoError(t, logger.Sync())
			test.check(t, buf.String())
		})
	}
}

func TestNewLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Format: Logfmt, Level: "warn", Writer: buf})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	logger, err = New(Config{Format: JSON, Writer: buf})
	require.NoError(t, err)
	logger.Debug("debug is off by default")
	assert.Empty(t, buf.String())
}

func TestNewErrors(t *testing.T) {
	_, err := New(Config{Format: "xml"})
	assert.EqualError(t, err, `unsupported logging format "xml"`)

	_, err = New(Config{Level: "loud"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `invalid logging level "loud"`)
}

func TestDefaultWriter(t *testing.T) {
	logger, err := New(Config{})
	require.NoError(t, err)
	assert.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}
