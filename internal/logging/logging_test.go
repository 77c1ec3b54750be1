package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlift/statex/internal/config"
)

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log, closeFn, err := New(config.LogConfig{Level: "warn"}, &buf)
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	log.Info("hidden")
	log.WithField("format", "epf").Warn("no matching statement files")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "format=epf")
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	require.NoError(t, err)

	log.WithField("rows", 3).Debug("parsed statement")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "parsed statement", entry["msg"])
	assert.InDelta(t, 3, entry["rows"], 0)
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "statex.log")
	log, closeFn, err := New(config.LogConfig{File: path}, os.Stderr)
	require.NoError(t, err)

	log.Info("to file")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestNewErrors(t *testing.T) {
	_, _, err := New(config.LogConfig{Level: "loud"}, os.Stderr)
	assert.ErrorContains(t, err, "parsing log level")

	_, _, err = New(config.LogConfig{Format: "xml"}, os.Stderr)
	assert.ErrorContains(t, err, "unknown log format")
}
