package logging

import (
	"os"
	"path/filepath"
	"testing"

	"agcbo/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.WarnLevel, parseLevel("warn", false))
	assert.Equal(t, logrus.InfoLevel, parseLevel("nonsense", false))
	assert.Equal(t, logrus.DebugLevel, parseLevel("error", true))
}

func TestSetupWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agcbo.log")
	closer := Setup(config.Config{LogLevel: "info", LogFile: path, LogMaxSizeMB: 1})
	t.Cleanup(func() {
		logrus.SetOutput(os.Stderr)
	})

	logrus.WithField("component", "test").Info("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"test"`)
}
