package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileModeSet(t *testing.T) {
	var m FileMode
	require.NoError(t, m.Set(""))
	assert.Equal(t, FileModeAppend, m)
	require.NoError(t, m.Set("rotate"))
	assert.Equal(t, FileModeRotate, m)
	assert.Error(t, m.Set("bogus"))
}

func TestNewNopOnEmptyPath(t *testing.T) {
	log, err := New(Config{})
	require.NoError(t, err)
	log.Info("dropped")
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	log, err := New(Config{
		Level: zap.InfoLevel,
		Mode:  FileModeTruncate,
		Path:  path,
	})
	require.NoError(t, err)
	log.Info("hello", zap.Int("n", 1))
	require.NoError(t, log.Sync())
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello")
	// Debug is below the configured level.
	log.Debug("quiet")
	require.NoError(t, log.Sync())
	b, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "quiet")
}
