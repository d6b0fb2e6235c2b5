package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "blobtool.log")

	log, err := New("debug", path, false)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("handle", 1).Debug("lock")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=lock")
	assert.Contains(t, string(data), "handle=1")
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	log, err := New("chatty", "", false)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
