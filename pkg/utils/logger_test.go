// pkg/utils/logger_test.go

package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestGetLoggerIdentity(t *testing.T) {
	a := GetLogger("identity")
	b := GetLogger("identity")
	require.Same(t, a, b)
	require.NotSame(t, a, GetLogger("other"))
}

func TestSetLogLevel(t *testing.T) {
	l := GetLogger("leveled")
	SetLogLevel(logrus.WarnLevel)
	require.Equal(t, logrus.WarnLevel, l.Level)
	SetLogLevel(logrus.InfoLevel)
	require.Equal(t, logrus.InfoLevel, l.Level)
}

func TestSetOutFile(t *testing.T) {
	l := GetLogger("filed")
	path := filepath.Join(t.TempDir(), "seisvol.log")
	SetOutFile(path)
	defer func() {
		mu.Lock()
		for _, logger := range loggers {
			logger.SetOutput(os.Stderr)
		}
		mu.Unlock()
	}()

	l.Infof("redirected %d", 42)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "filed")
	require.Contains(t, string(data), "redirected 42")

	// unopenable targets are ignored and logging keeps working
	SetOutFile(filepath.Join(path, "not-a-dir", "x.log"))
	l.Infof("still alive")
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "still alive")
}
