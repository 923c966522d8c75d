package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/nexaflow/nxfd/internal/config"
	"github.com/nexaflow/nxfd/internal/core/tx"
)

func TestNewDefaultsToInfoOnBadLevel(t *testing.T) {
	log := New(config.LoggingConfig{Level: "not-a-level", Format: "text"})
	require.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewHonorsExplicitLevel(t *testing.T) {
	log := New(config.LoggingConfig{Level: "debug", Format: "text"})
	require.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestNewJSONFormatter(t *testing.T) {
	log := New(config.LoggingConfig{Level: "info", Format: "json"})
	_, ok := log.Formatter.(*logrus.JSONFormatter)
	require.True(t, ok)
}

func TestSanitizeResultMessageHidesNothingButTheCategory(t *testing.T) {
	msg := SanitizeResultMessage(tx.TecNO_PERMISSION)
	require.Equal(t, tx.TecNO_PERMISSION.String(), msg)
}
