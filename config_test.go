// SPDX-License-Identifier: GPL-3.0-or-later

package dhcpforge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	require.NotNil(t, cfg)

	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, ":67", cfg.InputAddr)
	assert.Equal(t, ":68", cfg.OutputAddr)
	assert.Equal(t, "255.255.255.255:68", cfg.BroadcastAddr)
	assert.Equal(t, 32, cfg.IDBits)

	require.NotNil(t, cfg.KillSwitch)
	assert.True(t, cfg.KillSwitch.IsSet())

	require.NotNil(t, cfg.TimeNow)
	assert.False(t, cfg.TimeNow().IsZero())

	// ErrClassifier should use errclass by default.
	require.NotNil(t, cfg.ErrClassifier)
	assert.Equal(t, "", cfg.ErrClassifier.Classify(nil))
	assert.Equal(t, "ETIMEDOUT", cfg.ErrClassifier.Classify(context.DeadlineExceeded))

	// Logger should use the discarding default.
	require.NotNil(t, cfg.Logger)
	cfg.Logger.Debug("noop")
	cfg.Logger.Info("noop")
}
