package main

import (
	"testing"

	"logsieve/src/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeLogger(t *testing.T) {
	cfg := config.DefaultLogConfig()
	cfg.Output = config.LogOutputNone

	logger, err := initializeLogger(cfg, false)
	require.NoError(t, err)
	require.NotNil(t, logger)
	shutdownLogger(logger, &OutputHandler{quiet: true})

	cfg.Output = "syslog"
	_, err = initializeLogger(cfg, false)
	assert.ErrorContains(t, err, "invalid log output mode")
}
