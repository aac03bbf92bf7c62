package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUICmd_Metadata(t *testing.T) {
	assert.Equal(t, "tui [file]", tuiCmd.Use)
	assert.Contains(t, tuiCmd.Long, "ctrl+r")
	assert.NoError(t, tuiCmd.Args(tuiCmd, []string{"cv.pdf"}))
	assert.Error(t, tuiCmd.Args(tuiCmd, []string{"a.pdf", "b.pdf"}))
}

func TestTUICmd_RequiresAnalyzer(t *testing.T) {
	withServices(t, nil, nil)

	_, err := execute(t, "tui")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyzer service not configured")
}

func TestMCPServeCmd_RequiresAnalyzer(t *testing.T) {
	withServices(t, nil, nil)

	_, err := execute(t, "mcp", "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyzer service not configured")
}

func TestServeCmd_RequiresAnalyzer(t *testing.T) {
	withServices(t, nil, nil)

	_, err := execute(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyzer service not configured")
}
