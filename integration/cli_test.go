//go:build basic

package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClearanceWithSQLite runs the clearing workflow against a throwaway SQLite file.
func TestClearanceWithSQLite(t *testing.T) {
	env := []string{"HOME=" + t.TempDir(), "CLEARANCE_DB_BACKEND=sqlite"}
	runClearingWorkflow(t, env)
}

// TestClearanceRejectsBadInput checks that invalid arguments fail before touching the store.
func TestClearanceRejectsBadInput(t *testing.T) {
	env := []string{"HOME=" + t.TempDir()}

	out, err := runClearanceCommand(t, env, "decisions", "abc")
	require.Error(t, err)
	assert.Contains(t, out, "invalid item id")

	out, err = runClearanceCommand(t, env, "decide", "1", "--type", "bogus")
	require.Error(t, err)
	assert.Contains(t, out, "invalid --type value")

	out, err = runClearanceCommand(t, env, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "clearance CLI")
}
