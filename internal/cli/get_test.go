package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warpz0ne/openclaw/internal/graph"
	"github.com/warpz0ne/openclaw/internal/props"
)

func TestGetCommandReturnsLiveEntity(t *testing.T) {
	dir := t.TempDir()
	createEntity(t, dir, "task", `{"name":"write docs","status":"open"}`, "task_1")

	stdout := mustRunCLI(t, dir, "get", "--id", "task_1")

	var entity graph.Entity
	decodeOutput(t, stdout, &entity)
	assert.Equal(t, "task_1", entity.ID)
	assert.Equal(t, props.String("open"), entity.Properties["status"])
}

func TestGetCommandNotFound(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := runCLI(t, dir, "get", "--id", "ghost_1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "Entity not found: ghost_1\n", stdout)
}

func TestGetCommandNotFoundJSONEnvelope(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := runCLI(t, dir, "--format", "json", "get", "--id", "ghost_1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Entity not found: ghost_1", resp.Error.Message)
}

func TestGetCommandAfterDelete(t *testing.T) {
	dir := t.TempDir()
	createEntity(t, dir, "task", `{}`, "task_1")
	mustRunCLI(t, dir, "delete", "--id", "task_1")

	stdout, _, err := runCLI(t, dir, "get", "--id", "task_1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "Entity not found: task_1")
}
