package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnrelateCommandRemovesAllMatches(t *testing.T) {
	dir := t.TempDir()
	createEntity(t, dir, "task", `{}`, "task_1")
	createEntity(t, dir, "task", `{}`, "task_2")
	createEntity(t, dir, "task", `{}`, "task_3")
	relateEntities(t, dir, "task_1", "blocks", "task_2")
	relateEntities(t, dir, "task_1", "blocks", "task_2")
	relateEntities(t, dir, "task_1", "blocks", "task_3")

	stdout := mustRunCLI(t, dir, "unrelate", "--from", "task_1", "--rel", "blocks", "--to", "task_2")
	assert.Equal(t, "Removed 2 relation(s)\n", stdout)

	// The triple to task_3 is untouched.
	stdout = mustRunCLI(t, dir, "related", "--id", "task_1", "--rel", "blocks")
	assert.Contains(t, stdout, "task_3")
	assert.NotContains(t, stdout, "task_2")
}

func TestUnrelateCommandZeroMatchesSucceeds(t *testing.T) {
	dir := t.TempDir()

	// Removing a triple that never existed is a no-op, not a failure.
	stdout, _, err := runCLI(t, dir, "unrelate", "--from", "a", "--rel", "r", "--to", "b")
	require.NoError(t, err)
	assert.Equal(t, "Removed 0 relation(s)\n", stdout)
}

func TestUnrelateCommandJSONEnvelope(t *testing.T) {
	dir := t.TempDir()
	relateEntities(t, dir, "task_1", "blocks", "task_2")

	stdout := mustRunCLI(t, dir, "--format", "json", "unrelate", "--from", "task_1", "--rel", "blocks", "--to", "task_2")

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["removed"])
	assert.Equal(t, "task_1", data["from"])
	assert.Equal(t, "blocks", data["rel"])
	assert.Equal(t, "task_2", data["to"])
}

func TestUnrelateCommandLeavesOtherRelationTypes(t *testing.T) {
	dir := t.TempDir()
	createEntity(t, dir, "task", `{}`, "task_1")
	createEntity(t, dir, "task", `{}`, "task_2")
	relateEntities(t, dir, "task_1", "blocks", "task_2")
	relateEntities(t, dir, "task_1", "mentions", "task_2")

	mustRunCLI(t, dir, "unrelate", "--from", "task_1", "--rel", "blocks", "--to", "task_2")

	stdout := mustRunCLI(t, dir, "related", "--id", "task_1")
	assert.Contains(t, stdout, "mentions")
	assert.NotContains(t, stdout, "blocks")
}
