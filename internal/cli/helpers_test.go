package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/warpz0ne/openclaw/internal/graph"
)

// runCLI executes one full command line against a fresh command tree
// confined to dir, and returns both streams plus the execution error.
func runCLI(t *testing.T, dir string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	outBuf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(append([]string{"--root", dir}, args...))

	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

// mustRunCLI runs a command line that is expected to succeed and
// returns its stdout.
func mustRunCLI(t *testing.T, dir string, args ...string) string {
	t.Helper()

	stdout, stderr, err := runCLI(t, dir, args...)
	require.NoError(t, err, "command %v failed: %s%s", args, stdout, stderr)
	return stdout
}

// decodeOutput unmarshals text-format command output into out.
func decodeOutput(t *testing.T, output string, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(output), out), "output was: %s", output)
}

// createEntity seeds one entity through the real command line and
// returns it as parsed from the command's own output.
func createEntity(t *testing.T, dir, typ, propsJSON, id string) graph.Entity {
	t.Helper()

	args := []string{"create", "--type", typ, "--props", propsJSON}
	if id != "" {
		args = append(args, "--id", id)
	}
	var entity graph.Entity
	decodeOutput(t, mustRunCLI(t, dir, args...), &entity)
	return entity
}

// relateEntities seeds one relation through the real command line.
func relateEntities(t *testing.T, dir, from, rel, to string) {
	t.Helper()
	mustRunCLI(t, dir, "relate", "--from", from, "--rel", rel, "--to", to)
}

// writeWorkspaceFile writes a file at a workspace-relative path,
// creating parent directories as needed.
func writeWorkspaceFile(t *testing.T, dir, rel, content string) string {
	t.Helper()

	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
