package schema

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskFragment() map[string]any {
	return map[string]any{
		"types": map[string]any{
			"task": map[string]any{
				"required":    []any{"name"},
				"status_enum": []any{"todo", "done"},
			},
		},
	}
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := NewStore(memfs.New(), "schema.yaml")

	doc, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Types)
	assert.Empty(t, doc.Relations)
}

func TestStoreLoadRawMissingFile(t *testing.T) {
	store := NewStore(memfs.New(), "schema.yaml")

	raw, err := store.LoadRaw()
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestStoreAppendCreatesFile(t *testing.T) {
	fs := memfs.New()
	store := NewStore(fs, "schema.yaml")

	merged, err := store.Append(taskFragment())
	require.NoError(t, err)
	assert.Contains(t, merged, "types")

	doc, err := store.Load()
	require.NoError(t, err)
	require.Contains(t, doc.Types, "task")
	assert.Equal(t, []string{"name"}, doc.Types["task"].Required)
}

func TestStoreAppendMergesIntoExisting(t *testing.T) {
	store := NewStore(memfs.New(), "schema.yaml")

	_, err := store.Append(taskFragment())
	require.NoError(t, err)

	_, err = store.Append(map[string]any{
		"types": map[string]any{
			"task": map[string]any{"required": []any{"status"}},
		},
		"relations": map[string]any{
			"blocks": map[string]any{"acyclic": true},
		},
	})
	require.NoError(t, err)

	doc, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "status"}, doc.Types["task"].Required,
		"required lists should append without duplicates")
	assert.True(t, doc.Relations["blocks"].Acyclic)
}

func TestStoreAppendIdempotentBytes(t *testing.T) {
	fs := memfs.New()
	store := NewStore(fs, "schema.yaml")

	_, err := store.Append(taskFragment())
	require.NoError(t, err)
	first, err := util.ReadFile(fs, "schema.yaml")
	require.NoError(t, err)

	_, err = store.Append(taskFragment())
	require.NoError(t, err)
	second, err := util.ReadFile(fs, "schema.yaml")
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second),
		"re-appending identical content must rewrite identical bytes")
}

func TestStoreAppendRejectedFragmentLeavesFileAlone(t *testing.T) {
	fs := memfs.New()
	store := NewStore(fs, "schema.yaml")

	_, err := store.Append(taskFragment())
	require.NoError(t, err)
	before, err := util.ReadFile(fs, "schema.yaml")
	require.NoError(t, err)

	_, err = store.Append(map[string]any{"bogus_section": map[string]any{}})
	require.ErrorIs(t, err, ErrInvalidFragment)

	after, err := util.ReadFile(fs, "schema.yaml")
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestStoreAppendPreservesUnknownSections(t *testing.T) {
	// hand-edited sections the tool does not understand survive appends
	fs := memfs.New()
	seed := "notes: edited by hand\ntypes:\n  task:\n    required:\n      - name\n"
	require.NoError(t, util.WriteFile(fs, "schema.yaml", []byte(seed), 0644))

	store := NewStore(fs, "schema.yaml")
	merged, err := store.Append(map[string]any{
		"types": map[string]any{"person": map[string]any{"required": []any{"email"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "edited by hand", merged["notes"])

	data, err := util.ReadFile(fs, "schema.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "notes: edited by hand")
}

func TestStoreAppendCreatesParentDirs(t *testing.T) {
	fs := memfs.New()
	store := NewStore(fs, "graph/schema.yaml")

	_, err := store.Append(taskFragment())
	require.NoError(t, err)

	_, err = util.ReadFile(fs, "graph/schema.yaml")
	assert.NoError(t, err)
}

func TestStoreAppendNormalizesFragmentNumbers(t *testing.T) {
	fs := memfs.New()
	store := NewStore(fs, "schema.yaml")

	_, err := store.Append(map[string]any{
		"types": map[string]any{
			"task": map[string]any{
				"max_retries": float64(3), // json decoders hand us float64
			},
		},
	})
	require.NoError(t, err)

	data, err := util.ReadFile(fs, "schema.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "max_retries: 3\n", "integral floats persist as integers")
}

func TestStorePath(t *testing.T) {
	store := NewStore(memfs.New(), "a/b/schema.yaml")
	assert.Equal(t, "a/b/schema.yaml", store.Path())
}
