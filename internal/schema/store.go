package schema

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"
)

// Store reads and appends the schema document at one path. Like the
// record log it is single-writer: Append loads, merges, and rewrites the
// whole file with no cross-process coordination.
type Store struct {
	fs   billy.Filesystem
	path string
}

// NewStore returns a store for the document at path. A missing file is
// a valid empty schema.
func NewStore(fs billy.Filesystem, path string) *Store {
	return &Store{fs: fs, path: path}
}

// Path returns the document path within the store's filesystem.
func (s *Store) Path() string { return s.path }

// Load parses the document into its typed form for the validator.
func (s *Store) Load() (*Document, error) {
	data, err := s.readFile()
	if err != nil {
		return nil, err
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", s.path, err)
	}
	doc, err := DecodeDocument(&root)
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", s.path, err)
	}
	return doc, nil
}

// LoadRaw parses the document into its normalized generic form, the
// representation merge and display work on. Missing file loads as an
// empty document.
func (s *Store) LoadRaw() (map[string]any, error) {
	data, err := s.readFile()
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", s.path, err)
	}
	normalized, err := NormalizeMap(raw)
	if err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", s.path, err)
	}
	return normalized, nil
}

// Append structurally checks a fragment, merges it into the current
// document, and rewrites the file deterministically. Returns the merged
// raw document. The file is untouched unless every step succeeds; a
// rejected fragment surfaces as ErrInvalidFragment.
func (s *Store) Append(fragment map[string]any) (map[string]any, error) {
	normalized, err := NormalizeMap(fragment)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFragment, err)
	}
	if err := CheckFragment(normalized); err != nil {
		return nil, err
	}

	base, err := s.LoadRaw()
	if err != nil {
		return nil, err
	}
	merged := Merge(base, normalized)

	data, err := EncodeDeterministic(merged)
	if err != nil {
		return nil, err
	}

	// the merged document must round-trip into the typed form the
	// validator will read back
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: merged document does not parse: %v", ErrInvalidFragment, err)
	}
	if _, err := DecodeDocument(&root); err != nil {
		return nil, fmt.Errorf("%w: merged document: %v", ErrInvalidFragment, err)
	}

	if dir := filepath.Dir(s.path); dir != "." && dir != "/" {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("write schema %s: %w", s.path, err)
		}
	}
	if err := util.WriteFile(s.fs, s.path, data, 0644); err != nil {
		return nil, fmt.Errorf("write schema %s: %w", s.path, err)
	}
	return merged, nil
}

func (s *Store) readFile() ([]byte, error) {
	data, err := util.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read schema %s: %w", s.path, err)
	}
	return data, nil
}
