package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveSafePath resolves a user-supplied path against the workspace
// root and rejects any result escaping it. Relative paths are joined to
// the root, "~" expands to the home directory, and symlinks are resolved
// over the existing portion of the path so a link cannot smuggle the
// result outside the root.
func ResolveSafePath(root, userPath string, mustExist bool, label string) (string, error) {
	if strings.TrimSpace(userPath) == "" {
		return "", fmt.Errorf("invalid %s: empty path", label)
	}

	safeRoot, err := filepath.Abs(expandHome(root))
	if err != nil {
		return "", fmt.Errorf("invalid workspace root: %w", err)
	}
	safeRoot, err = resolveExisting(safeRoot)
	if err != nil {
		return "", fmt.Errorf("invalid workspace root: %w", err)
	}

	candidate := expandHome(userPath)
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(safeRoot, candidate)
	}
	resolved, err := resolveExisting(filepath.Clean(candidate))
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", label, err)
	}

	rel, err := filepath.Rel(safeRoot, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid %s: %q escapes workspace root %q", label, userPath, safeRoot)
	}

	if mustExist {
		if _, statErr := os.Stat(resolved); statErr != nil {
			if os.IsNotExist(statErr) {
				return "", fmt.Errorf("invalid %s: file not found %q", label, resolved)
			}
			return "", fmt.Errorf("invalid %s: %w", label, statErr)
		}
	}

	return resolved, nil
}

// resolveExisting resolves symlinks over the longest existing prefix of
// path and rejoins the remainder, so paths that do not exist yet still
// resolve deterministically.
func resolveExisting(path string) (string, error) {
	suffix := ""
	for p := path; ; {
		resolved, err := filepath.EvalSymlinks(p)
		if err == nil {
			return filepath.Join(resolved, suffix), nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(p)
		if parent == p {
			return filepath.Join(p, suffix), nil
		}
		suffix = filepath.Join(filepath.Base(p), suffix)
		p = parent
	}
}

// expandHome replaces a leading "~" with the current user's home
// directory. Paths it cannot expand pass through unchanged.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
