// Package paths provides helpers for vault-relative document and template
// paths.
package paths

import (
	"fmt"
	"path/filepath"
	"strings"
)

// NormalizeDirRoot normalizes a directory root to have:
// - no leading slash
// - exactly one trailing slash (unless empty)
//
// Examples:
// - "/templates/" -> "templates/"
// - "templates"   -> "templates/"
// - ""            -> ""
func NormalizeDirRoot(root string) string {
	root = filepath.ToSlash(root)
	root = strings.Trim(root, "/")
	if root == "" {
		return ""
	}
	return root + "/"
}

// NormalizeRelPath normalizes a vault-relative path-like value:
// - converts OS separators to '/'
// - trims leading "./" and leading "/"
// - collapses repeated '/'
func NormalizeRelPath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	return p
}

// EnsureMarkdown appends ".md" unless the path already has it.
func EnsureMarkdown(p string) string {
	if strings.HasSuffix(p, ".md") {
		return p
	}
	return p + ".md"
}

// ValidateWithinVault returns an error if target does not resolve to a path
// inside vaultPath.
func ValidateWithinVault(vaultPath, target string) error {
	absVault, err := filepath.Abs(vaultPath)
	if err != nil {
		return fmt.Errorf("failed to resolve vault path: %w", err)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if absTarget == absVault {
		return nil
	}
	if !strings.HasPrefix(absTarget, absVault+string(filepath.Separator)) {
		return fmt.Errorf("path %s is outside vault %s", target, vaultPath)
	}
	return nil
}
