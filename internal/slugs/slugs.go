// Package slugs turns document titles and paths into filename-safe slugs.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// ComponentSlug converts a string to a slug appropriate for a single
// file or directory name.
func ComponentSlug(s string) string {
	s = strings.TrimSuffix(s, ".md")
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-"))
	}
	return slugged
}

// PathSlug slugifies each "/"-separated component of a path. A trailing
// ".md" is stripped and backslashes are treated as separators.
func PathSlug(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	path = strings.TrimSuffix(path, ".md")

	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, part := range parts {
		if part == "" {
			continue
		}
		out = append(out, ComponentSlug(part))
	}
	return strings.Join(out, "/")
}
