package util

import (
	"regexp"

	"github.com/huandu/xstrings"
)

var rgxArchiveNames = regexp.MustCompile(`[^a-z0-9_.-]+`)

// SanitizeArchiveName makes a component or role name conform to the rules
// for tarball basenames: lowercase, kebab-cased, with any
// remaining disallowed character collapsed to a single hyphen.
func SanitizeArchiveName(name string) string {
	kebab := xstrings.ToKebabCase(name)
	return rgxArchiveNames.ReplaceAllString(kebab, "-")
}
