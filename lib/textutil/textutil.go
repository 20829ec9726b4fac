package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lowercases a name and strips every whitespace character
// so that "N. Rooms", "n.rooms" and " N.  ROOMS " compare equal.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// MatchName reports whether the normalized `name` contains any of `matchers`,
// matchers are expected to be normalized already.
func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}
