package normalize

import "strings"

var spaceReplacer = strings.NewReplacer("\u3000", " ", "\u00a0", " ")

// Name canonicalizes a person name for matching. Full-width and non-breaking
// spaces become ASCII spaces, runs of ASCII whitespace collapse to one space,
// and the result is trimmed.
func Name(raw string) string {
	s := spaceReplacer.Replace(raw)
	return strings.Join(strings.FieldsFunc(s, isASCIISpace), " ")
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
