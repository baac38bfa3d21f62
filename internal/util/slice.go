package util

import "strings"

// SplitList splits a list value received from an environment variable, a property or a default tag.
// Values are delimited by ',', '|' or ' ' and empty elements are dropped.
func SplitList(value string) []string {
	return strings.FieldsFunc(value, matchChainedSeparators)
}

func matchChainedSeparators(r rune) bool {
	return r == ',' || r == '|' || r == ' '
}

// Reverse reverses the slice in place
func Reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
