package parse

import (
	"strconv"
	"strings"
)

// Position parses a position tag value in both formats:
// - New format: "N" (just the number)
// - Legacy format: "{idx:N}"
func Position(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, errMissingValue("position")
	}

	if strings.HasPrefix(input, "{") {
		if !strings.HasSuffix(input, "}") {
			return 0, errMalformed(input)
		}

		content := strings.TrimSpace(input[1 : len(input)-1])
		key, value, found := strings.Cut(content, ":")
		if !found || !strings.EqualFold(strings.TrimSpace(key), "idx") {
			return 0, errMalformed(input)
		}

		return parseIndex(value)
	}

	return parseIndex(input)
}

// Bound parses a collection bound. "*" and "-1" both mean unbounded.
func Bound(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "*" {
		return -1, nil
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		return 0, err
	}
	if n < -1 {
		return 0, errNegative(n)
	}
	return n, nil
}

func parseIndex(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, errMissingValue("position")
	}
	idx, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if idx < 0 {
		return 0, errNegative(idx)
	}
	return idx, nil
}
