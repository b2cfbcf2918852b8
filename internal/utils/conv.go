package utils

import "strconv"

// StringToInt parses query-string style numbers. Anything unparseable,
// including the empty string, comes back as 0.
func StringToInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
