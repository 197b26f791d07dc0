package collector

import "strings"

// globMeta is the set of characters that turn a path into a wildcard pattern.
const globMeta = "*?[]{}()!"

// IsWildcard reports whether pattern must be expanded with glob matching
// rather than probed as a literal path. Any string is a valid input.
func IsWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, globMeta)
}
