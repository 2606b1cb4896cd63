package util

import (
	"strconv"
)

// ParseUint parses an unsigned decimal identifier.
func ParseUint(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	return uint(id), err
}
