package valueobjects

import (
	"strconv"
	"strings"
)

// PostID identifies a post. The zero value means "missing".
type PostID int

// ParsePostID parses a decimal post identifier. Anything unparsable,
// including an empty string, yields the zero (missing) PostID.
func ParsePostID(s string) PostID {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return PostID(id)
}

// IsZero reports whether the identifier is missing.
func (id PostID) IsZero() bool {
	return id == 0
}

// String returns the decimal form used in data-post-id attributes.
func (id PostID) String() string {
	return strconv.Itoa(int(id))
}
