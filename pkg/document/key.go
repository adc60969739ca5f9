package document

import "github.com/google/uuid"

// Key is the stable identity of a node.
// It is generated once at creation and never derived from content.
type Key string

// NewKey returns a fresh random key.
func NewKey() Key {
	return Key(uuid.NewString())
}

// String returns the key as a string.
func (k Key) String() string {
	return string(k)
}

// IsZero returns true for the empty key.
func (k Key) IsZero() bool {
	return k == ""
}
