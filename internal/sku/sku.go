package sku

import "strings"

// Delimiter separates the prefix segment from the suffix segments
const Delimiter = "-"

// Identifier is a product identifier split into its prefix and suffix segments.
// "WIN-101-A" has prefix "WIN" and suffix "101-A".
type Identifier struct {
	Raw    string
	Prefix string
	Suffix string
	// segments is the number of delimiter-separated segments in Raw
	segments int
}

// Parse splits a name into an Identifier. Any string is accepted; a name with
// no delimiter is a single-segment identifier with no suffix.
func Parse(name string) Identifier {
	parts := strings.Split(name, Delimiter)
	id := Identifier{
		Raw:      name,
		Prefix:   parts[0],
		segments: len(parts),
	}
	if len(parts) > 1 {
		id.Suffix = strings.Join(parts[1:], Delimiter)
	}
	return id
}

// HasSuffix reports whether the identifier has at least one suffix segment
func (id Identifier) HasSuffix() bool {
	return id.segments > 1
}

// SuffixKey returns the suffix for use as a lookup key. Identifiers without a
// suffix segment never produce a key.
func (id Identifier) SuffixKey() (string, bool) {
	if !id.HasSuffix() {
		return "", false
	}
	return id.Suffix, true
}

// SuffixEquivalent reports whether both identifiers have a suffix and the
// suffixes are equal.
func (id Identifier) SuffixEquivalent(other Identifier) bool {
	a, ok := id.SuffixKey()
	if !ok {
		return false
	}
	b, ok := other.SuffixKey()
	return ok && a == b
}

func (id Identifier) String() string {
	return id.Raw
}
