package token

import "strings"

// Segment is one record of a transaction: a short identifier followed by
// ordered elements. Segments are created during tokenization and are
// read-only afterward.
type Segment struct {
	id       string
	elements []string
	position int
	delims   DelimiterSet
}

// newSegment builds a segment from a raw terminator-delimited fragment.
func newSegment(fragment string, position int, delims DelimiterSet) Segment {
	parts := strings.Split(fragment, string(delims.Element))
	return Segment{
		id:       parts[0],
		elements: parts[1:],
		position: position,
		delims:   delims,
	}
}

// ID returns the segment identifier, e.g. "CLM", "HL", "SV1".
func (s Segment) ID() string {
	return s.id
}

// Position returns the segment's sequence index within the transaction.
func (s Segment) Position() int {
	return s.position
}

// ElementCount returns the number of elements following the identifier.
// A segment consisting of only an identifier has zero elements.
func (s Segment) ElementCount() int {
	return len(s.elements)
}

// Element returns the element at the given 1-based position, matching the
// X12 element numbering convention (CLM01 is Element(1)). Out-of-range
// positions return the empty string, never an error: real-world files
// routinely omit trailing elements.
func (s Segment) Element(n int) string {
	if n < 1 || n > len(s.elements) {
		return ""
	}
	return s.elements[n-1]
}

// Elements returns the element values in order. The returned slice is the
// segment's backing store; callers must not modify it.
func (s Segment) Elements() []string {
	return s.elements
}

// Components splits the element at the given 1-based position into its
// sub-elements on the component separator. The split happens on demand;
// the element's original string form is untouched. Trailing empty
// sub-elements are preserved, so "HC:99213::" yields four sub-elements.
// An element without the separator yields a single sub-element.
func (s Segment) Components(n int) []string {
	el := s.Element(n)
	if el == "" {
		return nil
	}
	return strings.Split(el, string(s.delims.Component))
}

// Delimiters returns the delimiter set the segment was tokenized with.
func (s Segment) Delimiters() DelimiterSet {
	return s.delims
}

// String reassembles the segment in its source form, without the
// terminator.
func (s Segment) String() string {
	if len(s.elements) == 0 {
		return s.id
	}
	return s.id + string(s.delims.Element) + strings.Join(s.elements, string(s.delims.Element))
}
