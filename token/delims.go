package token

import (
	"errors"
	"fmt"
	"strings"
)

// Fixed byte offsets within the ISA segment. ISA is the only fixed-width
// segment in X12: 16 elements of known widths, 106 bytes in total
// including the terminator.
const (
	isaIdentifier       = "ISA"
	isaLength           = 106
	isaElementOffset    = 3
	isaComponentOffset  = 104
	isaTerminatorOffset = 105
)

// Sentinel errors for fatal tokenization failures. Wrap with fmt.Errorf
// and test with errors.Is.
var (
	// ErrMalformedEnvelope indicates the first segment is absent, too short,
	// or not an ISA segment, so delimiter discovery is impossible.
	ErrMalformedEnvelope = errors.New("malformed envelope")

	// ErrMalformedInput indicates the text contains no segment terminator.
	ErrMalformedInput = errors.New("malformed input")
)

// DelimiterSet holds the three delimiters of one transaction. Discovered
// once from the ISA segment and never changed thereafter.
type DelimiterSet struct {
	// Element separates elements within a segment.
	Element byte

	// Component separates sub-elements within a composite element.
	Component byte

	// Terminator ends a segment.
	Terminator byte
}

// Default returns the conventional X12 delimiter set ("*", ":", "~").
func Default() DelimiterSet {
	return DelimiterSet{Element: '*', Component: ':', Terminator: '~'}
}

// Discover reads the delimiter set from the fixed ISA offsets of raw
// transaction text. It fails with ErrMalformedEnvelope when the first
// segment is not an ISA, is shorter than the fixed ISA width, or yields
// delimiters that are not three distinct printable characters.
func Discover(text string) (DelimiterSet, error) {
	if !strings.HasPrefix(text, isaIdentifier) {
		return DelimiterSet{}, fmt.Errorf("%w: first segment is not %s", ErrMalformedEnvelope, isaIdentifier)
	}
	if len(text) < isaLength {
		return DelimiterSet{}, fmt.Errorf("%w: %s segment shorter than %d bytes", ErrMalformedEnvelope, isaIdentifier, isaLength)
	}

	d := DelimiterSet{
		Element:    text[isaElementOffset],
		Component:  text[isaComponentOffset],
		Terminator: text[isaTerminatorOffset],
	}
	if err := d.Validate(); err != nil {
		return DelimiterSet{}, err
	}
	return d, nil
}

// Validate checks the delimiter invariant: three distinct printable
// characters. Violations are reported as ErrMalformedEnvelope because the
// only way to obtain an invalid set is a corrupt ISA segment.
func (d DelimiterSet) Validate() error {
	for _, c := range [3]byte{d.Element, d.Component, d.Terminator} {
		if c <= 0x20 || c >= 0x7F {
			return fmt.Errorf("%w: delimiter %q is not printable", ErrMalformedEnvelope, c)
		}
	}
	if d.Element == d.Component || d.Element == d.Terminator || d.Component == d.Terminator {
		return fmt.Errorf("%w: delimiters %q %q %q are not distinct",
			ErrMalformedEnvelope, d.Element, d.Component, d.Terminator)
	}
	return nil
}
