package token

import (
	"fmt"
	"strings"
)

// Tokenize discovers the delimiter set from the leading ISA segment and
// splits the text into its ordered segment sequence. It fails with
// ErrMalformedEnvelope when discovery is impossible and ErrMalformedInput
// when the text contains no segment terminator.
func Tokenize(text string) ([]Segment, DelimiterSet, error) {
	delims, err := Discover(text)
	if err != nil {
		return nil, DelimiterSet{}, err
	}
	segs, err := TokenizeWith(text, delims)
	if err != nil {
		return nil, DelimiterSet{}, err
	}
	return segs, delims, nil
}

// TokenizeWith splits the text into segments using an externally supplied
// delimiter set. Empty fragments (such as the one after a trailing
// terminator) are dropped; every other fragment becomes one segment. Line
// breaks between segments are tolerated, matching the common practice of
// wrapping X12 files for readability.
func TokenizeWith(text string, delims DelimiterSet) ([]Segment, error) {
	if err := delims.Validate(); err != nil {
		return nil, err
	}
	if strings.IndexByte(text, delims.Terminator) < 0 {
		return nil, fmt.Errorf("%w: no segment terminator %q in input", ErrMalformedInput, delims.Terminator)
	}

	fragments := strings.Split(text, string(delims.Terminator))
	segments := make([]Segment, 0, len(fragments))
	for _, fragment := range fragments {
		fragment = strings.Trim(fragment, "\r\n")
		if fragment == "" {
			continue
		}
		segments = append(segments, newSegment(fragment, len(segments), delims))
	}
	return segments, nil
}

// Join reassembles a segment sequence into transaction text, terminating
// every segment. For any sequence produced by Tokenize, Join reproduces
// the original text up to the trailing-terminator normalization.
func Join(segments []Segment, delims DelimiterSet) string {
	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.String())
		b.WriteByte(delims.Terminator)
	}
	return b.String()
}
