// Package envelope verifies the structural consistency of the X12
// interchange wrapping: an ISA..IEA pair, GS..GE groups nested inside,
// and ST..SE transaction sets nested inside those.
//
// Violations are reported as findings, never as errors: downstream stages
// only need the segments they care about, so a broken envelope must not
// prevent claim extraction. Callers surface the findings instead.
package envelope

import (
	"fmt"
	"strconv"

	x12 "github.com/gox12/claims"
	"github.com/gox12/claims/token"
)

// StageName identifies the envelope stage in findings and metrics.
const StageName = "envelope"

// Envelope segment identifiers.
const (
	idInterchangeHeader  = "ISA"
	idInterchangeTrailer = "IEA"
	idGroupHeader        = "GS"
	idGroupTrailer       = "GE"
	idTransactionHeader  = "ST"
	idTransactionTrailer = "SE"
)

// trailerFor maps each header identifier to its trailer.
var trailerFor = map[string]string{
	idInterchangeHeader: idInterchangeTrailer,
	idGroupHeader:       idGroupTrailer,
	idTransactionHeader: idTransactionTrailer,
}

// headerFor maps each trailer identifier back to its header.
var headerFor = map[string]string{
	idInterchangeTrailer: idInterchangeHeader,
	idGroupTrailer:       idGroupHeader,
	idTransactionTrailer: idTransactionHeader,
}

// frame is one open header on the nesting stack.
type frame struct {
	header token.Segment

	// children counts immediate child headers (GS under ISA, ST under GS),
	// checked against the trailer's declared count.
	children int
}

// Validate checks header/trailer pairing, control number agreement, and
// declared counts over the full segment sequence. It returns the list of
// findings in segment order; an empty list means the envelope is sound.
func Validate(segments []token.Segment) []x12.Finding {
	var findings []x12.Finding
	var stack []frame

	mismatch := func(seg token.Segment, format string, args ...any) {
		findings = append(findings, x12.Error(x12.TypeEnvelopeMismatch).
			Diagnostics(fmt.Sprintf(format, args...)).
			At(seg.ID(), seg.Position()).
			Stage(StageName).
			Build())
	}

	for _, seg := range segments {
		switch seg.ID() {
		case idInterchangeHeader, idGroupHeader, idTransactionHeader:
			if len(stack) > 0 {
				stack[len(stack)-1].children++
			}
			stack = append(stack, frame{header: seg})

		case idInterchangeTrailer, idGroupTrailer, idTransactionTrailer:
			if len(stack) == 0 {
				mismatch(seg, "%s trailer without a matching %s header", seg.ID(), headerFor[seg.ID()])
				continue
			}
			top := stack[len(stack)-1]
			if trailerFor[top.header.ID()] != seg.ID() {
				// The innermost open header is of a different kind, so a
				// trailer appeared after an enclosing trailer's boundary.
				mismatch(seg, "%s trailer closes %s while %s is still open",
					seg.ID(), headerFor[seg.ID()], top.header.ID())
				continue
			}
			stack = stack[:len(stack)-1]
			findings = append(findings, checkPair(top, seg)...)
		}
	}

	// Anything still open never saw its trailer.
	for i := len(stack) - 1; i >= 0; i-- {
		h := stack[i].header
		mismatch(h, "%s header has no matching %s trailer", h.ID(), trailerFor[h.ID()])
	}

	return findings
}

// checkPair runs the header/trailer agreement checks for one closed pair.
func checkPair(open frame, trailer token.Segment) []x12.Finding {
	var findings []x12.Finding
	header := open.header

	mismatch := func(format string, args ...any) {
		findings = append(findings, x12.Error(x12.TypeEnvelopeMismatch).
			Diagnostics(fmt.Sprintf(format, args...)).
			At(trailer.ID(), trailer.Position()).
			Stage(StageName).
			Build())
	}

	switch header.ID() {
	case idTransactionHeader:
		// ST02 and SE02 carry the transaction set control number.
		if header.Element(2) != trailer.Element(2) {
			mismatch("transaction control number %q in ST does not match %q in SE",
				header.Element(2), trailer.Element(2))
		}
		// SE01 declares the segment count from ST to SE inclusive.
		declared, err := strconv.Atoi(trailer.Element(1))
		if err != nil {
			mismatch("SE declares non-numeric segment count %q", trailer.Element(1))
			break
		}
		actual := trailer.Position() - header.Position() + 1
		if declared != actual {
			mismatch("SE declares %d segments, transaction set contains %d", declared, actual)
		}

	case idGroupHeader:
		// GE01 declares the number of transaction sets in the group.
		if declared, err := strconv.Atoi(trailer.Element(1)); err == nil && declared != open.children {
			mismatch("GE declares %d transaction sets, group contains %d", declared, open.children)
		}
		// GS06 and GE02 carry the group control number.
		if header.Element(6) != trailer.Element(2) {
			mismatch("group control number %q in GS does not match %q in GE",
				header.Element(6), trailer.Element(2))
		}

	case idInterchangeHeader:
		// IEA01 declares the number of functional groups.
		if declared, err := strconv.Atoi(trailer.Element(1)); err == nil && declared != open.children {
			mismatch("IEA declares %d functional groups, interchange contains %d", declared, open.children)
		}
		// ISA13 and IEA02 carry the interchange control number.
		if header.Element(13) != trailer.Element(2) {
			mismatch("interchange control number %q in ISA does not match %q in IEA",
				header.Element(13), trailer.Element(2))
		}
	}

	return findings
}

// TransactionControl returns the ST02 control number of the first
// transaction set in the sequence, or the empty string when no ST segment
// is present.
func TransactionControl(segments []token.Segment) string {
	for _, seg := range segments {
		if seg.ID() == idTransactionHeader {
			return seg.Element(2)
		}
	}
	return ""
}

// TransactionRange returns the positions delimiting the first ST..SE
// transaction set: start is the position after ST, end is the SE position.
// When no ST is found, it returns (0, len(segments), false) so callers can
// fall back to walking the whole sequence.
func TransactionRange(segments []token.Segment) (start, end int, ok bool) {
	start, end = 0, len(segments)
	for i, seg := range segments {
		switch seg.ID() {
		case idTransactionHeader:
			if !ok {
				start = i + 1
				ok = true
			}
		case idTransactionTrailer:
			if ok {
				return start, i, true
			}
		}
	}
	if ok {
		return start, len(segments), true
	}
	return 0, len(segments), false
}
