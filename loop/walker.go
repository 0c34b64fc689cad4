package loop

import "github.com/gox12/claims/token"

// Kind tags a loop span with its business role.
type Kind string

const (
	// ClaimLoop is a 2300 claim information loop.
	ClaimLoop Kind = "claim"
	// ServiceLineLoop is a 2400 service line loop.
	ServiceLineLoop Kind = "service-line"
)

// Span is a contiguous range of segment positions [Start, End) tagged with
// a loop kind. Spans of the same kind never overlap, and every service-line
// span is fully contained in exactly one claim span.
type Span struct {
	Kind  Kind
	Start int
	End   int
}

// Contains reports whether the span covers the given segment position.
func (s Span) Contains(position int) bool {
	return position >= s.Start && position < s.End
}

// walker states
type state int

const (
	stateOutside state = iota
	stateInClaim
	stateInServiceLine
)

// Walker detects loop boundaries from trigger segments.
type Walker struct {
	profile Profile
}

// NewWalker creates a walker for the given trigger profile.
func NewWalker(profile Profile) *Walker {
	return &Walker{profile: profile}
}

// Profile returns the walker's trigger profile.
func (w *Walker) Profile() Profile {
	return w.profile
}

// Walk consumes a segment sequence and returns its loop spans in opening
// order. Callers normally pass the segments between ST and SE; the walker
// itself accepts any sequence and never fails.
func (w *Walker) Walk(segments []token.Segment) []Span {
	if len(segments) == 0 {
		return nil
	}

	var spans []Span
	st := stateOutside
	openClaim := -1 // index into spans
	openLine := -1

	closeLine := func(at int) {
		if openLine >= 0 {
			spans[openLine].End = at
			openLine = -1
		}
	}
	closeClaim := func(at int) {
		closeLine(at)
		if openClaim >= 0 {
			spans[openClaim].End = at
			openClaim = -1
		}
	}

	for _, seg := range segments {
		pos := seg.Position()
		switch seg.ID() {
		case w.profile.ClaimTrigger:
			// A new claim closes everything at or below the claim level.
			closeClaim(pos)
			spans = append(spans, Span{Kind: ClaimLoop, Start: pos})
			openClaim = len(spans) - 1
			st = stateInClaim

		case w.profile.ServiceTrigger:
			if st == stateInClaim || st == stateInServiceLine {
				closeLine(pos)
				spans = append(spans, Span{Kind: ServiceLineLoop, Start: pos})
				openLine = len(spans) - 1
				st = stateInServiceLine
			}

		case w.profile.HierarchyTrigger:
			// An HL segment is a hierarchical-level boundary that claims
			// cannot cross.
			if st != stateOutside {
				closeClaim(pos)
				st = stateOutside
			}
		}
	}

	// End of range closes whatever is still open, one past the last segment.
	closeClaim(segments[len(segments)-1].Position() + 1)

	return spans
}

// Claims returns only the claim spans, in opening order.
func Claims(spans []Span) []Span {
	var out []Span
	for _, s := range spans {
		if s.Kind == ClaimLoop {
			out = append(out, s)
		}
	}
	return out
}

// ServiceLines returns the service-line spans nested within the given
// claim span, in opening order.
func ServiceLines(spans []Span, claim Span) []Span {
	var out []Span
	for _, s := range spans {
		if s.Kind == ServiceLineLoop && s.Start >= claim.Start && s.End <= claim.End {
			out = append(out, s)
		}
	}
	return out
}
