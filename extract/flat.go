package extract

import (
	x12 "github.com/gox12/claims"
	"github.com/gox12/claims/token"
)

// Flatten produces the structure-free projection of a full segment
// sequence: every segment in exact source order, envelope and trailer
// segments included, with no filtering and no interpretation.
//
// The file argument is a caller-supplied source identifier and is carried
// through opaquely.
func Flatten(segments []token.Segment, file string) x12.FlatTransaction {
	flat := x12.FlatTransaction{
		File:     file,
		Segments: make([]x12.FlatSegment, 0, len(segments)),
	}
	for _, seg := range segments {
		elements := make([]string, len(seg.Elements()))
		copy(elements, seg.Elements())
		flat.Segments = append(flat.Segments, x12.FlatSegment{
			SegmentID: seg.ID(),
			Elements:  elements,
		})
	}
	return flat
}
