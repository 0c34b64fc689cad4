// Package extract projects loop-annotated segment sequences into the claim
// business model, and offers a flat, structure-free projection for
// debugging and for building alternative extractors.
package extract

import (
	"fmt"

	x12 "github.com/gox12/claims"
	"github.com/gox12/claims/loop"
	"github.com/gox12/claims/token"
)

// StageName identifies the extraction stage in findings and metrics.
const StageName = "extract"

// Extractor projects claim loops into Claim records. It holds no mutable
// state: extracting twice from the same inputs yields identical output.
type Extractor struct {
	profile loop.Profile
	strict  bool
}

// NewExtractor creates an extractor for the given trigger profile. When
// strict is true, missing trigger values are reported as findings; the
// extracted fields are empty strings either way.
func NewExtractor(profile loop.Profile, strict bool) *Extractor {
	return &Extractor{profile: profile, strict: strict}
}

// Claims projects each claim span into a Claim with its nested service
// lines, ordered by claim span start position. The segment slice must be
// the full tokenized sequence the spans were derived from, so span
// positions index into it directly.
//
// Missing values never abort extraction: a claim trigger without an
// identifier or charge yields empty strings (real-world files carry
// unpriced claims during editing workflows), and a service-line span
// without a service detail segment produces no service line.
func (e *Extractor) Claims(segments []token.Segment, spans []loop.Span) ([]x12.Claim, []x12.Finding) {
	var findings []x12.Finding

	claimSpans := loop.Claims(spans)
	claims := make([]x12.Claim, 0, len(claimSpans))

	for _, span := range claimSpans {
		trigger, ok := segmentAt(segments, span.Start)
		if !ok || trigger.ID() != e.profile.ClaimTrigger {
			// Spans always open on their trigger segment; anything else
			// means the spans belong to a different sequence.
			findings = append(findings, x12.Warning(x12.TypeProcessing).
				Diagnostics(fmt.Sprintf("claim span at %d does not start on a %s segment", span.Start, e.profile.ClaimTrigger)).
				Stage(StageName).
				Build())
			continue
		}

		claim := x12.Claim{
			ClaimID:      trigger.Element(1),
			TotalCharge:  trigger.Element(2),
			ServiceLines: make([]x12.ServiceLine, 0, 4),
		}

		if e.strict {
			if claim.ClaimID == "" {
				findings = append(findings, e.missingField(trigger, "claim identifier"))
			}
			if claim.TotalCharge == "" {
				findings = append(findings, e.missingField(trigger, "total charge"))
			}
		}

		for _, lineSpan := range loop.ServiceLines(spans, span) {
			line, lineFindings, ok := e.serviceLine(segments, lineSpan)
			findings = append(findings, lineFindings...)
			if ok {
				claim.ServiceLines = append(claim.ServiceLines, line)
			}
		}

		claims = append(claims, claim)
	}

	return claims, findings
}

// serviceLine locates the service detail segment anywhere within the span
// (it is not necessarily the trigger segment) and reads the procedure code
// and line charge. A span without a detail segment is skipped; that is not
// an error.
func (e *Extractor) serviceLine(segments []token.Segment, span loop.Span) (x12.ServiceLine, []x12.Finding, bool) {
	var detail token.Segment
	found := false
	for pos := span.Start; pos < span.End; pos++ {
		seg, ok := segmentAt(segments, pos)
		if ok && seg.ID() == e.profile.ServiceDetail {
			detail = seg
			found = true
			break
		}
	}
	if !found {
		if e.strict {
			return x12.ServiceLine{}, []x12.Finding{
				x12.Info(x12.TypeMissingField).
					Diagnostics(fmt.Sprintf("service-line loop at %d contains no %s segment", span.Start, e.profile.ServiceDetail)).
					Stage(StageName).
					Build(),
			}, false
		}
		return x12.ServiceLine{}, nil, false
	}

	line := x12.ServiceLine{
		ProcedureCode: e.procedureCode(detail),
		LineCharge:    lineCharge(detail),
	}

	var findings []x12.Finding
	if e.strict {
		if line.ProcedureCode == "" {
			findings = append(findings, e.missingField(detail, "procedure code"))
		}
		if line.LineCharge == "" {
			findings = append(findings, e.missingField(detail, "line charge"))
		}
	}
	return line, findings, true
}

// procedureCode rejoins the first two sub-elements of the composite first
// element with the component separator, matching the source's compound
// qualifier:code representation. A plain element passes through unchanged.
func (e *Extractor) procedureCode(detail token.Segment) string {
	comps := detail.Components(1)
	switch {
	case len(comps) >= 2:
		return comps[0] + string(detail.Delimiters().Component) + comps[1]
	case len(comps) == 1:
		return comps[0]
	default:
		return ""
	}
}

// lineCharge reads the monetary amount from the service detail segment.
// The amount normally sits in the second element; some producers double
// the separator after the procedure composite, shifting the amount into
// the third slot.
func lineCharge(detail token.Segment) string {
	if charge := detail.Element(2); charge != "" {
		return charge
	}
	return detail.Element(3)
}

func (e *Extractor) missingField(seg token.Segment, what string) x12.Finding {
	return x12.Info(x12.TypeMissingField).
		Diagnostics(fmt.Sprintf("%s segment lacks a %s", seg.ID(), what)).
		At(seg.ID(), seg.Position()).
		Stage(StageName).
		Build()
}

// segmentAt returns the segment at the given position. Tokenization
// assigns positions densely, so position equals slice index.
func segmentAt(segments []token.Segment, position int) (token.Segment, bool) {
	if position < 0 || position >= len(segments) {
		return token.Segment{}, false
	}
	return segments[position], true
}
