package x12claims

import "strconv"

// Severity represents the severity of a parse finding.
type Severity string

const (
	// SeverityFatal indicates the transaction could not be parsed at all.
	SeverityFatal Severity = "fatal"
	// SeverityError indicates a structural violation in the transaction.
	SeverityError Severity = "error"
	// SeverityWarning indicates a data-quality problem that should be reviewed.
	SeverityWarning Severity = "warning"
	// SeverityInformation indicates informational feedback.
	SeverityInformation Severity = "information"
)

// FindingType classifies the kind of parse finding.
type FindingType string

const (
	// TypeMalformedEnvelope indicates the interchange header is absent,
	// too short, or not an ISA segment, so delimiter discovery failed.
	TypeMalformedEnvelope FindingType = "malformed-envelope"
	// TypeMalformedInput indicates the text contains no segment terminator.
	TypeMalformedInput FindingType = "malformed-input"
	// TypeEnvelopeMismatch indicates a header/trailer pairing or count
	// inconsistency in the ISA/GS/ST envelope.
	TypeEnvelopeMismatch FindingType = "envelope-mismatch"
	// TypeMissingField indicates a claim or service-line trigger segment
	// lacks an expected value. Surfaced only in strict mode; extraction
	// always proceeds with an empty string.
	TypeMissingField FindingType = "missing-field"
	// TypeUnbalanced indicates a claim total that does not equal the sum
	// of its service-line charges.
	TypeUnbalanced FindingType = "unbalanced"
	// TypeHierarchy indicates an HL segment referencing an undeclared
	// parent node.
	TypeHierarchy FindingType = "hierarchy"
	// TypeProcessing indicates an internal processing problem.
	TypeProcessing FindingType = "processing"
)

// Finding represents a single non-fatal observation made while parsing a
// transaction. Fatal conditions (MalformedEnvelope, MalformedInput) are
// returned as errors instead; everything downstream of a successful
// tokenization degrades to findings.
type Finding struct {
	// Severity of the finding
	Severity Severity `json:"severity"`

	// Code identifying the type of finding
	Code FindingType `json:"code"`

	// Diagnostics contains human-readable details about the finding
	Diagnostics string `json:"diagnostics,omitempty"`

	// SegmentID is the identifier of the segment the finding refers to
	SegmentID string `json:"segmentId,omitempty"`

	// Position is the zero-based segment position within the transaction.
	// -1 means the finding is not tied to a single segment.
	Position int `json:"position"`

	// Stage is the parse stage that generated this finding
	Stage string `json:"stage,omitempty"`
}

// IsError returns true if this is an error or fatal finding.
func (f Finding) IsError() bool {
	return f.Severity == SeverityError || f.Severity == SeverityFatal
}

// IsWarning returns true if this is a warning.
func (f Finding) IsWarning() bool {
	return f.Severity == SeverityWarning
}

// String returns a human-readable representation of the finding.
func (f Finding) String() string {
	s := string(f.Severity) + ": " + f.Diagnostics
	if f.SegmentID != "" {
		s += " at " + f.SegmentID
		if f.Position >= 0 {
			s += "[" + strconv.Itoa(f.Position) + "]"
		}
	}
	return s
}

// FindingBuilder provides a fluent API for building findings.
type FindingBuilder struct {
	finding Finding
}

// NewFinding creates a new FindingBuilder.
func NewFinding(severity Severity, code FindingType) *FindingBuilder {
	return &FindingBuilder{
		finding: Finding{
			Severity: severity,
			Code:     code,
			Position: -1,
		},
	}
}

// Error creates an error finding.
func Error(code FindingType) *FindingBuilder {
	return NewFinding(SeverityError, code)
}

// Warning creates a warning finding.
func Warning(code FindingType) *FindingBuilder {
	return NewFinding(SeverityWarning, code)
}

// Info creates an informational finding.
func Info(code FindingType) *FindingBuilder {
	return NewFinding(SeverityInformation, code)
}

// Diagnostics sets the diagnostic message.
func (b *FindingBuilder) Diagnostics(msg string) *FindingBuilder {
	b.finding.Diagnostics = msg
	return b
}

// At sets the segment identifier and position the finding refers to.
func (b *FindingBuilder) At(segmentID string, position int) *FindingBuilder {
	b.finding.SegmentID = segmentID
	b.finding.Position = position
	return b
}

// Stage sets the parse stage.
func (b *FindingBuilder) Stage(stage string) *FindingBuilder {
	b.finding.Stage = stage
	return b
}

// Build returns the constructed finding.
func (b *FindingBuilder) Build() Finding {
	return b.finding
}
