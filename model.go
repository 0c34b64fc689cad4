package x12claims

// Claim is the extracted business record for one 2300 claim loop.
// Charges are kept as decimal strings, preserving the source formatting
// and precision exactly as submitted.
type Claim struct {
	// ClaimID is the patient control number from CLM01. Empty when the
	// trigger segment carries no value (a data-quality signal, not an error).
	ClaimID string `json:"claim_id"`

	// TotalCharge is the total claim charge from CLM02 as a decimal string.
	TotalCharge string `json:"total_charge"`

	// ServiceLines holds the claim's 2400 service lines in source order.
	// Always non-nil; claims without service lines carry an empty slice.
	ServiceLines []ServiceLine `json:"service_lines"`
}

// ServiceLine is the extracted record for one 2400 service-line loop.
type ServiceLine struct {
	// ProcedureCode is the qualifier-prefixed procedure from SV101,
	// e.g. "HC:99213".
	ProcedureCode string `json:"procedure_code"`

	// LineCharge is the line item charge from SV102 as a decimal string.
	LineCharge string `json:"line_charge"`
}

// FlatSegment is one segment in a flat, structure-free projection.
type FlatSegment struct {
	// SegmentID is the segment identifier, e.g. "ISA", "CLM", "SV1".
	SegmentID string `json:"segment_id"`

	// Elements holds the segment's element values in source order,
	// not including the identifier.
	Elements []string `json:"elements"`
}

// FlatTransaction is the Flat Projector output: every segment of the
// transaction in exact source order, envelope and trailers included,
// with no filtering and no interpretation.
type FlatTransaction struct {
	// File is a caller-supplied source identifier, opaque to the engine.
	File string `json:"file"`

	// Segments lists all segments in source order.
	Segments []FlatSegment `json:"segments"`
}
