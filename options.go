package x12claims

import (
	"runtime"
)

// Option configures the Parser.
type Option func(*Options)

// Options holds all configuration for the Parser.
type Options struct {
	// Extraction behavior
	StrictMode           bool
	ChargeAudit          bool
	HierarchyDiagnostics bool
	ValidateEnvelope     bool

	// Performance
	MaxFindings   int
	WorkerCount   int
	EnablePooling bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		// Envelope checks run by default; findings never abort extraction
		ValidateEnvelope: true,

		// Disabled by default: the source format tolerates unpriced and
		// partially edited claims
		StrictMode:           false,
		ChargeAudit:          false,
		HierarchyDiagnostics: false,

		// Performance defaults
		MaxFindings:   0, // unlimited
		WorkerCount:   runtime.NumCPU(),
		EnablePooling: true,
	}
}

// --- Extraction Options ---

// WithStrictMode reports missing claim and service-line values as findings
// instead of silently producing empty strings. Extraction still proceeds.
func WithStrictMode(enable bool) Option {
	return func(o *Options) {
		o.StrictMode = enable
	}
}

// WithChargeAudit compares each claim's total charge against the sum of its
// service-line charges and reports mismatches as warning findings.
func WithChargeAudit(enable bool) Option {
	return func(o *Options) {
		o.ChargeAudit = enable
	}
}

// WithHierarchyDiagnostics builds the HL node forest and reports orphaned
// parent references as findings. The forest is diagnostic only; claim
// extraction does not depend on it.
func WithHierarchyDiagnostics(enable bool) Option {
	return func(o *Options) {
		o.HierarchyDiagnostics = enable
	}
}

// WithEnvelopeValidation enables or disables the envelope header/trailer
// consistency checks.
func WithEnvelopeValidation(enable bool) Option {
	return func(o *Options) {
		o.ValidateEnvelope = enable
	}
}

// --- Performance Options ---

// WithMaxFindings caps the number of findings recorded per transaction.
// Use 0 for unlimited.
func WithMaxFindings(max int) Option {
	return func(o *Options) {
		o.MaxFindings = max
	}
}

// WithWorkerCount sets the number of workers for batch parsing.
// Defaults to runtime.NumCPU().
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithPooling enables or disables result pooling.
// Pooling reduces GC pressure but requires calling Release() on results.
func WithPooling(enable bool) Option {
	return func(o *Options) {
		o.EnablePooling = enable
	}
}

// --- Presets ---

// StrictOptions returns options for strict data-quality parsing.
// Every missing field and unbalanced claim is surfaced as a finding.
func StrictOptions() []Option {
	return []Option{
		WithStrictMode(true),
		WithChargeAudit(true),
		WithHierarchyDiagnostics(true),
		WithEnvelopeValidation(true),
	}
}

// DebugOptions returns options useful for debugging.
// Disables pooling for easier inspection and caps finding volume.
func DebugOptions() []Option {
	return []Option{
		WithHierarchyDiagnostics(true),
		WithPooling(false),
		WithMaxFindings(100),
	}
}
