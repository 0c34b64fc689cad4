package x12claims

import (
	"sync"
)

// Result contains the outcome of parsing one X12 transaction.
// Use Release() to return it to the pool when done for better performance.
type Result struct {
	// Valid is true if no error findings were recorded (warnings are allowed)
	Valid bool `json:"valid"`

	// Findings contains all non-fatal observations made while parsing
	Findings []Finding `json:"findings,omitempty"`

	// Claims holds the extracted claims in source order
	Claims []Claim `json:"claims"`

	// TransactionControl is the ST02 transaction set control number
	TransactionControl string `json:"transactionControl,omitempty"`

	// Source is the caller-supplied source identifier (file name, job ID)
	Source string `json:"source,omitempty"`

	// mu protects concurrent access to Findings
	mu sync.Mutex
}

// resultPool holds reusable Result instances.
var resultPool = sync.Pool{
	New: func() any {
		return &Result{
			Findings: make([]Finding, 0, 16),
		}
	},
}

// AcquireResult gets a Result from the pool.
// The result starts as valid with no findings and no claims.
func AcquireResult() *Result {
	r := resultPool.Get().(*Result)
	r.Reset()
	return r
}

// Release returns the Result to the pool.
// After calling Release, the Result should not be used.
func (r *Result) Release() {
	if r == nil {
		return
	}
	// Don't return results with oversized finding slices
	if cap(r.Findings) <= 1024 {
		resultPool.Put(r)
	}
}

// Reset clears the result for reuse.
func (r *Result) Reset() {
	r.Valid = true
	r.Findings = r.Findings[:0]
	r.Claims = nil
	r.TransactionControl = ""
	r.Source = ""
}

// AddFinding adds a finding to the result.
// This method is thread-safe.
func (r *Result) AddFinding(finding Finding) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Findings = append(r.Findings, finding)
	if finding.IsError() {
		r.Valid = false
	}
}

// AddFindings adds multiple findings to the result.
// This method is thread-safe.
func (r *Result) AddFindings(findings []Finding) {
	if len(findings) == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.Findings = append(r.Findings, findings...)
	for _, f := range findings {
		if f.IsError() {
			r.Valid = false
			break
		}
	}
}

// AddError is a convenience method to add an error finding.
func (r *Result) AddError(code FindingType, diagnostics, segmentID string, position int) {
	r.AddFinding(Finding{
		Severity:    SeverityError,
		Code:        code,
		Diagnostics: diagnostics,
		SegmentID:   segmentID,
		Position:    position,
	})
}

// AddWarning is a convenience method to add a warning finding.
func (r *Result) AddWarning(code FindingType, diagnostics, segmentID string, position int) {
	r.AddFinding(Finding{
		Severity:    SeverityWarning,
		Code:        code,
		Diagnostics: diagnostics,
		SegmentID:   segmentID,
		Position:    position,
	})
}

// HasErrors returns true if there are any error or fatal findings.
func (r *Result) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.Findings {
		if f.IsError() {
			return true
		}
	}
	return false
}

// HasWarnings returns true if there are any warning findings.
func (r *Result) HasWarnings() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.Findings {
		if f.IsWarning() {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error and fatal findings.
func (r *Result) ErrorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, f := range r.Findings {
		if f.IsError() {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning findings.
func (r *Result) WarningCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, f := range r.Findings {
		if f.IsWarning() {
			count++
		}
	}
	return count
}

// Errors returns all error and fatal findings.
func (r *Result) Errors() []Finding {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errors []Finding
	for _, f := range r.Findings {
		if f.IsError() {
			errors = append(errors, f)
		}
	}
	return errors
}

// Warnings returns all warning findings.
func (r *Result) Warnings() []Finding {
	r.mu.Lock()
	defer r.mu.Unlock()

	var warnings []Finding
	for _, f := range r.Findings {
		if f.IsWarning() {
			warnings = append(warnings, f)
		}
	}
	return warnings
}

// Merge combines another result's findings into this one.
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}

	other.mu.Lock()
	findings := make([]Finding, len(other.Findings))
	copy(findings, other.Findings)
	other.mu.Unlock()

	r.AddFindings(findings)
}

// Clone creates a copy of the result (not pooled).
func (r *Result) Clone() *Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := &Result{
		Valid:              r.Valid,
		Findings:           make([]Finding, len(r.Findings)),
		Claims:             make([]Claim, len(r.Claims)),
		TransactionControl: r.TransactionControl,
		Source:             r.Source,
	}
	copy(clone.Findings, r.Findings)
	copy(clone.Claims, r.Claims)
	return clone
}

// NewResult creates a new (non-pooled) result.
// Prefer AcquireResult() for better performance.
func NewResult() *Result {
	return &Result{
		Valid:    true,
		Findings: make([]Finding, 0, 8),
	}
}
