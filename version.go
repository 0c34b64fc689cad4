package x12claims

// TransactionSet represents an X12 transaction set shape.
type TransactionSet string

// Supported transaction sets.
const (
	// Set837P is the professional healthcare claim (837 Professional).
	Set837P TransactionSet = "837P"
	// Set837I is the institutional healthcare claim (837 Institutional).
	Set837I TransactionSet = "837I"
)

// String returns the transaction set string.
func (t TransactionSet) String() string {
	return string(t)
}

// IsValid returns true if this is a supported transaction set.
func (t TransactionSet) IsValid() bool {
	switch t {
	case Set837P, Set837I:
		return true
	default:
		return false
	}
}

// Version is the library version.
const Version = "0.1.0"
