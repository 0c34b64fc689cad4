package x12claims

import (
	"sync"
	"testing"
)

func TestAcquireResult(t *testing.T) {
	r := AcquireResult()
	defer r.Release()

	if !r.Valid {
		t.Error("acquired result should start valid")
	}
	if len(r.Findings) != 0 {
		t.Errorf("acquired result has %d findings; want 0", len(r.Findings))
	}
	if r.Claims != nil {
		t.Error("acquired result should have no claims")
	}
}

func TestResult_Reuse(t *testing.T) {
	r := AcquireResult()
	r.AddError(TypeEnvelopeMismatch, "control numbers disagree", "IEA", 8)
	r.TransactionControl = "0001"
	r.Claims = []Claim{{ClaimID: "1001"}}
	r.Release()

	r2 := AcquireResult()
	defer r2.Release()
	if !r2.Valid || len(r2.Findings) != 0 || r2.Claims != nil || r2.TransactionControl != "" {
		t.Error("reacquired result was not reset")
	}
}

func TestResult_AddFinding(t *testing.T) {
	r := NewResult()

	r.AddFinding(Warning(TypeUnbalanced).Diagnostics("total 100, lines sum 90").Build())
	if !r.Valid {
		t.Error("warning should not invalidate the result")
	}

	r.AddFinding(Error(TypeEnvelopeMismatch).Diagnostics("missing IEA").Build())
	if r.Valid {
		t.Error("error finding should invalidate the result")
	}
	if len(r.Findings) != 2 {
		t.Errorf("len(Findings) = %d; want 2", len(r.Findings))
	}
}

func TestResult_AddFindings(t *testing.T) {
	r := NewResult()
	r.AddFindings(nil)
	if len(r.Findings) != 0 {
		t.Error("nil batch should be a no-op")
	}

	r.AddFindings([]Finding{
		Warning(TypeHierarchy).Diagnostics("orphan node").Build(),
		Error(TypeEnvelopeMismatch).Diagnostics("GE count off").Build(),
	})
	if r.Valid {
		t.Error("batch containing an error should invalidate the result")
	}
}

func TestResult_Counts(t *testing.T) {
	r := NewResult()
	r.AddError(TypeEnvelopeMismatch, "a", "SE", 6)
	r.AddError(TypeProcessing, "b", "", -1)
	r.AddWarning(TypeUnbalanced, "c", "CLM", 3)
	r.AddFinding(Info(TypeMissingField).Diagnostics("d").Build())

	if got := r.ErrorCount(); got != 2 {
		t.Errorf("ErrorCount() = %d; want 2", got)
	}
	if got := r.WarningCount(); got != 1 {
		t.Errorf("WarningCount() = %d; want 1", got)
	}
	if !r.HasErrors() {
		t.Error("HasErrors() = false; want true")
	}
	if !r.HasWarnings() {
		t.Error("HasWarnings() = false; want true")
	}
	if got := len(r.Errors()); got != 2 {
		t.Errorf("len(Errors()) = %d; want 2", got)
	}
	if got := len(r.Warnings()); got != 1 {
		t.Errorf("len(Warnings()) = %d; want 1", got)
	}
}

func TestResult_Merge(t *testing.T) {
	r := NewResult()
	other := NewResult()
	other.AddError(TypeEnvelopeMismatch, "bad trailer", "SE", 6)

	r.Merge(other)
	if r.Valid {
		t.Error("merging an error should invalidate the target")
	}
	if len(r.Findings) != 1 {
		t.Errorf("len(Findings) = %d; want 1", len(r.Findings))
	}

	r.Merge(nil) // no-op
	if len(r.Findings) != 1 {
		t.Error("merging nil should not change findings")
	}
}

func TestResult_Clone(t *testing.T) {
	r := NewResult()
	r.AddWarning(TypeUnbalanced, "off by ten", "CLM", 3)
	r.Claims = []Claim{{ClaimID: "1001", TotalCharge: "100"}}
	r.TransactionControl = "0001"
	r.Source = "claims.837"

	clone := r.Clone()
	if clone.TransactionControl != "0001" || clone.Source != "claims.837" {
		t.Error("clone dropped scalar fields")
	}
	if len(clone.Findings) != 1 || len(clone.Claims) != 1 {
		t.Error("clone dropped findings or claims")
	}

	clone.AddError(TypeProcessing, "only in clone", "", -1)
	if len(r.Findings) != 1 {
		t.Error("mutating the clone changed the original")
	}
}

func TestResult_ConcurrentAddFinding(t *testing.T) {
	r := NewResult()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.AddWarning(TypeUnbalanced, "concurrent", "CLM", 0)
		}()
	}
	wg.Wait()

	if got := r.WarningCount(); got != 50 {
		t.Errorf("WarningCount() = %d; want 50", got)
	}
}
