package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	x12 "github.com/gox12/claims"
	"github.com/gox12/claims/loop"
	"github.com/gox12/claims/token"
)

// sample837P carries one claim with one service line. Its SE trailer
// declares six segments while the ST..SE span contains five, so envelope
// validation reports exactly one mismatch.
const sample837P = "ISA*00*          *00*          *ZZ*SENDER         *ZZ*RECEIVER       *210101*1200*^*00501*000000001*0*P*:~" +
	"GS*HC*SENDER*RECEIVER*20210101*1200*1*X*005010X222A1~" +
	"ST*837*0001*005010X222A1~" +
	"CLM*1001*100***11:B:1*Y*A*Y*Y~" +
	"LX*1~" +
	"SV1*HC:99213**100**1~" +
	"SE*6*0001~" +
	"GE*1*1~" +
	"IEA*1*000000001~"

// clean837P is the same interchange with an accurate SE count.
var clean837P = strings.Replace(sample837P, "SE*6*0001~", "SE*5*0001~", 1)

func newParser(t *testing.T, opts ...x12.Option) *Parser {
	t.Helper()
	p, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return p
}

func TestParse_ExtractsClaims(t *testing.T) {
	p := newParser(t)
	result, err := p.Parse(context.Background(), []byte(sample837P))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	defer result.Release()

	if len(result.Claims) != 1 {
		t.Fatalf("len(Claims) = %d; want 1", len(result.Claims))
	}
	c := result.Claims[0]
	if c.ClaimID != "1001" || c.TotalCharge != "100" {
		t.Errorf("claim = %+v; want 1001/100", c)
	}
	if len(c.ServiceLines) != 1 {
		t.Fatalf("len(ServiceLines) = %d; want 1", len(c.ServiceLines))
	}
	if c.ServiceLines[0].ProcedureCode != "HC:99213" || c.ServiceLines[0].LineCharge != "100" {
		t.Errorf("service line = %+v; want HC:99213/100", c.ServiceLines[0])
	}
	if result.TransactionControl != "0001" {
		t.Errorf("TransactionControl = %q; want 0001", result.TransactionControl)
	}

	// The inflated SE count surfaces as a finding, not a parse failure.
	if got := result.ErrorCount(); got != 1 {
		t.Errorf("ErrorCount() = %d; want 1 (SE count mismatch)", got)
	}
	if result.Findings[0].Code != x12.TypeEnvelopeMismatch {
		t.Errorf("finding code = %s; want %s", result.Findings[0].Code, x12.TypeEnvelopeMismatch)
	}
}

func TestParse_CleanInterchangeIsValid(t *testing.T) {
	p := newParser(t)
	result, err := p.Parse(context.Background(), []byte(clean837P))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	defer result.Release()

	if !result.Valid {
		t.Errorf("Valid = false; findings: %v", result.Findings)
	}
	if len(result.Claims) != 1 {
		t.Errorf("len(Claims) = %d; want 1", len(result.Claims))
	}
}

func TestParse_EnvelopeValidationDisabled(t *testing.T) {
	p := newParser(t, x12.WithEnvelopeValidation(false))
	result, err := p.Parse(context.Background(), []byte(sample837P))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	defer result.Release()

	if !result.Valid {
		t.Errorf("Valid = false with envelope validation off; findings: %v", result.Findings)
	}
}

func TestParse_FatalErrors(t *testing.T) {
	p := newParser(t)

	tests := []struct {
		name string
		data string
		want error
	}{
		{"no ISA", "GS*HC*SENDER~", token.ErrMalformedEnvelope},
		{"empty", "", token.ErrMalformedEnvelope},
		{"truncated ISA", "ISA*00*          ~", token.ErrMalformedEnvelope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse(context.Background(), []byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v; want %v", err, tt.want)
			}
		})
	}
}

func TestParse_ChargeAudit(t *testing.T) {
	unbalanced := strings.Replace(clean837P, "CLM*1001*100*", "CLM*1001*250*", 1)

	p := newParser(t, x12.WithChargeAudit(true))
	result, err := p.Parse(context.Background(), []byte(unbalanced))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	defer result.Release()

	if got := result.WarningCount(); got != 1 {
		t.Fatalf("WarningCount() = %d; want 1: %v", got, result.Findings)
	}
	if result.Warnings()[0].Code != x12.TypeUnbalanced {
		t.Errorf("warning code = %s; want %s", result.Warnings()[0].Code, x12.TypeUnbalanced)
	}
	if !result.Valid {
		t.Error("Valid = false; charge audit warnings should not invalidate")
	}
}

func TestParse_StrictMode(t *testing.T) {
	unpriced := strings.Replace(clean837P, "CLM*1001*100*", "CLM*1001**", 1)

	p := newParser(t, x12.WithStrictMode(true))
	result, err := p.Parse(context.Background(), []byte(unpriced))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	defer result.Release()

	if len(result.Claims) != 1 {
		t.Fatalf("len(Claims) = %d; want 1 (strict mode never drops claims)", len(result.Claims))
	}
	if result.Claims[0].TotalCharge != "" {
		t.Errorf("TotalCharge = %q; want empty", result.Claims[0].TotalCharge)
	}

	found := false
	for _, f := range result.Findings {
		if f.Code == x12.TypeMissingField {
			found = true
		}
	}
	if !found {
		t.Errorf("strict mode should report the missing charge: %v", result.Findings)
	}
}

func TestParse_HierarchyDiagnostics(t *testing.T) {
	withHL := strings.Replace(clean837P, "CLM*1001*100*", "HL*1*9*22*0~CLM*1001*100*", 1)
	withHL = strings.Replace(withHL, "SE*5*0001~", "SE*6*0001~", 1)

	p := newParser(t, x12.WithHierarchyDiagnostics(true))
	result, err := p.Parse(context.Background(), []byte(withHL))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	defer result.Release()

	found := false
	for _, f := range result.Findings {
		if f.Code == x12.TypeHierarchy {
			found = true
		}
	}
	if !found {
		t.Errorf("undeclared HL parent should surface: %v", result.Findings)
	}
}

func TestParse_MaxFindings(t *testing.T) {
	// Three envelope mismatches, capped at one.
	broken := strings.Replace(sample837P, "GE*1*1~", "GE*2*9~", 1)

	p := newParser(t, x12.WithMaxFindings(1))
	result, err := p.Parse(context.Background(), []byte(broken))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	defer result.Release()

	if len(result.Findings) != 1 {
		t.Errorf("len(Findings) = %d; want 1 (capped)", len(result.Findings))
	}
}

func TestParse_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newParser(t)
	result, err := p.Parse(ctx, []byte(clean837P))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	defer result.Release()

	if len(result.Claims) != 0 {
		t.Errorf("len(Claims) = %d; want 0 after cancellation", len(result.Claims))
	}
	found := false
	for _, f := range result.Findings {
		if f.Code == x12.TypeProcessing {
			found = true
		}
	}
	if !found {
		t.Errorf("cancellation should be recorded as a finding: %v", result.Findings)
	}
}

func TestParse_InstitutionalProfile(t *testing.T) {
	inst := strings.Replace(clean837P, "SV1*HC:99213**100**1~", "SV2*0450*HC:99213*100~", 1)

	p, err := NewWithProfile(loop.Default837I())
	if err != nil {
		t.Fatalf("NewWithProfile() error: %v", err)
	}
	result, err := p.Parse(context.Background(), []byte(inst))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	defer result.Release()

	if len(result.Claims) != 1 || len(result.Claims[0].ServiceLines) != 1 {
		t.Fatalf("claims = %+v; want one claim with one service line", result.Claims)
	}
	if got := result.Claims[0].ServiceLines[0].ProcedureCode; got != "0450" {
		t.Errorf("ProcedureCode = %q; want 0450", got)
	}
}

func TestNewWithProfile_InvalidProfile(t *testing.T) {
	if _, err := NewWithProfile(loop.Profile{Name: "broken"}); err == nil {
		t.Error("NewWithProfile() should reject a profile without triggers")
	}
}

func TestFlatten(t *testing.T) {
	p := newParser(t)
	flat, err := p.Flatten([]byte(sample837P), "claims.837")
	if err != nil {
		t.Fatalf("Flatten() error: %v", err)
	}
	if flat.File != "claims.837" {
		t.Errorf("File = %q; want claims.837", flat.File)
	}
	if len(flat.Segments) != 9 {
		t.Errorf("len(Segments) = %d; want 9", len(flat.Segments))
	}

	if _, err := p.Flatten([]byte("no terminator here"), "bad"); !errors.Is(err, token.ErrMalformedEnvelope) {
		t.Errorf("Flatten() error = %v; want ErrMalformedEnvelope", err)
	}
}

func TestParseBatch(t *testing.T) {
	p := newParser(t, x12.WithWorkerCount(2))

	inputs := [][]byte{
		[]byte(clean837P),
		[]byte("garbage without structure"),
		[]byte(clean837P),
	}
	results := p.ParseBatch(context.Background(), inputs)

	if len(results) != 3 {
		t.Fatalf("len(results) = %d; want 3", len(results))
	}
	if len(results[0].Claims) != 1 || len(results[2].Claims) != 1 {
		t.Error("parseable inputs should yield claims at their own indexes")
	}

	// The unparseable input keeps its slot with a fatal finding.
	bad := results[1]
	if len(bad.Findings) != 1 {
		t.Fatalf("unparseable result has %d findings; want 1", len(bad.Findings))
	}
	f := bad.Findings[0]
	if f.Severity != x12.SeverityFatal || f.Code != x12.TypeMalformedEnvelope {
		t.Errorf("finding = %+v; want fatal malformed-envelope", f)
	}
	if bad.Valid {
		t.Error("unparseable result should not be valid")
	}

	for _, r := range results {
		r.Release()
	}
}

func TestFatalFinding(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want x12.FindingType
	}{
		{"envelope", token.ErrMalformedEnvelope, x12.TypeMalformedEnvelope},
		{"input", token.ErrMalformedInput, x12.TypeMalformedInput},
		{"other", errors.New("disk on fire"), x12.TypeProcessing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := FatalFinding(tt.err)
			if f.Code != tt.want {
				t.Errorf("Code = %s; want %s", f.Code, tt.want)
			}
			if f.Severity != x12.SeverityFatal {
				t.Errorf("Severity = %s; want fatal", f.Severity)
			}
		})
	}
}

func TestParser_Metrics(t *testing.T) {
	p := newParser(t)
	if _, err := p.Parse(context.Background(), []byte(clean837P)); err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if _, err := p.Parse(context.Background(), []byte("bad")); err == nil {
		t.Fatal("Parse() of garbage should fail")
	}

	m := p.Metrics()
	if got := m.ParsesTotal(); got != 2 {
		t.Errorf("ParsesTotal() = %d; want 2", got)
	}
	if got := m.ParsesValid(); got != 1 {
		t.Errorf("ParsesValid() = %d; want 1", got)
	}
	if _, ok := m.StageStats("tokenize"); !ok {
		t.Error("tokenize stage should be recorded")
	}
	if _, ok := m.StageStats("extract"); !ok {
		t.Error("extract stage should be recorded")
	}
}

func TestParser_PoolingDisabled(t *testing.T) {
	p := newParser(t, x12.WithPooling(false))
	result, err := p.Parse(context.Background(), []byte(clean837P))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if got := p.Metrics().PoolAcquires(); got != 0 {
		t.Errorf("PoolAcquires() = %d; want 0 with pooling off", got)
	}
	if !result.Valid {
		t.Errorf("Valid = false; findings: %v", result.Findings)
	}
}
