package token

import (
	"errors"
	"strings"
	"testing"
)

const sample837P = "ISA*00*          *00*          *ZZ*SENDER         *ZZ*RECEIVER       *210101*1200*^*00501*000000001*0*P*:~" +
	"GS*HC*SENDER*RECEIVER*20210101*1200*1*X*005010X222A1~" +
	"ST*837*0001*005010X222A1~" +
	"CLM*1001*100***11:B:1*Y*A*Y*Y~" +
	"LX*1~" +
	"SV1*HC:99213**100**1~" +
	"SE*6*0001~" +
	"GE*1*1~" +
	"IEA*1*000000001~"

func TestDiscover(t *testing.T) {
	delims, err := Discover(sample837P)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if delims.Element != '*' {
		t.Errorf("Element = %q; want '*'", delims.Element)
	}
	if delims.Component != ':' {
		t.Errorf("Component = %q; want ':'", delims.Component)
	}
	if delims.Terminator != '~' {
		t.Errorf("Terminator = %q; want '~'", delims.Terminator)
	}
}

func TestDiscover_NonStandardDelimiters(t *testing.T) {
	// Same ISA with | as element separator, > as component, ` as terminator
	alt := strings.ReplaceAll(sample837P, "*", "|")
	alt = strings.ReplaceAll(alt, ":", ">")
	alt = strings.ReplaceAll(alt, "~", "`")

	delims, err := Discover(alt)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if delims.Element != '|' || delims.Component != '>' || delims.Terminator != '`' {
		t.Errorf("delimiters = %q %q %q; want | > `", delims.Element, delims.Component, delims.Terminator)
	}
}

func TestDiscover_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"not ISA", "GS*HC*SENDER~"},
		{"truncated ISA", "ISA*00*          *00~"},
		{"indistinct delimiters", sample837P[:104] + "**" + sample837P[106:]},
		{"unprintable delimiter", sample837P[:105] + "\x00" + sample837P[106:]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Discover(tt.text)
			if !errors.Is(err, ErrMalformedEnvelope) {
				t.Errorf("Discover() error = %v; want ErrMalformedEnvelope", err)
			}
		})
	}
}

func TestDelimiterSet_Validate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error: %v", err)
	}

	bad := DelimiterSet{Element: '*', Component: '*', Terminator: '~'}
	if err := bad.Validate(); !errors.Is(err, ErrMalformedEnvelope) {
		t.Errorf("Validate() with duplicate delimiters = %v; want ErrMalformedEnvelope", err)
	}

	space := DelimiterSet{Element: ' ', Component: ':', Terminator: '~'}
	if err := space.Validate(); !errors.Is(err, ErrMalformedEnvelope) {
		t.Errorf("Validate() with space delimiter = %v; want ErrMalformedEnvelope", err)
	}
}

func TestTokenize(t *testing.T) {
	segments, delims, err := Tokenize(sample837P)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	if delims != Default() {
		t.Errorf("delims = %+v; want default set", delims)
	}

	wantIDs := []string{"ISA", "GS", "ST", "CLM", "LX", "SV1", "SE", "GE", "IEA"}
	if len(segments) != len(wantIDs) {
		t.Fatalf("len(segments) = %d; want %d", len(segments), len(wantIDs))
	}
	for i, want := range wantIDs {
		if got := segments[i].ID(); got != want {
			t.Errorf("segments[%d].ID() = %q; want %q", i, got, want)
		}
		if got := segments[i].Position(); got != i {
			t.Errorf("segments[%d].Position() = %d; want %d", i, got, i)
		}
	}
}

func TestTokenize_LineBreaksBetweenSegments(t *testing.T) {
	wrapped := strings.ReplaceAll(sample837P, "~", "~\r\n")
	segments, _, err := Tokenize(wrapped)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	if len(segments) != 9 {
		t.Errorf("len(segments) = %d; want 9", len(segments))
	}
	if got := segments[1].ID(); got != "GS" {
		t.Errorf("segments[1].ID() = %q; want GS", got)
	}
}

func TestTokenize_MalformedEnvelope(t *testing.T) {
	_, _, err := Tokenize("not an interchange at all")
	if !errors.Is(err, ErrMalformedEnvelope) {
		t.Errorf("Tokenize() error = %v; want ErrMalformedEnvelope", err)
	}
}

func TestTokenizeWith_NoTerminator(t *testing.T) {
	_, err := TokenizeWith("CLM*1001*100", Default())
	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("TokenizeWith() error = %v; want ErrMalformedInput", err)
	}
}

func TestTokenizeWith_InvalidDelimiters(t *testing.T) {
	_, err := TokenizeWith("CLM*1001~", DelimiterSet{Element: '*', Component: '*', Terminator: '~'})
	if !errors.Is(err, ErrMalformedEnvelope) {
		t.Errorf("TokenizeWith() error = %v; want ErrMalformedEnvelope", err)
	}
}

func TestTokenizeWith_SkipsEmptyFragments(t *testing.T) {
	segments, err := TokenizeWith("CLM*1001~~LX*1~", Default())
	if err != nil {
		t.Fatalf("TokenizeWith() error: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("len(segments) = %d; want 2", len(segments))
	}
	if segments[1].ID() != "LX" || segments[1].Position() != 1 {
		t.Errorf("segments[1] = %s[%d]; want LX[1]", segments[1].ID(), segments[1].Position())
	}
}

func TestSegment_Elements(t *testing.T) {
	segments, _, err := Tokenize(sample837P)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}

	clm := segments[3]
	if clm.ID() != "CLM" {
		t.Fatalf("segments[3].ID() = %q; want CLM", clm.ID())
	}
	if got := clm.Element(1); got != "1001" {
		t.Errorf("Element(1) = %q; want %q", got, "1001")
	}
	if got := clm.Element(2); got != "100" {
		t.Errorf("Element(2) = %q; want %q", got, "100")
	}
	if got := clm.Element(3); got != "" {
		t.Errorf("Element(3) = %q; want empty", got)
	}
	if got := clm.Element(99); got != "" {
		t.Errorf("Element(99) = %q; want empty for out of range", got)
	}
	if got := clm.Element(0); got != "" {
		t.Errorf("Element(0) = %q; want empty (elements are 1-based)", got)
	}
}

func TestSegment_Components(t *testing.T) {
	segments, _, err := Tokenize(sample837P)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}

	sv1 := segments[5]
	comps := sv1.Components(1)
	if len(comps) != 2 || comps[0] != "HC" || comps[1] != "99213" {
		t.Errorf("Components(1) = %v; want [HC 99213]", comps)
	}

	clm := segments[3]
	comps = clm.Components(5)
	if len(comps) != 3 || comps[0] != "11" || comps[1] != "B" || comps[2] != "1" {
		t.Errorf("CLM Components(5) = %v; want [11 B 1]", comps)
	}

	if comps := clm.Components(3); comps != nil {
		t.Errorf("Components of empty element = %v; want nil", comps)
	}
}

func TestSegment_TrailingEmptyComponents(t *testing.T) {
	segments, err := TokenizeWith("SV1*HC:99213::~", Default())
	if err != nil {
		t.Fatalf("TokenizeWith() error: %v", err)
	}
	comps := segments[0].Components(1)
	if len(comps) != 4 {
		t.Fatalf("len(Components(1)) = %d; want 4 (trailing empties preserved)", len(comps))
	}
	if comps[2] != "" || comps[3] != "" {
		t.Errorf("trailing components = %q %q; want empty strings", comps[2], comps[3])
	}
}

func TestSegment_IdentifierOnly(t *testing.T) {
	segments, err := TokenizeWith("SE~", Default())
	if err != nil {
		t.Fatalf("TokenizeWith() error: %v", err)
	}
	seg := segments[0]
	if seg.ID() != "SE" {
		t.Errorf("ID() = %q; want SE", seg.ID())
	}
	if got := seg.ElementCount(); got != 0 {
		t.Errorf("ElementCount() = %d; want 0", got)
	}
	if got := seg.Element(1); got != "" {
		t.Errorf("Element(1) = %q; want empty", got)
	}
}

func TestJoin_RoundTrip(t *testing.T) {
	segments, delims, err := Tokenize(sample837P)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	if got := Join(segments, delims); got != sample837P {
		t.Errorf("Join() does not reproduce the input:\ngot  %q\nwant %q", got, sample837P)
	}
}

func TestSegment_String(t *testing.T) {
	segments, _, err := Tokenize(sample837P)
	if err != nil {
		t.Fatalf("Tokenize() error: %v", err)
	}
	want := "CLM*1001*100***11:B:1*Y*A*Y*Y"
	if got := segments[3].String(); got != want {
		t.Errorf("String() = %q; want %q", got, want)
	}
}
