package x12claims

import "testing"

func TestTransactionSet_IsValid(t *testing.T) {
	tests := []struct {
		set  TransactionSet
		want bool
	}{
		{Set837P, true},
		{Set837I, true},
		{TransactionSet("837D"), false},
		{TransactionSet(""), false},
	}

	for _, tt := range tests {
		if got := tt.set.IsValid(); got != tt.want {
			t.Errorf("TransactionSet(%q).IsValid() = %v; want %v", tt.set, got, tt.want)
		}
	}
}

func TestTransactionSet_String(t *testing.T) {
	if got := Set837P.String(); got != "837P" {
		t.Errorf("Set837P.String() = %q; want %q", got, "837P")
	}
}
