package extract

import (
	"fmt"

	"github.com/shopspring/decimal"

	x12 "github.com/gox12/claims"
)

// AuditCharges compares each claim's total charge against the sum of its
// service-line charges, reporting mismatches as warning findings. Charges
// stay strings in the output model; the comparison is numeric so "100",
// "100.0" and "100.00" agree.
//
// Claims that cannot be audited are skipped silently: an empty or
// non-numeric total, a non-numeric line charge, or a claim without
// service lines. Strict mode already surfaces the missing values.
func AuditCharges(claims []x12.Claim) []x12.Finding {
	var findings []x12.Finding

	for _, claim := range claims {
		if claim.TotalCharge == "" || len(claim.ServiceLines) == 0 {
			continue
		}
		total, err := decimal.NewFromString(claim.TotalCharge)
		if err != nil {
			continue
		}

		sum := decimal.Zero
		auditable := true
		for _, line := range claim.ServiceLines {
			charge, err := decimal.NewFromString(line.LineCharge)
			if err != nil {
				auditable = false
				break
			}
			sum = sum.Add(charge)
		}
		if !auditable {
			continue
		}

		if !sum.Equal(total) {
			findings = append(findings, x12.Warning(x12.TypeUnbalanced).
				Diagnostics(fmt.Sprintf("claim %q declares total %s but service lines sum to %s",
					claim.ClaimID, total.String(), sum.String())).
				Stage(StageName).
				Build())
		}
	}

	return findings
}
