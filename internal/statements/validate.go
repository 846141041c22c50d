package statements

import "math"

// FailureClass distinguishes which accounting identity a validation broke.
type FailureClass string

const (
	// FailureNone means the check passed.
	FailureNone FailureClass = ""
	// FailureAssetsVsLiabEquity means assets != liabilities + equity.
	FailureAssetsVsLiabEquity FailureClass = "FAIL_ASSETS_VS_LIAB_EQUITY"
	// FailureDebitVsCredit means the raw ledger debits != credits.
	FailureDebitVsCredit FailureClass = "FAIL_DEBIT_VS_CREDIT"
)

// ValidationResult reports a balance check. An out-of-balance statement is a
// valid business state: it is returned as data with IsBalanced=false, never
// as a Go error, so callers can still render it with a visible warning.
type ValidationResult struct {
	IsBalanced bool         `json:"is_balanced"`
	Difference float64      `json:"difference"`
	Tolerance  float64      `json:"tolerance"`
	Failure    FailureClass `json:"failure,omitempty"`
}

// ValidateEquation checks the balance sheet identity assets = liabilities +
// equity within tolerance. Inputs are never mutated.
func ValidateEquation(assets, liabilities, equity, tolerance float64) ValidationResult {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	diff := assets - (liabilities + equity)
	result := ValidationResult{Difference: diff, Tolerance: tolerance}
	if math.Abs(diff) <= tolerance {
		result.IsBalanced = true
		return result
	}
	result.Failure = FailureAssetsVsLiabEquity
	return result
}

// ValidateDebitsCredits checks that total debits equal total credits within
// tolerance.
func ValidateDebitsCredits(debits, credits, tolerance float64) ValidationResult {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	diff := debits - credits
	result := ValidationResult{Difference: diff, Tolerance: tolerance}
	if math.Abs(diff) <= tolerance {
		result.IsBalanced = true
		return result
	}
	result.Failure = FailureDebitVsCredit
	return result
}
