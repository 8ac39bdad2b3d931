package claim

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Recommendation strings for the automated validation report
const (
	RecommendationPass = "All automated checks passed. Claim is ready for review."
	RecommendationFail = "One or more validation checks failed. Manual verification required before approval."
)

// totalTolerance bounds the allowed drift between the stored total and
// hours x rate before the consistency check fails.
var totalTolerance = decimal.RequireFromString("0.01")

// ValidationReport is the advisory bundle of automated check results shown to
// reviewers. It is computed on demand from a claim snapshot and never stored.
type ValidationReport struct {
	ClaimID        int64    `json:"claim_id"`
	IsValid        bool     `json:"is_valid"`
	Messages       []string `json:"messages"`
	Recommendation string   `json:"recommendation"`
}

// GenerateValidationReport runs every automated check against the claim and
// appends exactly one message per check. Unlike ValidateRules there is no
// short-circuit. The document check is advisory and does not affect overall
// validity. The result is deterministic for a given claim snapshot and now.
func GenerateValidationReport(c *Claim, now time.Time) *ValidationReport {
	report := &ValidationReport{ClaimID: c.ID}
	valid := true

	check := func(ok bool, passMsg, failMsg string) {
		if ok {
			report.Messages = append(report.Messages, "PASS: "+passMsg)
		} else {
			report.Messages = append(report.Messages, "FAIL: "+failMsg)
			valid = false
		}
	}

	check(
		c.HoursWorked.GreaterThanOrEqual(MinHoursWorked) && c.HoursWorked.LessThanOrEqual(MaxHoursWorked),
		fmt.Sprintf("hours worked (%s) within allowed range 0.01-744", c.HoursWorked),
		fmt.Sprintf("hours worked (%s) outside allowed range 0.01-744", c.HoursWorked),
	)

	check(
		c.HourlyRate.GreaterThanOrEqual(MinHourlyRate) && c.HourlyRate.LessThanOrEqual(MaxHourlyRate),
		fmt.Sprintf("hourly rate (%s) within allowed range 50-10000", c.HourlyRate),
		fmt.Sprintf("hourly rate (%s) outside allowed range 50-10000", c.HourlyRate),
	)

	expected := c.HoursWorked.Mul(c.HourlyRate)
	check(
		c.TotalAmount.Sub(expected).Abs().LessThanOrEqual(totalTolerance),
		fmt.Sprintf("total amount (%s) matches hours x rate", c.TotalAmount),
		fmt.Sprintf("total amount (%s) does not match hours x rate (%s)", c.TotalAmount, expected),
	)

	// Advisory only: a missing document never flips overall validity
	if c.Document != nil {
		report.Messages = append(report.Messages, "PASS: supporting document attached")
	} else {
		report.Messages = append(report.Messages, "WARN: no supporting document attached")
	}

	check(
		c.TotalAmount.LessThanOrEqual(MaxClaimAmount),
		fmt.Sprintf("total amount (%s) within the 500000 payout ceiling", c.TotalAmount),
		fmt.Sprintf("total amount (%s) exceeds the 500000 payout ceiling", c.TotalAmount),
	)

	check(
		!c.SubmittedAt.After(now),
		"submission date is not in the future",
		"submission date is in the future",
	)

	report.IsValid = valid
	if valid {
		report.Recommendation = RecommendationPass
	} else {
		report.Recommendation = RecommendationFail
	}

	return report
}
