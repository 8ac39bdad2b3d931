package claim

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Policy limits for a single monthly claim. Hours are capped at a full
// 31-day month (31 x 24h); rate and payout limits come from pay policy.
var (
	MinHoursWorked = decimal.RequireFromString("0.01")
	MaxHoursWorked = decimal.NewFromInt(744)
	MinHourlyRate  = decimal.NewFromInt(50)
	MaxHourlyRate  = decimal.NewFromInt(10000)
	MaxClaimAmount = decimal.NewFromInt(500000)
)

// ValidateRules checks the claim against business rules in order and stops at
// the first failure. A missing supporting document yields a warning message
// but does not fail validation. All comparisons use decimal arithmetic, so
// the boundary values themselves pass.
func (c *Claim) ValidateRules() (bool, string) {
	if c.HoursWorked.LessThanOrEqual(decimal.Zero) || c.HoursWorked.GreaterThan(MaxHoursWorked) {
		return false, fmt.Sprintf("hours worked must be greater than 0 and at most 744 (hours in a month), got %s", c.HoursWorked)
	}

	if c.HourlyRate.LessThan(MinHourlyRate) || c.HourlyRate.GreaterThan(MaxHourlyRate) {
		return false, fmt.Sprintf("hourly rate must be between 50 and 10000, got %s", c.HourlyRate)
	}

	if c.TotalAmount.GreaterThan(MaxClaimAmount) {
		return false, fmt.Sprintf("total amount %s exceeds the maximum claim threshold of 500000", c.TotalAmount)
	}

	if c.Document == nil {
		return true, "warning: no supporting document attached"
	}

	return true, ""
}
