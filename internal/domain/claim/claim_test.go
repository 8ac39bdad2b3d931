package claim

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClaim_CalculateTotalAmount(t *testing.T) {
	tests := []struct {
		name  string
		hours string
		rate  string
		want  string
	}{
		{"whole numbers", "100", "500", "50000"},
		{"fractional hours", "12.5", "300", "3750"},
		{"fractional rate", "40", "62.50", "2500"},
		{"both fractional", "7.25", "150.40", "1090.4"},
		{"minimum boundary", "0.01", "50", "0.5"},
		{"zero hours", "0", "500", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Claim{
				HoursWorked: decimal.RequireFromString(tt.hours),
				HourlyRate:  decimal.RequireFromString(tt.rate),
			}
			c.CalculateTotalAmount()
			assert.True(t, c.TotalAmount.Equal(decimal.RequireFromString(tt.want)),
				"TotalAmount = %s, want %s", c.TotalAmount, tt.want)
		})
	}
}

func TestClaim_CalculateTotalAmountNoFloatDrift(t *testing.T) {
	// 0.1 * 0.3 style products must come out exact under decimal arithmetic
	c := &Claim{
		HoursWorked: decimal.RequireFromString("0.1"),
		HourlyRate:  decimal.RequireFromString("58.80"),
	}
	c.CalculateTotalAmount()
	assert.Equal(t, "5.88", c.TotalAmount.String())
}

func TestClaim_ApprovalStageFlags(t *testing.T) {
	c := &Claim{}
	assert.False(t, c.CoordinatorApproved())
	assert.False(t, c.ManagerApproved())

	now := time.Now()
	c.CoordinatorAt = &now
	assert.True(t, c.CoordinatorApproved())
	assert.False(t, c.ManagerApproved())

	c.ManagerAt = &now
	assert.True(t, c.ManagerApproved())
}
