package claim

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lecturer status constants
const (
	LecturerStatusActive     = "ACTIVE"
	LecturerStatusTerminated = "TERMINATED"
)

// Lecturer is a directory record for a contract lecturer. The default hourly
// rate is used when a submission leaves the rate empty and must itself sit
// inside the policy range.
type Lecturer struct {
	ID                int64           `json:"id"`
	UserID            string          `json:"user_id"`
	FullName          string          `json:"full_name"`
	Email             string          `json:"email"`
	PhoneNumber       string          `json:"phone_number,omitempty"`
	Department        string          `json:"department"`
	Specialization    string          `json:"specialization,omitempty"`
	DefaultHourlyRate decimal.Decimal `json:"default_hourly_rate"`
	BankName          string          `json:"bank_name,omitempty"`
	AccountNumber     string          `json:"account_number,omitempty"`
	BranchCode        string          `json:"branch_code,omitempty"`
	TaxNumber         string          `json:"tax_number,omitempty"`
	Status            string          `json:"status"`
	HireDate          time.Time       `json:"hire_date"`
	TerminatedAt      *time.Time      `json:"terminated_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Active reports whether the lecturer may submit claims
func (l *Lecturer) Active() bool {
	return l.Status == LecturerStatusActive
}
