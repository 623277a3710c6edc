package scheme

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Scheme status values. Transitions happen only through the dedicated
// lifecycle endpoints, never through a generic update.
const (
	StatusActive    = "ACTIVE"
	StatusInactive  = "INACTIVE"
	StatusSuspended = "SUSPENDED"
)

// ExpiryStatus classifies how close the current coverage period is to its
// end date. Informational only; it never blocks an action.
type ExpiryStatus string

const (
	ExpiryUnknown      ExpiryStatus = "unknown"
	ExpiryExpired      ExpiryStatus = "expired"
	ExpiryExpiringSoon ExpiryStatus = "expiring_soon"
	ExpiryApproaching  ExpiryStatus = "approaching"
	ExpiryHealthy      ExpiryStatus = "healthy"
)

// Scheme maps to the scheme table. CompanyName, CurrentPeriod, TotalPeriods
// and Expiry are populated from joins when reading.
type Scheme struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	CardCode         string     `db:"card_code" json:"card_code"`
	CompanyID        uuid.UUID  `db:"company_id" json:"company_id"`
	IsRenewable      bool       `db:"is_renewable" json:"is_renewable"`
	FamilyApplicable bool       `db:"family_applicable" json:"family_applicable"`
	Description      *string    `db:"description" json:"description,omitempty"`
	Remark           *string    `db:"remark" json:"remark,omitempty"`
	Status           string     `db:"status" json:"status"`
	SuspensionReason *string    `db:"suspension_reason" json:"suspension_reason,omitempty"`
	DeletedAt        *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`

	CompanyName   string        `db:"-" json:"company_name,omitempty"`
	CurrentPeriod *SchemePeriod `db:"-" json:"current_period,omitempty"`
	TotalPeriods  int           `db:"-" json:"total_periods"`
	Expiry        ExpiryStatus  `db:"-" json:"expiry_status,omitempty"`
}

// SchemePeriod maps to the scheme_period table. Exactly one period per
// scheme is current; period numbers start at 1 and only ever grow.
type SchemePeriod struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	SchemeID        uuid.UUID       `db:"scheme_id" json:"scheme_id"`
	PeriodNumber    int             `db:"period_number" json:"period_number"`
	StartDate       time.Time       `db:"start_date" json:"start_date"`
	EndDate         time.Time       `db:"end_date" json:"end_date"`
	LimitAmount     decimal.Decimal `db:"limit_amount" json:"limit_amount"`
	TerminationDate *time.Time      `db:"termination_date" json:"termination_date,omitempty"`
	IsCurrent       bool            `db:"is_current" json:"is_current"`
	RenewalDate     *time.Time      `db:"renewal_date" json:"renewal_date,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// NormalizeCardCode trims, upper-cases and validates a card code. Card
// codes are exactly three characters.
func NormalizeCardCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("card_code must be exactly 3 characters")
	}
	return code, nil
}

// DeriveEndDate returns the default coverage end for a given start: one
// calendar year later, so 2024-01-01 yields 2025-01-01 across leap years.
func DeriveEndDate(start time.Time) time.Time {
	return start.AddDate(1, 0, 0)
}

// DeriveStartDate is the symmetric derivation when only the end is known.
func DeriveStartDate(end time.Time) time.Time {
	return end.AddDate(-1, 0, 0)
}

// DeriveTerminationDate returns the auto-derived early-termination marker,
// one day past the coverage end.
func DeriveTerminationDate(end time.Time) time.Time {
	return end.AddDate(0, 0, 1)
}

// DaysRemaining counts the days from now until end, rounding partial days
// up. Negative once end has passed.
func DaysRemaining(end, now time.Time) int {
	return int(math.Ceil(end.Sub(now).Hours() / 24))
}

// ClassifyExpiry buckets a period by time left on it. A scheme with no
// period is unknown, never healthy.
func ClassifyExpiry(p *SchemePeriod, now time.Time) ExpiryStatus {
	if p == nil {
		return ExpiryUnknown
	}
	days := DaysRemaining(p.EndDate, now)
	switch {
	case days < 0:
		return ExpiryExpired
	case days <= 30:
		return ExpiryExpiringSoon
	case days <= 90:
		return ExpiryApproaching
	default:
		return ExpiryHealthy
	}
}
