package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ledgerpath/backend/pkg/datetime"
)

type ContractType string

const (
	ContractTypeReducing ContractType = "reducing"
	ContractTypeGrowing  ContractType = "growing"
	ContractTypeFixed    ContractType = "fixed"
)

// IsValid reports whether t is a known contract type.
func (t ContractType) IsValid() bool {
	switch t {
	case ContractTypeReducing, ContractTypeGrowing, ContractTypeFixed:
		return true
	}
	return false
}

type ContractStatus string

const (
	ContractStatusActive ContractStatus = "active"
	ContractStatusPaused ContractStatus = "paused"
	ContractStatusClosed ContractStatus = "closed"
)

// IsValid reports whether s is a known contract status.
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusActive, ContractStatusPaused, ContractStatusClosed:
		return true
	}
	return false
}

// BillingCycle is how often a fixed contract renews its charge.
type BillingCycle string

const (
	CycleMonthly    BillingCycle = "monthly"
	CycleQuarterly  BillingCycle = "quarterly"
	CycleHalfYearly BillingCycle = "half_yearly"
	CycleYearly     BillingCycle = "yearly"
)

// Months returns the number of calendar months the cycle spans.
func (c BillingCycle) Months() int {
	switch c {
	case CycleQuarterly:
		return 3
	case CycleHalfYearly:
		return 6
	case CycleYearly:
		return 12
	default:
		return 1
	}
}

// ReducingMetadata holds the loan state of a reducing contract.
type ReducingMetadata struct {
	Principal        decimal.Decimal `json:"principal"`
	AnnualRate       decimal.Decimal `json:"annualRate"` // APR as percentage
	TenureMonths     int             `json:"tenureMonths"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	EMIAmount        decimal.Decimal `json:"emiAmount"`
	PaidInstallments int             `json:"paidInstallments"`
	TotalPrepaid     decimal.Decimal `json:"totalPrepaid"`
}

// GrowingMetadata holds the accumulation state of a growing contract (SIP-style investment).
type GrowingMetadata struct {
	CurrentValue   decimal.Decimal  `json:"currentValue"`
	TotalInvested  decimal.Decimal  `json:"totalInvested"`
	ExpectedReturn *decimal.Decimal `json:"expectedReturn,omitempty"` // annual, as percentage
	TargetAmount   *decimal.Decimal `json:"targetAmount,omitempty"`
	TargetDate     *time.Time       `json:"targetDate,omitempty"`
	PaidMonths     int              `json:"paidMonths"`
}

// FixedMetadata holds the renewal details of a fixed contract (subscription/insurance).
type FixedMetadata struct {
	BillingCycle BillingCycle `json:"billingCycle"`
	RenewalDate  time.Time    `json:"renewalDate"`
	AutoRenew    bool         `json:"autoRenew"`
	IsLiability  bool         `json:"isLiability"`
}

// Metadata is the type-specific payload of a contract. Exactly one variant is
// set, and which one is set always matches the contract's Type.
type Metadata struct {
	Reducing *ReducingMetadata `json:"reducing,omitempty"`
	Growing  *GrowingMetadata  `json:"growing,omitempty"`
	Fixed    *FixedMetadata    `json:"fixed,omitempty"`
}

// Value implements driver.Valuer so the union is stored as a JSONB column.
func (m Metadata) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for reading the JSONB column back.
func (m *Metadata) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = Metadata{}
		return nil
	default:
		return fmt.Errorf("unsupported metadata column type %T", src)
	}
}

// clone returns a deep copy of the metadata, including optional fields.
func (m Metadata) clone() Metadata {
	var out Metadata
	if m.Reducing != nil {
		r := *m.Reducing
		out.Reducing = &r
	}
	if m.Growing != nil {
		g := *m.Growing
		if m.Growing.ExpectedReturn != nil {
			er := *m.Growing.ExpectedReturn
			g.ExpectedReturn = &er
		}
		if m.Growing.TargetAmount != nil {
			ta := *m.Growing.TargetAmount
			g.TargetAmount = &ta
		}
		if m.Growing.TargetDate != nil {
			td := *m.Growing.TargetDate
			g.TargetDate = &td
		}
		out.Growing = &g
	}
	if m.Fixed != nil {
		f := *m.Fixed
		out.Fixed = &f
	}
	return out
}

// Contract is a recurring financial commitment: a loan being paid down
// (reducing), an investment being built up (growing), or a flat recurring
// charge (fixed).
type Contract struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	UserID        uuid.UUID       `db:"user_id" json:"userId"`
	Name          string          `db:"name" json:"name"`
	Description   string          `db:"description" json:"description"`
	Type          ContractType    `db:"type" json:"type"`
	Status        ContractStatus  `db:"status" json:"status"`
	MonthlyAmount decimal.Decimal `db:"monthly_amount" json:"monthlyAmount"`
	StartDate     time.Time       `db:"start_date" json:"startDate"`
	EndDate       *time.Time      `db:"end_date" json:"endDate,omitempty"`
	Metadata      Metadata        `db:"metadata" json:"metadata"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

// ErrMetadataMismatch is returned when a contract's metadata variant does not
// match its declared type.
var ErrMetadataMismatch = errors.New("contract metadata does not match contract type")

// ValidateMetadata enforces the variant invariant: the metadata slot matching
// Type must be set and the other two must be nil.
func (c *Contract) ValidateMetadata() error {
	var want, others int
	switch c.Type {
	case ContractTypeReducing:
		if c.Metadata.Reducing != nil {
			want = 1
		}
		if c.Metadata.Growing != nil || c.Metadata.Fixed != nil {
			others = 1
		}
	case ContractTypeGrowing:
		if c.Metadata.Growing != nil {
			want = 1
		}
		if c.Metadata.Reducing != nil || c.Metadata.Fixed != nil {
			others = 1
		}
	case ContractTypeFixed:
		if c.Metadata.Fixed != nil {
			want = 1
		}
		if c.Metadata.Reducing != nil || c.Metadata.Growing != nil {
			others = 1
		}
	default:
		return fmt.Errorf("unknown contract type %q", c.Type)
	}
	if want == 0 || others != 0 {
		return ErrMetadataMismatch
	}
	return nil
}

// IsApplicable reports whether the contract participates in the given calendar
// month: it must be active, started on or before the month's last day, and not
// ended before the month's first day.
func (c *Contract) IsApplicable(month time.Month, year int) bool {
	if c.Status != ContractStatusActive {
		return false
	}
	first, last := datetime.MonthBounds(year, month)
	if c.StartDate.After(last) {
		return false
	}
	if c.EndDate != nil && c.EndDate.Before(first) {
		return false
	}
	return true
}

// Clone returns a deep copy of the contract. Projections advance state on
// clones so caller-owned contracts are never mutated.
func (c *Contract) Clone() Contract {
	out := *c
	if c.EndDate != nil {
		ed := *c.EndDate
		out.EndDate = &ed
	}
	out.Metadata = c.Metadata.clone()
	return out
}
