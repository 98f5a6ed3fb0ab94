package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractContribution is one contract's effect on a month's snapshot. The
// optional fields are populated per type: reducing contracts report their
// interest/principal split and the balance after the payment, growing
// contracts report the advanced invested total, fixed contracts carry the
// amount only.
type ContractContribution struct {
	ContractID       uuid.UUID        `json:"contractId"`
	Name             string           `json:"name"`
	Type             ContractType     `json:"type"`
	Amount           decimal.Decimal  `json:"amount"`
	InterestPortion  *decimal.Decimal `json:"interestPortion,omitempty"`
	PrincipalPortion *decimal.Decimal `json:"principalPortion,omitempty"`
	NewBalance       *decimal.Decimal `json:"newBalance,omitempty"`
	NewInvestedTotal *decimal.Decimal `json:"newInvestedTotal,omitempty"`
}

// ContributionList stores a snapshot's contributions as a JSONB column.
type ContributionList []ContractContribution

// Value implements driver.Valuer for JSONB storage.
func (l ContributionList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (l *ContributionList) Scan(value interface{}) error {
	if value == nil {
		*l = ContributionList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte for contributions, got %T", value)
	}
	return json.Unmarshal(bytes, l)
}

// MonthlySnapshot is an immutable cash-flow ledger for one calendar month.
// Contributions preserve the order of the input contract list so repeated
// computation over the same inputs is reproducible.
type MonthlySnapshot struct {
	Month               int                    `json:"month"`
	Year                int                    `json:"year"`
	TotalIncome         decimal.Decimal        `json:"totalIncome"`
	MandatoryOutflow    decimal.Decimal        `json:"mandatoryOutflow"`
	ReducingOutflow     decimal.Decimal        `json:"reducingOutflow"`
	GrowingOutflow      decimal.Decimal        `json:"growingOutflow"`
	FixedOutflow        decimal.Decimal        `json:"fixedOutflow"`
	ActiveContractCount int                    `json:"activeContractCount"`
	Contributions       ContributionList       `json:"contributions"`
	GeneratedAt         time.Time              `json:"generatedAt"`
}

// FreeBalance is income minus mandatory outflow; negative means deficit.
func (s *MonthlySnapshot) FreeBalance() decimal.Decimal {
	return s.TotalIncome.Sub(s.MandatoryOutflow)
}

// IsDeficit reports whether the month's outflow exceeds its income.
func (s *MonthlySnapshot) IsDeficit() bool {
	return s.FreeBalance().IsNegative()
}

// SavingsRatePercent is free balance as a percentage of income.
// Returns 0 when income is zero.
func (s *MonthlySnapshot) SavingsRatePercent() float64 {
	if s.TotalIncome.IsZero() {
		return 0
	}
	return s.FreeBalance().Div(s.TotalIncome).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// Projection is the result of rolling the execution engine forward over
// consecutive months. FinalContracts holds the advanced working state of every
// input contract, including any loans auto-closed along the way.
type Projection struct {
	StartMonth            int               `json:"startMonth"`
	StartYear             int               `json:"startYear"`
	MonthCount            int               `json:"monthCount"`
	Snapshots             []MonthlySnapshot `json:"snapshots"`
	FinalContracts        []Contract        `json:"finalContracts"`
	TotalMandatoryOutflow decimal.Decimal   `json:"totalMandatoryOutflow"`
	TotalIncome           decimal.Decimal   `json:"totalIncome"`
	TotalFreeBalance      decimal.Decimal   `json:"totalFreeBalance"`
	AverageMonthlyOutflow decimal.Decimal   `json:"averageMonthlyOutflow"`
}
