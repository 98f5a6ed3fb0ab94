package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerpath/backend/internal/model"
	"github.com/ledgerpath/backend/pkg/datetime"
)

// Input validation errors for month execution and projections.
var (
	ErrInvalidMonth        = errors.New("month must be between 1 and 12")
	ErrInvalidMonthCount   = errors.New("month count must be greater than zero")
	ErrInvalidContractType = errors.New("unknown contract type")
)

// ExecutionService computes monthly cash-flow snapshots from a contract list
// and rolls them forward into projections. It holds no state between calls
// and is safe for concurrent use; projections advance deep copies and never
// mutate caller-owned contracts.
type ExecutionService struct {
	now func() time.Time
}

// NewExecutionService creates a new ExecutionService.
func NewExecutionService() *ExecutionService {
	return &ExecutionService{now: time.Now}
}

// WithClock overrides the snapshot timestamp source. Used by tests to make
// snapshots fully reproducible.
func (s *ExecutionService) WithClock(now func() time.Time) *ExecutionService {
	s.now = now
	return s
}

// ExecuteMonth computes one month's ledger from the contracts' current stored
// state. It is a pure report: the input contracts are not modified.
func (s *ExecutionService) ExecuteMonth(contracts []model.Contract, month, year int, totalIncome decimal.Decimal) (*model.MonthlySnapshot, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}
	return s.computeMonth(contracts, month, year, totalIncome)
}

// ExecuteAndAdvance computes one month's snapshot and returns, alongside it,
// copies of the contributing contracts with their state rolled forward by that
// month. The input contracts are not modified; callers persist the returned
// copies to make the month close durable.
func (s *ExecutionService) ExecuteAndAdvance(contracts []model.Contract, month, year int, totalIncome decimal.Decimal) (*model.MonthlySnapshot, []model.Contract, error) {
	if month < 1 || month > 12 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrInvalidMonth, month)
	}

	working := make([]model.Contract, len(contracts))
	for i := range contracts {
		working[i] = contracts[i].Clone()
	}

	snapshot, err := s.computeMonth(working, month, year, totalIncome)
	if err != nil {
		return nil, nil, err
	}

	advanced := make([]model.Contract, 0, len(snapshot.Contributions))
	next := 0
	for i := range working {
		if !working[i].IsApplicable(time.Month(month), year) {
			continue
		}
		advance(&working[i], snapshot.Contributions[next])
		advanced = append(advanced, working[i])
		next++
	}

	return snapshot, advanced, nil
}

// computeMonth builds a snapshot for (month, year) from the given contract
// states. Contributions keep the input order.
func (s *ExecutionService) computeMonth(contracts []model.Contract, month, year int, totalIncome decimal.Decimal) (*model.MonthlySnapshot, error) {
	snapshot := &model.MonthlySnapshot{
		Month:            month,
		Year:             year,
		TotalIncome:      totalIncome,
		MandatoryOutflow: decimal.Zero,
		ReducingOutflow:  decimal.Zero,
		GrowingOutflow:   decimal.Zero,
		FixedOutflow:     decimal.Zero,
		Contributions:    []model.ContractContribution{},
		GeneratedAt:      s.now().UTC(),
	}

	for i := range contracts {
		c := &contracts[i]
		if !c.IsApplicable(time.Month(month), year) {
			continue
		}

		contribution, err := contribute(c)
		if err != nil {
			return nil, err
		}

		switch c.Type {
		case model.ContractTypeReducing:
			snapshot.ReducingOutflow = snapshot.ReducingOutflow.Add(contribution.Amount)
		case model.ContractTypeGrowing:
			snapshot.GrowingOutflow = snapshot.GrowingOutflow.Add(contribution.Amount)
		case model.ContractTypeFixed:
			snapshot.FixedOutflow = snapshot.FixedOutflow.Add(contribution.Amount)
		}

		snapshot.ActiveContractCount++
		snapshot.Contributions = append(snapshot.Contributions, contribution)
	}

	snapshot.MandatoryOutflow = snapshot.ReducingOutflow.Add(snapshot.GrowingOutflow).Add(snapshot.FixedOutflow)
	return snapshot, nil
}

// contribute computes a single contract's contribution from its current state.
func contribute(c *model.Contract) (model.ContractContribution, error) {
	contribution := model.ContractContribution{
		ContractID: c.ID,
		Name:       c.Name,
		Type:       c.Type,
		Amount:     c.MonthlyAmount,
	}

	if err := c.ValidateMetadata(); err != nil {
		return model.ContractContribution{}, fmt.Errorf("contract %s: %w", c.ID, err)
	}

	switch c.Type {
	case model.ContractTypeReducing:
		meta := c.Metadata.Reducing
		interest := meta.RemainingBalance.Mul(monthlyRate(meta.AnnualRate))
		principal := c.MonthlyAmount.Sub(interest)
		if principal.IsNegative() {
			principal = decimal.Zero
		}
		// The principal portion never drives the balance negative.
		if principal.GreaterThan(meta.RemainingBalance) {
			principal = meta.RemainingBalance
		}
		newBalance := meta.RemainingBalance.Sub(principal)
		if newBalance.LessThan(zeroTolerance) {
			newBalance = decimal.Zero
		}
		contribution.InterestPortion = &interest
		contribution.PrincipalPortion = &principal
		contribution.NewBalance = &newBalance

	case model.ContractTypeGrowing:
		meta := c.Metadata.Growing
		newInvested := meta.TotalInvested.Add(c.MonthlyAmount)
		contribution.NewInvestedTotal = &newInvested

	case model.ContractTypeFixed:
		// Flat charge, nothing beyond the amount.

	default:
		return model.ContractContribution{}, fmt.Errorf("%w: %q", ErrInvalidContractType, c.Type)
	}

	return contribution, nil
}

// advance applies a month's contribution to a working contract state. Reducing
// balances move toward zero and close the contract when they get there;
// growing contracts accumulate.
func advance(c *model.Contract, contribution model.ContractContribution) {
	switch c.Type {
	case model.ContractTypeReducing:
		meta := c.Metadata.Reducing
		meta.RemainingBalance = *contribution.NewBalance
		meta.PaidInstallments++
		if meta.RemainingBalance.LessThanOrEqual(zeroTolerance) {
			meta.RemainingBalance = decimal.Zero
			c.Status = model.ContractStatusClosed
		}
	case model.ContractTypeGrowing:
		meta := c.Metadata.Growing
		meta.TotalInvested = *contribution.NewInvestedTotal
		meta.CurrentValue = meta.CurrentValue.Add(contribution.Amount)
		meta.PaidMonths++
	}
}

// GenerateProjection rolls the month execution forward over monthCount
// consecutive months starting at (startMonth, startYear), advancing a working
// copy of each contract's financial state as it goes. Loans whose balance
// reaches zero are closed and contribute nothing to later months.
func (s *ExecutionService) GenerateProjection(contracts []model.Contract, startMonth, startYear, monthCount int, monthlyIncome decimal.Decimal) (*model.Projection, error) {
	if startMonth < 1 || startMonth > 12 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMonth, startMonth)
	}
	if monthCount <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMonthCount, monthCount)
	}

	working := make([]model.Contract, len(contracts))
	for i := range contracts {
		working[i] = contracts[i].Clone()
	}

	projection := &model.Projection{
		StartMonth:            startMonth,
		StartYear:             startYear,
		MonthCount:            monthCount,
		Snapshots:             make([]model.MonthlySnapshot, 0, monthCount),
		TotalMandatoryOutflow: decimal.Zero,
		TotalIncome:           decimal.Zero,
		TotalFreeBalance:      decimal.Zero,
	}

	for k := 0; k < monthCount; k++ {
		m, year := datetime.OffsetMonth(time.Month(startMonth), startYear, k)
		month := int(m)
		if month < 1 || month > 12 {
			return nil, fmt.Errorf("%w: derived month %d at offset %d", ErrInvalidMonth, month, k)
		}

		snapshot, err := s.computeMonth(working, month, year, monthlyIncome)
		if err != nil {
			return nil, err
		}

		// Advance working state for every contract that contributed. The
		// contribution list is the applicable subsequence of working, in order.
		next := 0
		for i := range working {
			if !working[i].IsApplicable(m, year) {
				continue
			}
			advance(&working[i], snapshot.Contributions[next])
			next++
		}

		projection.Snapshots = append(projection.Snapshots, *snapshot)
		projection.TotalMandatoryOutflow = projection.TotalMandatoryOutflow.Add(snapshot.MandatoryOutflow)
		projection.TotalIncome = projection.TotalIncome.Add(snapshot.TotalIncome)
		projection.TotalFreeBalance = projection.TotalFreeBalance.Add(snapshot.FreeBalance())
	}

	projection.FinalContracts = working
	projection.AverageMonthlyOutflow = projection.TotalMandatoryOutflow.Div(decimal.NewFromInt(int64(monthCount)))
	return projection, nil
}

// CalculateTypeOutflow sums a single contract type's outflow across the
// horizon, using the same month-by-month walk as a full projection.
func (s *ExecutionService) CalculateTypeOutflow(contracts []model.Contract, contractType model.ContractType, startMonth, startYear, monthCount int) (decimal.Decimal, error) {
	if !contractType.IsValid() {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidContractType, contractType)
	}

	projection, err := s.GenerateProjection(contracts, startMonth, startYear, monthCount, decimal.Zero)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, snapshot := range projection.Snapshots {
		switch contractType {
		case model.ContractTypeReducing:
			total = total.Add(snapshot.ReducingOutflow)
		case model.ContractTypeGrowing:
			total = total.Add(snapshot.GrowingOutflow)
		case model.ContractTypeFixed:
			total = total.Add(snapshot.FixedOutflow)
		}
	}
	return total, nil
}
