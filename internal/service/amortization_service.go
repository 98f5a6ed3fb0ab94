package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerpath/backend/internal/model"
	"github.com/ledgerpath/backend/pkg/datetime"
)

// Input validation errors for schedule generation.
var (
	ErrInvalidPrincipal = errors.New("principal must be greater than zero")
	ErrInvalidRate      = errors.New("annual rate must not be negative")
	ErrInvalidTenure    = errors.New("tenure must be greater than zero months")
	ErrInvalidEMI       = errors.New("emi must be greater than zero")
	ErrEMITooLow        = errors.New("emi does not cover the first month's interest")
)

// Numerical-stability constants. Balances within zeroTolerance of zero are
// treated as paid off; the EMI guard allows an emi up to emiGuardTolerance
// below the first month's interest before rejecting the loan as
// non-amortizing.
var (
	zeroTolerance     = decimal.RequireFromString("0.01")
	emiGuardTolerance = decimal.RequireFromString("0.1")
)

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// AmortizationService computes reducing-balance payment schedules. It is
// stateless and safe for concurrent use.
type AmortizationService struct{}

// NewAmortizationService creates a new AmortizationService.
func NewAmortizationService() *AmortizationService {
	return &AmortizationService{}
}

type ScheduleInput struct {
	Principal    decimal.Decimal `json:"principal"`
	AnnualRate   decimal.Decimal `json:"annualRate"` // APR as percentage
	TenureMonths int             `json:"tenureMonths"`
	EMI          decimal.Decimal `json:"emi"`
	StartDate    time.Time       `json:"startDate"`
}

// monthlyRate converts an annual percentage rate to a monthly fraction.
func monthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.Div(twelve).Div(hundred)
}

// GenerateSchedule produces the full payment schedule for one loan. The
// recurrence runs at full decimal precision; rounding for display is the
// caller's responsibility. The closing month's payment is adjusted so the
// balance lands exactly on zero, and the schedule ends early if the balance
// reaches zero before the tenure does.
func (s *AmortizationService) GenerateSchedule(input ScheduleInput) (*model.LoanSummary, error) {
	if !input.Principal.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidPrincipal, input.Principal)
	}
	if input.AnnualRate.IsNegative() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidRate, input.AnnualRate)
	}
	if input.TenureMonths <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTenure, input.TenureMonths)
	}
	if !input.EMI.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidEMI, input.EMI)
	}

	rate := monthlyRate(input.AnnualRate)
	firstInterest := input.Principal.Mul(rate)
	if input.EMI.LessThanOrEqual(firstInterest.Sub(emiGuardTolerance)) {
		return nil, fmt.Errorf("%w: emi %s, first interest %s", ErrEMITooLow, input.EMI, firstInterest)
	}

	entries := make([]model.AmortizationEntry, 0, input.TenureMonths)
	balance := input.Principal
	cumPrincipal := decimal.Zero
	cumInterest := decimal.Zero

	for month := 1; month <= input.TenureMonths; month++ {
		interest := balance.Mul(rate)
		principalIfFull := input.EMI.Sub(interest)

		var principalPaid, emiPaid decimal.Decimal
		if month == input.TenureMonths || balance.LessThanOrEqual(principalIfFull.Add(zeroTolerance)) {
			// Closing month: pay off whatever is left.
			principalPaid = balance
			emiPaid = principalPaid.Add(interest)
		} else {
			principalPaid = principalIfFull
			emiPaid = input.EMI
		}

		balance = balance.Sub(principalPaid)
		if balance.LessThan(zeroTolerance) {
			balance = decimal.Zero
		}

		cumPrincipal = cumPrincipal.Add(principalPaid)
		cumInterest = cumInterest.Add(interest)

		entries = append(entries, model.AmortizationEntry{
			MonthIndex:          month,
			PaymentDate:         datetime.AddMonthsClamped(input.StartDate, month),
			EMIPaid:             emiPaid,
			PrincipalPaid:       principalPaid,
			InterestPaid:        interest,
			RemainingBalance:    balance,
			CumulativePrincipal: cumPrincipal,
			CumulativeInterest:  cumInterest,
		})

		if balance.IsZero() {
			break
		}
	}

	return &model.LoanSummary{
		Principal:            input.Principal,
		AnnualRate:           input.AnnualRate,
		TenureMonths:         input.TenureMonths,
		EMI:                  input.EMI,
		StartDate:            input.StartDate,
		Entries:              entries,
		TotalAmountPayable:   cumPrincipal.Add(cumInterest),
		TotalInterestPayable: cumInterest,
		ExpectedClosureDate:  entries[len(entries)-1].PaymentDate,
	}, nil
}

// CalculateEMI computes the fixed monthly installment using the standard
// annuity formula EMI = P*r*(1+r)^n / ((1+r)^n - 1). A non-positive rate
// degrades to a straight-line split of the principal.
func (s *AmortizationService) CalculateEMI(principal, annualRate decimal.Decimal, tenureMonths int) (decimal.Decimal, error) {
	if !principal.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: got %s", ErrInvalidPrincipal, principal)
	}
	if tenureMonths <= 0 {
		return decimal.Zero, fmt.Errorf("%w: got %d", ErrInvalidTenure, tenureMonths)
	}

	if annualRate.LessThanOrEqual(decimal.Zero) {
		return principal.Div(decimal.NewFromInt(int64(tenureMonths))), nil
	}

	r := monthlyRate(annualRate).InexactFloat64()
	p := principal.InexactFloat64()
	n := float64(tenureMonths)

	factor := math.Pow(1+r, n)
	emi := p * r * factor / (factor - 1)
	return decimal.NewFromFloat(emi).Round(2), nil
}
