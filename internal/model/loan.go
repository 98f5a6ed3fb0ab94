package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AmortizationEntry is one month in a reducing-balance payment schedule.
// EMIPaid can differ from the nominal EMI on the closing month.
type AmortizationEntry struct {
	MonthIndex          int             `json:"monthIndex"` // 1-based
	PaymentDate         time.Time       `json:"paymentDate"`
	EMIPaid             decimal.Decimal `json:"emiPaid"`
	PrincipalPaid       decimal.Decimal `json:"principalPaid"`
	InterestPaid        decimal.Decimal `json:"interestPaid"`
	RemainingBalance    decimal.Decimal `json:"remainingBalance"`
	CumulativePrincipal decimal.Decimal `json:"cumulativePrincipal"`
	CumulativeInterest  decimal.Decimal `json:"cumulativeInterest"`
}

// LoanSummary wraps a full amortization schedule with the loan's static
// parameters and aggregate totals.
type LoanSummary struct {
	Principal            decimal.Decimal     `json:"principal"`
	AnnualRate           decimal.Decimal     `json:"annualRate"`
	TenureMonths         int                 `json:"tenureMonths"`
	EMI                  decimal.Decimal     `json:"emi"`
	StartDate            time.Time           `json:"startDate"`
	Entries              []AmortizationEntry `json:"entries"`
	TotalAmountPayable   decimal.Decimal     `json:"totalAmountPayable"`
	TotalInterestPayable decimal.Decimal     `json:"totalInterestPayable"`
	ExpectedClosureDate  time.Time           `json:"expectedClosureDate"`
}
