package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmortizationService_GenerateSchedule_Validation(t *testing.T) {
	t.Parallel()

	svc := NewAmortizationService()
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   ScheduleInput
		wantErr error
	}{
		{
			name: "zero principal",
			input: ScheduleInput{
				Principal: decimal.Zero, AnnualRate: decimal.NewFromInt(12),
				TenureMonths: 12, EMI: decimal.NewFromInt(10000), StartDate: start,
			},
			wantErr: ErrInvalidPrincipal,
		},
		{
			name: "negative rate",
			input: ScheduleInput{
				Principal: decimal.NewFromInt(100000), AnnualRate: decimal.NewFromInt(-1),
				TenureMonths: 12, EMI: decimal.NewFromInt(10000), StartDate: start,
			},
			wantErr: ErrInvalidRate,
		},
		{
			name: "zero tenure",
			input: ScheduleInput{
				Principal: decimal.NewFromInt(100000), AnnualRate: decimal.NewFromInt(12),
				TenureMonths: 0, EMI: decimal.NewFromInt(10000), StartDate: start,
			},
			wantErr: ErrInvalidTenure,
		},
		{
			name: "zero emi",
			input: ScheduleInput{
				Principal: decimal.NewFromInt(100000), AnnualRate: decimal.NewFromInt(12),
				TenureMonths: 12, EMI: decimal.Zero, StartDate: start,
			},
			wantErr: ErrInvalidEMI,
		},
		{
			name: "emi below first interest",
			input: ScheduleInput{
				// First month's interest is 1000; 900 can never amortize.
				Principal: decimal.NewFromInt(100000), AnnualRate: decimal.NewFromInt(12),
				TenureMonths: 12, EMI: decimal.NewFromInt(900), StartDate: start,
			},
			wantErr: ErrEMITooLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.GenerateSchedule(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAmortizationService_GenerateSchedule_ReducingBalance(t *testing.T) {
	t.Parallel()

	svc := NewAmortizationService()
	summary, err := svc.GenerateSchedule(ScheduleInput{
		Principal:    decimal.NewFromInt(100000),
		AnnualRate:   decimal.NewFromInt(12),
		TenureMonths: 12,
		EMI:          decimal.NewFromInt(10000),
		StartDate:    time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotEmpty(t, summary.Entries)

	// 100000 at 1% per month with a 10000 EMI.
	wantBalances := []string{"91000", "81910", "72729.1"}
	for i, want := range wantBalances {
		assert.True(t, summary.Entries[i].RemainingBalance.Equal(decimal.RequireFromString(want)),
			"month %d balance: got %s, want %s", i+1, summary.Entries[i].RemainingBalance, want)
	}

	first := summary.Entries[0]
	assert.True(t, first.InterestPaid.Equal(decimal.NewFromInt(1000)))
	assert.True(t, first.PrincipalPaid.Equal(decimal.NewFromInt(9000)))

	// Every non-closing month conserves EMI = principal + interest.
	for _, entry := range summary.Entries[:len(summary.Entries)-1] {
		assert.True(t, entry.PrincipalPaid.Add(entry.InterestPaid).Equal(entry.EMIPaid),
			"month %d: principal+interest != emi", entry.MonthIndex)
		assert.True(t, entry.EMIPaid.Equal(summary.EMI))
	}

	// The loan closes in month 11, one month short of tenure, with an
	// adjusted final payment that lands the balance exactly on zero.
	assert.Len(t, summary.Entries, 11)
	last := summary.Entries[len(summary.Entries)-1]
	assert.True(t, last.RemainingBalance.IsZero())
	assert.True(t, last.EMIPaid.LessThan(summary.EMI))
	assert.True(t, last.CumulativePrincipal.Equal(summary.Principal))
	assert.True(t, summary.TotalAmountPayable.Equal(summary.Principal.Add(summary.TotalInterestPayable)))
	assert.Equal(t, last.PaymentDate, summary.ExpectedClosureDate)
}

func TestAmortizationService_GenerateSchedule_PaymentDateClamping(t *testing.T) {
	t.Parallel()

	svc := NewAmortizationService()
	summary, err := svc.GenerateSchedule(ScheduleInput{
		Principal:    decimal.NewFromInt(30000),
		AnnualRate:   decimal.NewFromInt(10),
		TenureMonths: 3,
		EMI:          decimal.NewFromInt(10200),
		StartDate:    time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(summary.Entries), 3)

	// Jan 31 anchors slide to the last valid day of short months.
	assert.Equal(t, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), summary.Entries[0].PaymentDate)
	assert.Equal(t, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC), summary.Entries[1].PaymentDate)
	assert.Equal(t, time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC), summary.Entries[2].PaymentDate)
}

func TestAmortizationService_GenerateSchedule_ZeroRate(t *testing.T) {
	t.Parallel()

	svc := NewAmortizationService()
	summary, err := svc.GenerateSchedule(ScheduleInput{
		Principal:    decimal.NewFromInt(12000),
		AnnualRate:   decimal.Zero,
		TenureMonths: 12,
		EMI:          decimal.NewFromInt(1000),
		StartDate:    time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, summary.Entries, 12)

	for _, entry := range summary.Entries {
		assert.True(t, entry.InterestPaid.IsZero())
	}
	assert.True(t, summary.TotalInterestPayable.IsZero())
	assert.True(t, summary.Entries[11].RemainingBalance.IsZero())
}

func TestAmortizationService_CalculateEMI(t *testing.T) {
	t.Parallel()

	svc := NewAmortizationService()

	tests := []struct {
		name         string
		principal    decimal.Decimal
		annualRate   decimal.Decimal
		tenureMonths int
		want         string
		wantErr      error
	}{
		{
			name:      "standard annuity",
			principal: decimal.NewFromInt(100000), annualRate: decimal.NewFromInt(12),
			tenureMonths: 12, want: "8884.88",
		},
		{
			name:      "zero rate splits evenly",
			principal: decimal.NewFromInt(12000), annualRate: decimal.Zero,
			tenureMonths: 12, want: "1000",
		},
		{
			name:      "zero principal",
			principal: decimal.Zero, annualRate: decimal.NewFromInt(12),
			tenureMonths: 12, wantErr: ErrInvalidPrincipal,
		},
		{
			name:      "zero tenure",
			principal: decimal.NewFromInt(100000), annualRate: decimal.NewFromInt(12),
			tenureMonths: 0, wantErr: ErrInvalidTenure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			emi, err := svc.CalculateEMI(tt.principal, tt.annualRate, tt.tenureMonths)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, emi.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", emi, tt.want)
		})
	}
}

func TestAmortizationService_GenerateSchedule_EMIFromCalculator(t *testing.T) {
	t.Parallel()

	// A schedule driven by the computed EMI pays off within the tenure.
	svc := NewAmortizationService()
	emi, err := svc.CalculateEMI(decimal.NewFromInt(500000), decimal.NewFromFloat(8.5), 60)
	require.NoError(t, err)

	summary, err := svc.GenerateSchedule(ScheduleInput{
		Principal:    decimal.NewFromInt(500000),
		AnnualRate:   decimal.NewFromFloat(8.5),
		TenureMonths: 60,
		EMI:          emi,
		StartDate:    time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(summary.Entries), 60)
	assert.True(t, summary.Entries[len(summary.Entries)-1].RemainingBalance.IsZero())
}
