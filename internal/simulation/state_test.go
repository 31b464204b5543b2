package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"aluguelcompra/server/internal/rates"
)

func TestLedgerPhase_String(t *testing.T) {
	assert.Equal(t, "amortizing", PhaseAmortizing.String())
	assert.Equal(t, "investing", PhaseInvesting.String())
	assert.Equal(t, "unknown", LedgerPhase(7).String())
}

func TestMonthlyMarketRate(t *testing.T) {
	// twelve compounded months give back the annual rate
	m := MonthlyMarketRate(12)
	compounded := 1.0
	for i := 0; i < 12; i++ {
		compounded *= 1 + m
	}
	assert.InDelta(t, 1.12, compounded, 1e-12)
	assert.Zero(t, MonthlyMarketRate(0))
}

func TestAdvanceMonth_FirstMonth(t *testing.T) {
	p := baseParams()
	f := NewFinancing(p)
	s := NewState(p, f)

	next := AdvanceMonth(s, f, 0.01)

	interest := f.Financed * f.MonthlyRate
	assert.Equal(t, 1, next.Month)
	assert.InDelta(t, interest, next.WithExtra.InterestPaid, 1e-9)
	assert.InDelta(t, interest, next.WithoutExtra.InterestPaid, 1e-9)
	assert.InDelta(t, f.Financed-(f.Installment-interest)-f.ExtraPayment, next.WithExtra.Balance, 1e-9)
	assert.InDelta(t, f.Financed-(f.Installment-interest), next.WithoutExtra.Balance, 1e-9)
	assert.Zero(t, next.BuyerWealth)
	assert.InDelta(t, f.DownPayment*1.01+f.MonthlyBudget-p.InitialRent, next.RenterWealth, 1e-9)
	assert.InDelta(t, p.InitialRent, next.RentPaid, 1e-9)
	assert.InDelta(t, f.DownPayment+f.MonthlyBudget, next.BuyerPaid, 1e-9)

	// the input state is a value and stays untouched
	assert.Zero(t, s.Month)
	assert.Equal(t, f.Financed, s.WithExtra.Balance)
}

func TestAdvanceMonth_SwitchesToInvestingAtPayoffMonth(t *testing.T) {
	f := Financing{
		Financed:      1000,
		Installment:   400,
		ExtraPayment:  200,
		MonthlyBudget: 600,
	}
	s := State{
		WithExtra:    Loan{Balance: 1000},
		WithoutExtra: Loan{Balance: 1000},
		Rent:         100,
	}

	s = AdvanceMonth(s, f, 0)
	assert.Equal(t, PhaseAmortizing, s.WithExtra.Phase)
	assert.InDelta(t, 400, s.WithExtra.Balance, 1e-9)

	// the second payment overshoots, the balance is clamped and the month recorded
	s = AdvanceMonth(s, f, 0)
	assert.Equal(t, PhaseInvesting, s.WithExtra.Phase)
	assert.Zero(t, s.WithExtra.Balance)
	assert.Equal(t, 2, s.WithExtra.PaidOffMonth)
	assert.Zero(t, s.BuyerWealth, "the payoff month itself is not invested")

	s = AdvanceMonth(s, f, 0)
	assert.InDelta(t, 600, s.BuyerWealth, 1e-9)
	assert.Equal(t, 2, s.WithExtra.PaidOffMonth, "payoff month is recorded once")
	assert.InDelta(t, 1200, s.BuyerPaid, 1e-9, "no payments after payoff")

	// the plain schedule pays 400 per month and settles in the third month
	assert.Equal(t, PhaseInvesting, s.WithoutExtra.Phase)
	assert.Equal(t, 3, s.WithoutExtra.PaidOffMonth)
}

func TestCloseYear_CrossoverCapturedOnce(t *testing.T) {
	s := State{Rent: 1000, PropertyValue: 100000}
	period := rates.RatePeriod{Year: 2030, Inflation: 10, PolicyRate: 10}

	s = CloseYear(s, 1, period, 1050)
	assert.InDelta(t, 1100, s.Rent, 1e-9)
	assert.InDelta(t, 110000, s.PropertyValue, 1e-9)
	assert.Equal(t, 1, s.CrossoverYear)

	s = CloseYear(s, 2, period, 1050)
	assert.Equal(t, 1, s.CrossoverYear)
}

func TestCloseYear_NoCrossoverBelowInstallment(t *testing.T) {
	s := State{Rent: 1000, PropertyValue: 100000}
	s = CloseYear(s, 1, rates.RatePeriod{Inflation: 0}, 1000)
	assert.Zero(t, s.CrossoverYear, "rent must exceed the installment, not equal it")
}

func TestSettleThreshold_ScalesWithInstallment(t *testing.T) {
	assert.Equal(t, settleTolerance, settleThreshold(0.0002))
	assert.Equal(t, settleTolerance, settleThreshold(1))
	assert.InDelta(t, 3071.5*settleTolerance, settleThreshold(3071.5), 1e-15)
}

func TestLoan_SmallBalanceIsNotSettledEarly(t *testing.T) {
	// a whole payment on a tiny loan is far below a cent and must still count
	l := Loan{Balance: 0.0006}

	l.pay(0.0002, 0, 0, 1)
	assert.Equal(t, PhaseAmortizing, l.Phase)
	l.pay(0.0002, 0, 0, 2)
	assert.Equal(t, PhaseAmortizing, l.Phase)
	l.pay(0.0002, 0, 0, 3)
	assert.Equal(t, PhaseInvesting, l.Phase)
	assert.Equal(t, 3, l.PaidOffMonth)
}
