package simulation

import (
	"math"

	"aluguelcompra/server/internal/rates"
)

// settleTolerance absorbs floating point residue left by the last scheduled
// installment. It is relative to the installment, so small loans do not
// settle early.
const settleTolerance = 1e-9

// settleThreshold is the balance at or below which a loan counts as paid off
func settleThreshold(installment float64) float64 {
	return settleTolerance * math.Max(1, installment)
}

// LedgerPhase is the state of a buyer ledger
type LedgerPhase int

const (
	// PhaseAmortizing: the monthly budget goes to the loan
	PhaseAmortizing LedgerPhase = iota
	// PhaseInvesting: the loan is settled and the budget is invested
	PhaseInvesting
)

// String returns the string representation of a LedgerPhase
func (p LedgerPhase) String() string {
	switch p {
	case PhaseAmortizing:
		return "amortizing"
	case PhaseInvesting:
		return "investing"
	default:
		return "unknown"
	}
}

// Loan is the outstanding principal under one prepayment policy
type Loan struct {
	Balance      float64
	Phase        LedgerPhase
	InterestPaid float64
	// PaidOffMonth is the month whose payment settled the loan, 0 before that
	PaidOffMonth int
}

// pay posts one installment plus extra principal. It moves the loan to
// PhaseInvesting in the month the balance first reaches zero.
func (l *Loan) pay(installment, extra, monthlyRate float64, month int) {
	if l.Phase != PhaseAmortizing {
		return
	}

	interest := l.Balance * monthlyRate
	l.InterestPaid += interest
	l.Balance -= (installment - interest) + extra

	if l.Balance <= settleThreshold(installment) {
		l.Balance = 0
		l.Phase = PhaseInvesting
		l.PaidOffMonth = month
	}
}

// State is everything that evolves during one simulation run
type State struct {
	// Month counts the months already posted
	Month int

	WithExtra    Loan
	WithoutExtra Loan

	// BuyerWealth accrues only after WithExtra is settled
	BuyerWealth  float64
	RenterWealth float64

	Rent          float64
	PropertyValue float64

	RentPaid  float64
	BuyerPaid float64

	// CrossoverYear is the first year whose closing rent exceeds the installment, 0 if none yet
	CrossoverYear int
}

// NewState returns the state before the first month. The renter keeps the
// down payment invested and the buyer has already paid it.
func NewState(p Params, f Financing) State {
	return State{
		WithExtra:     Loan{Balance: f.Financed},
		WithoutExtra:  Loan{Balance: f.Financed},
		RenterWealth:  f.DownPayment,
		Rent:          p.InitialRent,
		PropertyValue: p.Price,
		BuyerPaid:     f.DownPayment,
	}
}

// MonthlyMarketRate converts an annual policy rate in percent into the
// equivalent monthly compounding rate.
func MonthlyMarketRate(policyRatePct float64) float64 {
	return math.Pow(1+policyRatePct/100, 1.0/12) - 1
}

// AdvanceMonth posts one month on all three ledgers and returns the new state
func AdvanceMonth(s State, f Financing, marketRate float64) State {
	s.Month++

	if s.WithExtra.Phase == PhaseAmortizing {
		s.WithExtra.pay(f.Installment, f.ExtraPayment, f.MonthlyRate, s.Month)
		s.BuyerPaid += f.MonthlyBudget
	} else {
		s.BuyerWealth = s.BuyerWealth*(1+marketRate) + f.MonthlyBudget
	}

	s.WithoutExtra.pay(f.Installment, 0, f.MonthlyRate, s.Month)

	// a rent above the budget is a withdrawal
	s.RenterWealth = s.RenterWealth*(1+marketRate) + (f.MonthlyBudget - s.Rent)
	s.RentPaid += s.Rent

	return s
}

// CloseYear applies the year's inflation to rent and property value and
// captures the crossover year the first time rent passes the installment.
func CloseYear(s State, year int, period rates.RatePeriod, installment float64) State {
	growth := 1 + period.Inflation/100
	s.Rent *= growth
	s.PropertyValue *= growth

	if s.CrossoverYear == 0 && s.Rent > installment {
		s.CrossoverYear = year
	}
	return s
}
