package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"aluguelcompra/server/internal/simulation"
)

// round2 rounds half away from zero to cents. Only the export boundary rounds;
// the engine keeps full precision.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

type ParamsExport struct {
	Price          float64 `json:"preco_imovel"`
	DownPaymentPct float64 `json:"entrada_pct"`
	DownPayment    float64 `json:"entrada_valor"`
	Financed       float64 `json:"financiado"`
	FinancingRate  float64 `json:"taxa_financ"`
	Installment    float64 `json:"parcela"`
	ExtraPct       float64 `json:"amort_extra_pct"`
	ExtraPayment   float64 `json:"amort_extra_valor"`
	MonthlyBudget  float64 `json:"orcamento_mensal"`
	InitialRent    float64 `json:"aluguel_inicial"`
}

type AveragesExport struct {
	PolicyRate float64 `json:"selic_media"`
	Inflation  float64 `json:"ipca_medio"`
	RealRate   float64 `json:"juros_real_medio"`
}

type SummaryExport struct {
	PaidOff                  bool    `json:"quitado"`
	PayoffMonths             int     `json:"meses_quitou"`
	PayoffYears              float64 `json:"anos_quitou"`
	WithoutExtraPayoffMonths int     `json:"meses_quitou_sem_amort"`
	InterestWithExtra        float64 `json:"juros_com_amort"`
	InterestWithoutExtra     float64 `json:"juros_sem_amort"`
	InterestSavings          float64 `json:"economia_juros"`
	// CrossoverYear is null when rent never passes the installment
	CrossoverYear      *int    `json:"crossover_ano"`
	FinalRent          float64 `json:"aluguel_final"`
	Installment        float64 `json:"parcela_fixa"`
	FinalPropertyValue float64 `json:"imovel_valorizado"`
	BuyerInvestment    float64 `json:"patrim_comprador_invest"`
	BuyerTotalWealth   float64 `json:"patrim_comprador_total"`
	RenterWealth       float64 `json:"patrim_inquilino"`
	TotalRentPaid      float64 `json:"total_pago_aluguel"`
	TotalBuyerPaid     float64 `json:"total_pago_compra"`
}

type RankingExport struct {
	Scenario string  `json:"cenario"`
	Wealth   float64 `json:"patrimonio"`
}

type YearExport struct {
	Index               int     `json:"ano"`
	Year                int     `json:"year"`
	Inflation           float64 `json:"ipca"`
	PolicyRate          float64 `json:"selic"`
	Rent                float64 `json:"aluguel"`
	BalanceWithExtra    float64 `json:"saldo_com"`
	BalanceWithoutExtra float64 `json:"saldo_sem"`
	BuyerWealth         float64 `json:"patrim_comprador"`
	RenterWealth        float64 `json:"patrim_inquilino"`
	PropertyValue       float64 `json:"imovel_val"`
}

// SimulationExport is the public data contract of a simulation for JSON and
// CSV consumers. Money and percentages are rounded to cents.
type SimulationExport struct {
	Params   ParamsExport    `json:"parametros"`
	Averages AveragesExport  `json:"medias"`
	Summary  SummaryExport   `json:"resultado"`
	Ranking  []RankingExport `json:"ranking"`
	Years    []YearExport    `json:"historico_anual"`
}

// ToExport converts an engine result into its rounded export form
func ToExport(r *simulation.Result) SimulationExport {
	p, f, s := r.Params, r.Financing, r.Summary

	e := SimulationExport{
		Params: ParamsExport{
			Price:          round2(p.Price),
			DownPaymentPct: p.DownPaymentFraction,
			DownPayment:    round2(f.DownPayment),
			Financed:       round2(f.Financed),
			FinancingRate:  p.AnnualFinancingRate,
			Installment:    round2(f.Installment),
			ExtraPct:       p.ExtraAmortizationFraction,
			ExtraPayment:   round2(f.ExtraPayment),
			MonthlyBudget:  round2(f.MonthlyBudget),
			InitialRent:    round2(p.InitialRent),
		},
		Averages: AveragesExport{
			PolicyRate: round2(r.Averages.PolicyRate),
			Inflation:  round2(r.Averages.Inflation),
			RealRate:   round2(r.Averages.RealRate),
		},
		Summary: SummaryExport{
			PaidOff:                  s.PaidOff,
			PayoffMonths:             s.PayoffMonths,
			PayoffYears:              round2(s.PayoffYears),
			WithoutExtraPayoffMonths: s.WithoutExtraPayoffMonths,
			InterestWithExtra:        round2(s.InterestWithExtra),
			InterestWithoutExtra:     round2(s.InterestWithoutExtra),
			InterestSavings:          round2(s.InterestSavings),
			FinalRent:                round2(s.FinalRent),
			Installment:              round2(s.Installment),
			FinalPropertyValue:       round2(s.FinalPropertyValue),
			BuyerInvestment:          round2(s.BuyerInvestment),
			BuyerTotalWealth:         round2(s.BuyerTotalWealth),
			RenterWealth:             round2(s.RenterWealth),
			TotalRentPaid:            round2(s.TotalRentPaid),
			TotalBuyerPaid:           round2(s.TotalBuyerPaid),
		},
		Ranking: make([]RankingExport, len(r.Ranking)),
		Years:   make([]YearExport, len(r.Years)),
	}
	if s.CrossoverYear > 0 {
		year := s.CrossoverYear
		e.Summary.CrossoverYear = &year
	}

	for i, rs := range r.Ranking {
		e.Ranking[i] = RankingExport{Scenario: rs.Scenario.String(), Wealth: round2(rs.Wealth)}
	}
	for i, y := range r.Years {
		e.Years[i] = YearExport{
			Index:               y.Index,
			Year:                y.Year,
			Inflation:           y.Inflation,
			PolicyRate:          y.PolicyRate,
			Rent:                round2(y.Rent),
			BalanceWithExtra:    round2(y.BalanceWithExtra),
			BalanceWithoutExtra: round2(y.BalanceWithoutExtra),
			BuyerWealth:         round2(y.BuyerWealth),
			RenterWealth:        round2(y.RenterWealth),
			PropertyValue:       round2(y.PropertyValue),
		}
	}
	return e
}

// FromExport rebuilds a result from its export form, e.g. a published snapshot
func FromExport(e SimulationExport) (*simulation.Result, error) {
	r := &simulation.Result{
		Params: simulation.Params{
			Price:                     e.Params.Price,
			InitialRent:               e.Params.InitialRent,
			DownPaymentFraction:       e.Params.DownPaymentPct,
			AnnualFinancingRate:       e.Params.FinancingRate,
			ExtraAmortizationFraction: e.Params.ExtraPct,
		},
		Financing: simulation.Financing{
			DownPayment:   e.Params.DownPayment,
			Financed:      e.Params.Financed,
			MonthlyRate:   e.Params.FinancingRate / 12,
			Installment:   e.Params.Installment,
			ExtraPayment:  e.Params.ExtraPayment,
			MonthlyBudget: e.Params.MonthlyBudget,
		},
		Averages: simulation.Averages{
			PolicyRate: e.Averages.PolicyRate,
			Inflation:  e.Averages.Inflation,
			RealRate:   e.Averages.RealRate,
		},
		Summary: simulation.Summary{
			PaidOff:                  e.Summary.PaidOff,
			PayoffMonths:             e.Summary.PayoffMonths,
			PayoffYears:              e.Summary.PayoffYears,
			WithoutExtraPayoffMonths: e.Summary.WithoutExtraPayoffMonths,
			InterestWithExtra:        e.Summary.InterestWithExtra,
			InterestWithoutExtra:     e.Summary.InterestWithoutExtra,
			InterestSavings:          e.Summary.InterestSavings,
			FinalRent:                e.Summary.FinalRent,
			Installment:              e.Summary.Installment,
			FinalPropertyValue:       e.Summary.FinalPropertyValue,
			BuyerInvestment:          e.Summary.BuyerInvestment,
			BuyerTotalWealth:         e.Summary.BuyerTotalWealth,
			RenterWealth:             e.Summary.RenterWealth,
			TotalRentPaid:            e.Summary.TotalRentPaid,
			TotalBuyerPaid:           e.Summary.TotalBuyerPaid,
		},
		Ranking: make([]simulation.RankedScenario, len(e.Ranking)),
		Years:   make([]simulation.YearSnapshot, len(e.Years)),
	}
	if e.Summary.CrossoverYear != nil {
		r.Summary.CrossoverYear = *e.Summary.CrossoverYear
	}

	for i, rk := range e.Ranking {
		scenario, ok := simulation.ParseScenario(rk.Scenario)
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q in ranking", rk.Scenario)
		}
		r.Ranking[i] = simulation.RankedScenario{Scenario: scenario, Wealth: rk.Wealth}
	}
	for i, y := range e.Years {
		r.Years[i] = simulation.YearSnapshot{
			Index:               y.Index,
			Year:                y.Year,
			Inflation:           y.Inflation,
			PolicyRate:          y.PolicyRate,
			Rent:                y.Rent,
			BalanceWithExtra:    y.BalanceWithExtra,
			BalanceWithoutExtra: y.BalanceWithoutExtra,
			BuyerWealth:         y.BuyerWealth,
			RenterWealth:        y.RenterWealth,
			PropertyValue:       y.PropertyValue,
		}
	}
	return r, nil
}
