package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"aluguelcompra/server/internal/models"
	"aluguelcompra/server/internal/simulation"
)

const ruleWidth = 75

// reportedYears are the simulation years shown in the evolution table
var reportedYears = map[int]bool{1: true, 3: true, 5: true, 8: true, 10: true, 12: true, 15: true, 20: true, 25: true, 30: true}

var printer = message.NewPrinter(language.BrazilianPortuguese)

// brl formats whole reais with Brazilian grouping, e.g. 1.234.567
func brl(v float64) string {
	return printer.Sprintf("%.0f", v)
}

func pct(v float64) string {
	return printer.Sprintf("%.1f%%", v)
}

// wholePct formats a fraction as a whole percentage, e.g. 0.3 as 30%
func wholePct(fraction float64) string {
	return printer.Sprintf("%.0f%%", fraction*100)
}

type textWriter struct {
	b strings.Builder
}

func (w *textWriter) line(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteByte('\n')
}

func (w *textWriter) rule(ch string) {
	w.line("%s", strings.Repeat(ch, ruleWidth))
}

// Text renders the Portuguese plain text report
func (r *Report) Text() string {
	w := &textWriter{}

	w.rule("=")
	w.line("RELATÓRIO COMPARATIVO: ALUGUEL vs COMPRA - %s, DIVINÓPOLIS/MG", strings.ToUpper(models.DefaultNeighborhood))
	w.line("Gerado em: %s", r.GeneratedAt.Format("02/01/2006 15:04"))
	w.rule("=")

	r.writeMarket(w)
	r.writeSimulation(w)
	r.writeRanking(w)

	return w.b.String()
}

func (r *Report) writeMarket(w *textWriter) {
	sales := models.SortByPrice(models.FilterSales(r.Listings))
	rentals := models.SortByPrice(models.FilterKind(r.Listings, models.KindRent))

	w.line("")
	w.line("DADOS DO MERCADO (casas %s)", models.DefaultNeighborhood)

	w.line("")
	w.line("-- VENDA (%d imóveis, filtro: >=100m², com garagem) --", len(sales))
	w.line("   Área |  Q |  B |  V |          Preço |     R$/m² | Fonte")
	w.line("--------+----+----+----+----------------+-----------+---------------------")
	for _, l := range sales {
		w.line("%6sm²| %2d | %2d | %2d | R$ %11s | R$ %6s | %s",
			brl(l.Area), l.Bedrooms, l.Bathrooms, l.ParkingSpots, brl(l.Price), brl(l.PricePerArea()), l.Source)
	}
	if len(sales) > 0 {
		stats := models.ComputeMarketStats(sales)
		w.line("")
		w.line("  Mediana venda: R$ %s", brl(stats.MedianPrice))
		w.line("  Faixa: R$ %s a R$ %s", brl(stats.MinPrice), brl(stats.MaxPrice))
	}

	w.line("")
	w.line("-- ALUGUEL (%d imóveis) --", len(rentals))
	w.line("   Área |  Q |  B |  V |    Aluguel/mês | Fonte")
	w.line("--------+----+----+----+----------------+---------------------")
	for _, l := range rentals {
		w.line("%6sm²| %2d | %2d | %2d | R$ %11s | %s",
			brl(l.Area), l.Bedrooms, l.Bathrooms, l.ParkingSpots, brl(l.Price), l.Source)
	}
	if len(rentals) > 0 {
		stats := models.ComputeMarketStats(rentals)
		w.line("")
		w.line("  Mediana aluguel: R$ %s/mês", brl(stats.MedianPrice))
	}
}

func (r *Report) writeSimulation(w *textWriter) {
	res := r.Result
	p, f, s := res.Params, res.Financing, res.Summary

	w.line("")
	w.rule("=")
	w.line("SIMULAÇÃO FINANCEIRA (%d ANOS COM CICLOS ECONÔMICOS)", len(res.Years))
	w.rule("=")
	w.line("")
	w.line("  Imóvel: R$ %s | Entrada %s: R$ %s", brl(p.Price), wholePct(p.DownPaymentFraction), brl(f.DownPayment))
	w.line("  Financiamento: R$ %s a %s a.a.", brl(f.Financed), wholePct(p.AnnualFinancingRate))
	w.line("  Parcela: R$ %s/mês | Amortização extra: R$ %s/mês", brl(f.Installment), brl(f.ExtraPayment))
	w.line("  Orçamento mensal: R$ %s (igual para todos os cenários)", brl(f.MonthlyBudget))
	w.line("  Aluguel inicial: R$ %s/mês", brl(p.InitialRent))
	w.line("")
	w.line("  Médias projetadas: Selic %s | IPCA %s | Juros real %s",
		pct(res.Averages.PolicyRate), pct(res.Averages.Inflation), pct(res.Averages.RealRate))

	w.line("")
	w.line("-- EVOLUÇÃO ANO A ANO --")
	w.line(" Ano |  IPCA | Selic |   Aluguel |   Parcela |  Saldo fin. |   Patrim.Inq.")
	w.line("-----+-------+-------+-----------+-----------+-------------+--------------")
	for _, y := range res.Years {
		if !reportedYears[y.Index] {
			continue
		}
		balance := "QUITADO"
		if y.BalanceWithExtra > 0 {
			balance = "R$ " + brl(y.BalanceWithExtra)
		}
		w.line("%4d | %5s | %5s | R$ %6s | R$ %6s | %11s | R$ %10s",
			y.Index, pct(y.Inflation), pct(y.PolicyRate), brl(y.Rent), brl(f.Installment), balance, brl(y.RenterWealth))
	}

	w.line("")
	w.line("-- RESULTADO FINAL --")
	if s.PaidOff {
		w.line("  Financiamento quitado em: %s anos (%d meses)", printer.Sprintf("%.1f", s.PayoffYears), s.PayoffMonths)
	} else {
		w.line("  Financiamento não quitado no horizonte de %d meses", simulation.TermMonths)
	}
	w.line("  Economia de juros com amortização: R$ %s", brl(s.InterestSavings))
	if s.CrossoverYear > 0 {
		w.line("  Aluguel ultrapassa parcela no: Ano %d", s.CrossoverYear)
	} else {
		w.line("  Aluguel não ultrapassa a parcela no horizonte")
	}
	w.line("  Aluguel final: R$ %s/mês vs Parcela: R$ %s/mês", brl(s.FinalRent), brl(s.Installment))
}

func (r *Report) writeRanking(w *textWriter) {
	ranking := r.Result.Ranking

	w.line("")
	w.rule("=")
	w.line("RANKING PATRIMONIAL (%d ANOS)", len(r.Result.Years))
	w.rule("=")
	for i, rs := range ranking {
		w.line("  %dº %-30s R$ %12s", i+1, rs.Scenario.String(), brl(rs.Wealth))
	}
	if len(ranking) < 2 {
		return
	}

	winner, second := ranking[0], ranking[1]
	w.line("")
	// a ratio is meaningless once the runner-up wealth is not positive
	if second.Wealth > 0 {
		w.line("  %s vence por %sx", winner.Scenario, printer.Sprintf("%.1f", winner.Wealth/second.Wealth))
	} else {
		w.line("  %s vence por R$ %s", winner.Scenario, brl(winner.Wealth-second.Wealth))
	}
}
