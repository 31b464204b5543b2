package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

type pdfReport struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	report *Report
}

// PDF renders a printable version of the report on A4 pages
func (r *Report) PDF() ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(marginLeft, marginTop, marginRight)
	doc.SetAutoPageBreak(true, marginBottom)

	p := &pdfReport{
		pdf:    doc,
		tr:     doc.UnicodeTranslatorFromDescriptor(""),
		report: r,
	}
	p.addSummaryPage()
	p.addYearTable()
	p.addMarketPage()

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *pdfReport) header(title string) {
	p.pdf.SetFont("Arial", "B", 14)
	p.pdf.SetTextColor(0, 51, 102)
	p.pdf.CellFormat(contentWidth, 10, p.tr(title), "B", 1, "L", false, 0, "")
	p.pdf.Ln(3)
}

func (p *pdfReport) keyValue(key, value string) {
	p.pdf.SetFont("Arial", "", 10)
	p.pdf.SetTextColor(50, 50, 50)
	p.pdf.CellFormat(contentWidth*0.55, 6, p.tr(key), "", 0, "L", false, 0, "")
	p.pdf.SetFont("Arial", "B", 10)
	p.pdf.CellFormat(contentWidth*0.45, 6, p.tr(value), "", 1, "R", false, 0, "")
}

func (p *pdfReport) tableRow(widths []float64, cells []string, bold, fill bool) {
	style := ""
	if bold {
		style = "B"
	}
	p.pdf.SetFont("Arial", style, 8)
	for i, c := range cells {
		align := "R"
		if i == len(cells)-1 && !bold {
			align = "L"
		}
		p.pdf.CellFormat(widths[i], 5, p.tr(c), "1", 0, align, fill, 0, "")
	}
	p.pdf.Ln(-1)
}

func (p *pdfReport) addSummaryPage() {
	res := p.report.Result
	f, s := res.Financing, res.Summary

	p.pdf.AddPage()
	p.pdf.SetFont("Arial", "B", 20)
	p.pdf.SetTextColor(0, 51, 102)
	p.pdf.CellFormat(contentWidth, 12, p.tr("Aluguel vs Compra"), "", 1, "C", false, 0, "")
	p.pdf.SetFont("Arial", "I", 10)
	p.pdf.SetTextColor(100, 100, 100)
	p.pdf.CellFormat(contentWidth, 6, p.tr("Gerado em "+p.report.GeneratedAt.Format("02/01/2006 15:04")), "", 1, "C", false, 0, "")
	p.pdf.Ln(6)

	p.header("Parâmetros")
	p.keyValue("Preço do imóvel", "R$ "+brl(res.Params.Price))
	p.keyValue("Entrada", "R$ "+brl(f.DownPayment))
	p.keyValue("Financiado", "R$ "+brl(f.Financed))
	p.keyValue("Parcela", "R$ "+brl(f.Installment))
	p.keyValue("Amortização extra", "R$ "+brl(f.ExtraPayment))
	p.keyValue("Orçamento mensal", "R$ "+brl(f.MonthlyBudget))
	p.keyValue("Aluguel inicial", "R$ "+brl(res.Params.InitialRent))
	p.pdf.Ln(4)

	p.header("Resultado")
	if s.PaidOff {
		p.keyValue("Quitação", fmt.Sprintf("%d meses", s.PayoffMonths))
	} else {
		p.keyValue("Quitação", "não quitado")
	}
	p.keyValue("Economia de juros", "R$ "+brl(s.InterestSavings))
	if s.CrossoverYear > 0 {
		p.keyValue("Aluguel ultrapassa parcela", fmt.Sprintf("ano %d", s.CrossoverYear))
	} else {
		p.keyValue("Aluguel ultrapassa parcela", "nunca")
	}
	p.keyValue("Aluguel final", "R$ "+brl(s.FinalRent))
	p.pdf.Ln(4)

	p.header("Ranking patrimonial")
	for i, rs := range res.Ranking {
		p.keyValue(fmt.Sprintf("%dº %s", i+1, rs.Scenario), "R$ "+brl(rs.Wealth))
	}
}

func (p *pdfReport) addYearTable() {
	p.pdf.AddPage()
	p.header("Evolução ano a ano")

	widths := []float64{12, 14, 14, 14, 25, 25, 27, 27, 22}
	p.pdf.SetFillColor(230, 236, 245)
	p.pdf.SetTextColor(0, 0, 0)
	p.tableRow(widths, []string{"Ano", "IPCA", "Selic", "Aluguel", "Saldo", "Sem amort.", "Comprador", "Inquilino", "Imóvel (mil)"}, true, true)
	for _, y := range p.report.Result.Years {
		p.tableRow(widths, []string{
			fmt.Sprintf("%d", y.Year),
			pct(y.Inflation),
			pct(y.PolicyRate),
			brl(y.Rent),
			brl(y.BalanceWithExtra),
			brl(y.BalanceWithoutExtra),
			brl(y.BuyerWealth),
			brl(y.RenterWealth),
			brl(y.PropertyValue / 1000),
		}, false, false)
	}
}

func (p *pdfReport) addMarketPage() {
	if len(p.report.Listings) == 0 {
		return
	}

	p.pdf.AddPage()
	p.header("Imóveis coletados")

	widths := []float64{18, 14, 10, 10, 10, 28, 90}
	p.pdf.SetFillColor(230, 236, 245)
	p.tableRow(widths, []string{"Tipo", "Área", "Q", "B", "V", "Preço", "Fonte"}, true, true)
	for _, l := range p.report.Listings {
		p.tableRow(widths, []string{
			l.Kind.String(),
			brl(l.Area),
			fmt.Sprintf("%d", l.Bedrooms),
			fmt.Sprintf("%d", l.Bathrooms),
			fmt.Sprintf("%d", l.ParkingSpots),
			brl(l.Price),
			l.Source,
		}, false, false)
	}
}
