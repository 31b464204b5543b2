package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

var (
	listingHeader = []string{"tipo", "area_m2", "quartos", "banheiros", "vagas", "preco", "preco_m2", "fonte", "bairro"}
	yearHeader    = []string{"ano", "year", "ipca", "selic", "aluguel", "saldo_financ", "patrim_comprador", "patrim_inquilino", "imovel_valor"}
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// CSV renders the listing table, a blank line and the yearly table
func (r *Report) CSV() ([]byte, error) {
	var buf bytes.Buffer

	listings := csv.NewWriter(&buf)
	if err := listings.Write(listingHeader); err != nil {
		return nil, err
	}
	for _, l := range r.Listings {
		v := l.View()
		row := []string{
			v.Kind,
			formatFloat(v.Area),
			strconv.Itoa(v.Bedrooms),
			strconv.Itoa(v.Bathrooms),
			strconv.Itoa(v.ParkingSpots),
			formatFloat(v.Price),
			strconv.FormatFloat(v.PricePerArea, 'f', 2, 64),
			v.Source,
			v.Neighborhood,
		}
		if err := listings.Write(row); err != nil {
			return nil, err
		}
	}
	listings.Flush()
	if err := listings.Error(); err != nil {
		return nil, err
	}

	buf.WriteByte('\n')

	years := csv.NewWriter(&buf)
	if err := years.Write(yearHeader); err != nil {
		return nil, err
	}
	for _, y := range ToExport(r.Result).Years {
		row := []string{
			strconv.Itoa(y.Index),
			strconv.Itoa(y.Year),
			formatFloat(y.Inflation),
			formatFloat(y.PolicyRate),
			formatFloat(y.Rent),
			formatFloat(y.BalanceWithExtra),
			formatFloat(y.BuyerWealth),
			formatFloat(y.RenterWealth),
			formatFloat(y.PropertyValue),
		}
		if err := years.Write(row); err != nil {
			return nil, err
		}
	}
	years.Flush()
	if err := years.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
