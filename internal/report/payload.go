package report

import (
	"bytes"
	"encoding/json"
	"time"

	"aluguelcompra/server/internal/models"
	"aluguelcompra/server/internal/simulation"
)

// DateLayout names the dated snapshot files
const DateLayout = "2006-01-02"

type Summary struct {
	TotalListings int                `json:"total_imoveis"`
	TotalSales    int                `json:"total_venda"`
	TotalRentals  int                `json:"total_aluguel"`
	Sources       []string           `json:"fontes"`
	SalesMarket   models.MarketStats `json:"mercado_venda"`
	RentalMarket  models.MarketStats `json:"mercado_aluguel"`
}

// Payload is the full JSON document published for a run
type Payload struct {
	Date        string               `json:"date"`
	GeneratedAt time.Time            `json:"generated_at"`
	Listings    []models.ListingView `json:"imoveis"`
	Simulation  SimulationExport     `json:"simulacao"`
	Summary     Summary              `json:"resumo"`
}

// NewPayload assembles the published document for one run
func NewPayload(listings []models.Listing, result *simulation.Result, now time.Time) Payload {
	views := make([]models.ListingView, len(listings))
	for i, l := range listings {
		views[i] = l.View()
	}

	rentals := models.FilterKind(listings, models.KindRent)
	return Payload{
		Date:        now.Format(DateLayout),
		GeneratedAt: now,
		Listings:    views,
		Simulation:  ToExport(result),
		Summary: Summary{
			TotalListings: len(listings),
			TotalSales:    len(models.FilterKind(listings, models.KindSale)),
			TotalRentals:  len(rentals),
			Sources:       models.Sources(listings),
			SalesMarket:   models.ComputeMarketStats(models.FilterSales(listings)),
			RentalMarket:  models.ComputeMarketStats(rentals),
		},
	}
}

// Payload returns the JSON document of the report
func (r *Report) Payload() Payload {
	return NewPayload(r.Listings, r.Result, r.GeneratedAt)
}

// JSON renders the payload indented, keeping accents unescaped
func (r *Report) JSON() ([]byte, error) {
	return EncodeJSON(r.Payload())
}

// EncodeJSON writes any report document as indented UTF-8 JSON
func EncodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
