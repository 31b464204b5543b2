package models

import (
	"fmt"
	"math"
	"sort"
)

// DefaultNeighborhood is the neighborhood every collected listing belongs to
// unless the source says otherwise.
const DefaultNeighborhood = "Bom Pastor"

// ListingKind tells whether a listing is offered for rent or for sale
type ListingKind int

const (
	KindRent ListingKind = iota
	KindSale
)

// String returns the label used in reports and exports
func (k ListingKind) String() string {
	switch k {
	case KindRent:
		return "aluguel"
	case KindSale:
		return "venda"
	default:
		return "unknown"
	}
}

// ParseListingKind accepts the report labels ("aluguel", "venda") and their English names
func ParseListingKind(s string) (ListingKind, error) {
	switch s {
	case "aluguel", "rent", "RENT":
		return KindRent, nil
	case "venda", "sale", "SALE":
		return KindSale, nil
	}
	return 0, fmt.Errorf("unknown listing kind %q", s)
}

func (k ListingKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ListingKind) UnmarshalText(text []byte) error {
	parsed, err := ParseListingKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Listing is one property observation collected from a listing site
type Listing struct {
	Area         float64     `json:"area"`
	Bedrooms     int         `json:"quartos"`
	Bathrooms    int         `json:"banheiros"`
	ParkingSpots int         `json:"vagas"`
	Price        float64     `json:"preco"`
	Kind         ListingKind `json:"tipo"`
	Source       string      `json:"fonte"`
	Neighborhood string      `json:"bairro"`
	Address      string      `json:"endereco"`
}

// NewListing builds a listing, defaulting the neighborhood
func NewListing(area float64, bedrooms, bathrooms, parking int, price float64, kind ListingKind, source, address string) Listing {
	return Listing{
		Area:         area,
		Bedrooms:     bedrooms,
		Bathrooms:    bathrooms,
		ParkingSpots: parking,
		Price:        price,
		Kind:         kind,
		Source:       source,
		Neighborhood: DefaultNeighborhood,
		Address:      address,
	}
}

// PricePerArea returns price per m², or 0 when the area is unknown
func (l Listing) PricePerArea() float64 {
	if l.Area <= 0 {
		return 0
	}
	return l.Price / l.Area
}

// ListingView is the serialized form of a listing, including the derived price per m²
type ListingView struct {
	Area         float64 `json:"area"`
	Bedrooms     int     `json:"quartos"`
	Bathrooms    int     `json:"banheiros"`
	ParkingSpots int     `json:"vagas"`
	Price        float64 `json:"preco"`
	PricePerArea float64 `json:"preco_m2"`
	Kind         string  `json:"tipo"`
	Source       string  `json:"fonte"`
	Neighborhood string  `json:"bairro"`
	Address      string  `json:"endereco"`
}

// View returns the export representation of the listing
func (l Listing) View() ListingView {
	return ListingView{
		Area:         l.Area,
		Bedrooms:     l.Bedrooms,
		Bathrooms:    l.Bathrooms,
		ParkingSpots: l.ParkingSpots,
		Price:        l.Price,
		PricePerArea: math.Round(l.PricePerArea()*100) / 100,
		Kind:         l.Kind.String(),
		Source:       l.Source,
		Neighborhood: l.Neighborhood,
		Address:      l.Address,
	}
}

// FilterKind returns the listings of the given kind, preserving order
func FilterKind(listings []Listing, kind ListingKind) []Listing {
	var out []Listing
	for _, l := range listings {
		if l.Kind == kind {
			out = append(out, l)
		}
	}
	return out
}

// FilterSales returns houses for sale with at least 100 m² and a parking spot
func FilterSales(listings []Listing) []Listing {
	var out []Listing
	for _, l := range listings {
		if l.Kind == KindSale && l.Area >= 100 && l.ParkingSpots >= 1 {
			out = append(out, l)
		}
	}
	return out
}

// SortByPrice returns a copy of the listings ordered by ascending price
func SortByPrice(listings []Listing) []Listing {
	sorted := make([]Listing, len(listings))
	copy(sorted, listings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price < sorted[j].Price
	})
	return sorted
}

// Sources returns the distinct source names in order of first appearance
func Sources(listings []Listing) []string {
	seen := make(map[string]bool)
	sources := make([]string, 0)
	for _, l := range listings {
		if !seen[l.Source] {
			seen[l.Source] = true
			sources = append(sources, l.Source)
		}
	}
	return sources
}
