package config

// Source describes a listing site collected for the neighborhood
type Source struct {
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
	// Platform selects the parser: "ajax" for the JSON listing API shared by
	// several agencies, or the name of a site specific HTML parser
	Platform string `json:"platform"`
	// NeighborhoodCodes is the comma separated district filter used by the ajax platform
	NeighborhoodCodes string `json:"neighborhood_codes,omitempty"`
}

// SupportedSources is the list of listing sites collected for Bom Pastor, Divinópolis/MG
var SupportedSources = []Source{
	{
		Name:              "Ala Imóveis",
		BaseURL:           "https://www.alaimoveis.com.br",
		Platform:          "ajax",
		NeighborhoodCodes: "7,358",
	},
	{
		Name:              "Achei Imobiliária",
		BaseURL:           "https://www.acheiimobiliaria.com",
		Platform:          "ajax",
		NeighborhoodCodes: "12",
	},
	{
		Name:     "Francisco Imóveis",
		BaseURL:  "https://franciscoimoveis.com.br",
		Platform: "francisco",
	},
	{
		Name:     "MGF Imóveis",
		BaseURL:  "https://www.mgfimoveis.com.br",
		Platform: "mgf",
	},
}

// GetSourceNames returns the names of all supported sources
func GetSourceNames() []string {
	names := make([]string, len(SupportedSources))
	for i, source := range SupportedSources {
		names[i] = source.Name
	}
	return names
}

// GetSourceByName returns a source configuration by name
func GetSourceByName(name string) *Source {
	for _, source := range SupportedSources {
		if source.Name == name {
			return &source
		}
	}
	return nil
}
