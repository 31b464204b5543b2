package scraping

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aluguelcompra/server/config"
	"aluguelcompra/server/internal/models"
)

const ajaxFixture = `{"lista":[
	{"tipo":"Casa","valor":"R$ 650.000,00","areaprincipal":"180,00","numeroquartos":"3","numerobanhos":2,"numerovagas":"2","endereco":" Rua Pará, 100 "},
	{"tipo":"Apartamento","valor":"R$ 300.000,00","areaprincipal":"90","numeroquartos":"2","numerobanhos":"1","numerovagas":"1","endereco":""},
	{"tipo":"Casa em condomínio","valor":"Consulte","areaprincipal":null,"numeroquartos":"4"},
	{"tipo":"Casa Geminada","valor":"R$ 2.300,00","areaprincipal":"","numeroquartos":null,"numerobanhos":"1","numerovagas":"0","endereco":"Rua Goiás"}
]}`

const franciscoFixture = `<html><head>
<script>var destaque = "R$ 999.999,99 10 m²";</script>
</head><body>
<div class="card"><span>Casa</span><p>180 m²</p><p>3 quartos</p><p>2 vagas</p><strong>R$ 650.000,00</strong></div>
<div class="card"><p>250,5 m<sup>2</sup></p><p>4 quartos</p><p>3 vagas</p><strong>R$ 1.250.000,00</strong></div>
</body></html>`

const mgfFixture = `<html><body>
<div class="card"><h2>Casa com 3 quartos</h2><span>120 m²</span><span>2 banheiros</span><span>1 vaga</span><p>R$ 2.500</p></div>
<div class="card"><h2>Casa com 2 quartos</h2><span>80 m²</span><span>1 banheiro</span><span>1 vaga</span><p>R$ 350</p></div>
<div class="card"><h2>Casa com 4 quartos</h2><span>300 m²</span><span>3 banheiros</span><span>2 vagas</span><p>R$ 4.800</p></div>
</body></html>`

func newTestSource(t *testing.T, platform, baseURL string) Source {
	t.Helper()
	src := config.Source{Name: "Teste Imóveis", BaseURL: baseURL, Platform: platform, NeighborhoodCodes: "7,358"}
	s, err := NewSource(src, "Bom Pastor", testFetcher(1), logrus.New())
	require.NoError(t, err)
	return s
}

func TestNewSource_UnknownPlatform(t *testing.T) {
	_, err := NewSource(config.Source{Name: "X", Platform: "rss"}, "Bom Pastor", testFetcher(1), logrus.New())
	assert.Error(t, err)
}

func TestNewSource_SupportedSources(t *testing.T) {
	for _, src := range config.SupportedSources {
		s, err := NewSource(src, "Bom Pastor", testFetcher(1), logrus.New())
		require.NoError(t, err, src.Name)
		assert.Equal(t, src.Name, s.Name())
	}
}

func TestAjaxSource_Collect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/imoveis/ajax/", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "aluguel", r.PostForm.Get("imovel[finalidade]"))
		assert.Equal(t, "7,358", r.PostForm.Get("imovel[codigosbairros]"))
		assert.Equal(t, "50", r.PostForm.Get("imovel[numeroregistros]"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(ajaxFixture))
	}))
	defer server.Close()

	listings, err := newTestSource(t, "ajax", server.URL).Collect(context.Background(), models.KindRent)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	first := listings[0]
	assert.Equal(t, 180.0, first.Area)
	assert.Equal(t, 3, first.Bedrooms)
	assert.Equal(t, 2, first.Bathrooms)
	assert.Equal(t, 2, first.ParkingSpots)
	assert.Equal(t, 650000.0, first.Price)
	assert.Equal(t, models.KindRent, first.Kind)
	assert.Equal(t, "Teste Imóveis", first.Source)
	assert.Equal(t, "Bom Pastor", first.Neighborhood)
	assert.Equal(t, "Rua Pará, 100", first.Address)

	second := listings[1]
	assert.Zero(t, second.Area)
	assert.Zero(t, second.Bedrooms)
	assert.Equal(t, 2300.0, second.Price)
}

func TestParseAjaxListings_MissingList(t *testing.T) {
	_, err := parseAjaxListings([]byte(`{"total":0}`), models.KindSale, "Ala Imóveis", nil)
	assert.Error(t, err)

	_, err = parseAjaxListings([]byte(`<html>`), models.KindSale, "Ala Imóveis", nil)
	assert.Error(t, err)

	listings, err := parseAjaxListings([]byte(`{"lista":[]}`), models.KindSale, "Ala Imóveis", nil)
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestFranciscoSource_Collect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/imoveis/comprar/casa/divinopolis/bom-pastor/1/", r.URL.Path)
		w.Write([]byte(franciscoFixture))
	}))
	defer server.Close()

	listings, err := newTestSource(t, "francisco", server.URL).Collect(context.Background(), models.KindSale)
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, 180.0, listings[0].Area)
	assert.Equal(t, 3, listings[0].Bedrooms)
	assert.Equal(t, 2, listings[0].ParkingSpots)
	assert.Zero(t, listings[0].Bathrooms)
	assert.Equal(t, 650000.0, listings[0].Price)

	assert.Equal(t, 250.5, listings[1].Area)
	assert.Equal(t, 4, listings[1].Bedrooms)
	assert.Equal(t, 1250000.0, listings[1].Price)
	assert.Equal(t, models.KindSale, listings[1].Kind)
}

func TestFranciscoSource_RentURL(t *testing.T) {
	s := newTestSource(t, "francisco", "https://franciscoimoveis.com.br/").(*FranciscoSource)
	assert.Equal(t, "https://franciscoimoveis.com.br/imoveis/alugar/casa/divinopolis/bom-pastor/1/", s.pageURL(models.KindRent))
}

func TestMGFSource_Collect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/aluguel/casa/mg-divinopolis-bom-pastor", r.URL.Path)
		w.Write([]byte(mgfFixture))
	}))
	defer server.Close()

	listings, err := newTestSource(t, "mgf", server.URL).Collect(context.Background(), models.KindRent)
	require.NoError(t, err)

	// R$ 350 is below the plausible rent band
	require.Len(t, listings, 2)
	assert.Equal(t, models.NewListing(120, 3, 2, 1, 2500, models.KindRent, "Teste Imóveis", ""), listings[0])
	assert.Equal(t, 300.0, listings[1].Area)
	assert.Equal(t, 4, listings[1].Bedrooms)
	assert.Equal(t, 3, listings[1].Bathrooms)
	assert.Equal(t, 2, listings[1].ParkingSpots)
	assert.Equal(t, 4800.0, listings[1].Price)
}

func TestParseMGFText_SaleBand(t *testing.T) {
	text := "Casa 200 m² R$ 45.000 Casa 220 m² R$ 480.000"
	listings := parseMGFText(text, models.KindSale, "MGF Imóveis")

	require.Len(t, listings, 1)
	assert.Equal(t, 220.0, listings[0].Area)
	assert.Equal(t, 480000.0, listings[0].Price)
}

func TestParseMGFText_PricesWithoutAreas(t *testing.T) {
	listings := parseMGFText("R$ 3.000 R$ 2.000", models.KindRent, "MGF Imóveis")

	require.Len(t, listings, 1)
	assert.Zero(t, listings[0].Area)
	assert.Equal(t, 3000.0, listings[0].Price)
}

func TestSource_HTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	for _, platform := range []string{"ajax", "francisco", "mgf"} {
		_, err := newTestSource(t, platform, server.URL).Collect(context.Background(), models.KindSale)
		assert.Error(t, err, platform)
	}
}
