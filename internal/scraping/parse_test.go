package scraping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBRL(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "R$ 650.000,00", want: 650000},
		{input: "R$ 1.250.000,00", want: 1250000},
		{input: "2.500", want: 2500},
		{input: "R$2.300,50", want: 2300.5},
		{input: "  1800 ", want: 1800},
		{input: "Consulte", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBRL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseArea(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "180", want: 180},
		{input: "180,00", want: 180},
		{input: "250,5", want: 250.5},
		{input: "180.5", want: 180.5},
		{input: "1.200", want: 1200},
		{input: "1.200,75", want: 1200.75},
		{input: "360 m²", want: 360},
		{input: "360m2", want: 360},
		{input: "m²", wantErr: true},
		{input: ",", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseArea(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, 3, parseCount("3"))
	assert.Equal(t, 2, parseCount(" 2 "))
	assert.Equal(t, 0, parseCount(""))
	assert.Equal(t, 0, parseCount("-1"))
	assert.Equal(t, 0, parseCount("três"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "divinopolis", Slug("Divinópolis"))
	assert.Equal(t, "bom-pastor", Slug("Bom Pastor"))
	assert.Equal(t, "sao-jose", Slug("  São  José "))
}
