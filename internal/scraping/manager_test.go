package scraping

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aluguelcompra/server/config"
	"aluguelcompra/server/internal/models"
)

// MockSource is a mock implementation of Source
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Name() string {
	return m.Called().String(0)
}

func (m *MockSource) Collect(ctx context.Context, kind models.ListingKind) ([]models.Listing, error) {
	args := m.Called(ctx, kind)
	listings, _ := args.Get(0).([]models.Listing)
	return listings, args.Error(1)
}

func TestNewManager(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	m, err := NewManager(cfg, logrus.New())
	require.NoError(t, err)
	assert.Equal(t, config.GetSourceNames(), m.SourceNames())
}

func TestManager_CollectAll(t *testing.T) {
	// Setup
	ala := &MockSource{}
	ala.On("Name").Return("Ala Imóveis")
	mgf := &MockSource{}
	mgf.On("Name").Return("MGF Imóveis")

	alaRent := models.NewListing(120, 3, 2, 1, 2500, models.KindRent, "Ala Imóveis", "")
	alaSale := models.NewListing(180, 3, 2, 2, 650000, models.KindSale, "Ala Imóveis", "")
	mgfSale := models.NewListing(300, 4, 3, 2, 890000, models.KindSale, "MGF Imóveis", "")

	ala.On("Collect", mock.Anything, models.KindRent).Return([]models.Listing{alaRent}, nil).Once()
	ala.On("Collect", mock.Anything, models.KindSale).Return([]models.Listing{alaSale}, nil).Once()
	mgf.On("Collect", mock.Anything, models.KindRent).Return(nil, errors.New("connection reset")).Once()
	mgf.On("Collect", mock.Anything, models.KindSale).Return([]models.Listing{mgfSale}, nil).Once()

	// Test
	m := NewManagerWithSources(logrus.New(), ala, mgf)
	listings := m.CollectAll(context.Background())

	// Assert
	assert.Equal(t, []models.Listing{alaRent, alaSale, mgfSale}, listings)
	ala.AssertExpectations(t)
	mgf.AssertExpectations(t)
}

func TestManager_CollectAllAllSourcesFailing(t *testing.T) {
	broken := &MockSource{}
	broken.On("Name").Return("Achei Imobiliária")
	broken.On("Collect", mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Times(2)

	listings := NewManagerWithSources(logrus.New(), broken).CollectAll(context.Background())

	assert.Empty(t, listings)
	broken.AssertExpectations(t)
}

func TestManager_CollectAllCancelled(t *testing.T) {
	source := &MockSource{}
	source.On("Name").Return("Ala Imóveis")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	listings := NewManagerWithSources(logrus.New(), source).CollectAll(ctx)

	assert.Empty(t, listings)
	source.AssertNotCalled(t, "Collect", mock.Anything, mock.Anything)
}
