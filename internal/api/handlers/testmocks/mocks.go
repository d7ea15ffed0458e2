package testmocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/raditia/intrival-go/internal/models"
	"github.com/raditia/intrival-go/pkg/marketdata"
)

// MockMarketDataService implements marketdata.MarketDataService for testing
type MockMarketDataService struct {
	mock.Mock
}

func (m *MockMarketDataService) FetchQuote(ctx context.Context, ticker string) (*marketdata.Quote, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketdata.Quote), args.Error(1)
}

func (m *MockMarketDataService) FetchPriceHistory(ctx context.Context, ticker string) (*models.PriceHistory, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PriceHistory), args.Error(1)
}

func (m *MockMarketDataService) FetchStatements(ctx context.Context, ticker string) (*marketdata.Statements, error) {
	args := m.Called(ctx, ticker)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*marketdata.Statements), args.Error(1)
}

func (m *MockMarketDataService) IsHealthy(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockMarketDataService) BaseURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockMarketDataService) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockValuer implements services.Valuer for testing
type MockValuer struct {
	mock.Mock
}

func (m *MockValuer) BuildDashboard(ctx context.Context, ticker string, riskFreePct float64, country string) (*models.DashboardResponse, error) {
	args := m.Called(ctx, ticker, riskFreePct, country)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardResponse), args.Error(1)
}
