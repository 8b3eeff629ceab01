package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"optimapricer/internal/service"
	serviceMocks "optimapricer/internal/service/mocks"
)

func TestDashboard(t *testing.T) {
	mockSvc := new(serviceMocks.MockDashboardService)
	app := fiber.New()
	app.Get("/api/dashboard", withUser("user-1"), Dashboard(mockSvc))

	mockSvc.On("Metrics", mock.Anything, "user-1").Return(&service.DashboardMetrics{
		TotalProducts:          3,
		AvgMargin:              37.5,
		PendingRecommendations: 2,
		PotentialUplift:        150,
		ProductsNeedingScan:    1,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, float64(3), body["totalProducts"])
	assert.Equal(t, 37.5, body["avgMargin"])
	assert.Equal(t, float64(150), body["potentialUplift"])
}

func TestTestScrape(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockScanService)
		app := fiber.New()
		app.Get("/api/test-scrape", withUser("user-1"), TestScrape(mockSvc))

		mockSvc.On("TestScrape", mock.Anything, service.TestScrapeInput{
			Product:      "iPhone 15",
			Category:     "Electronics",
			CostPrice:    700,
			CurrentPrice: 1000,
		}).Return(&service.TestScrapeResult{
			Product:          "iPhone 15",
			TotalPricesFound: 2,
			ValidatedCount:   1,
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/test-scrape?product=iPhone+15&category=Electronics&cost=700&current=1000", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body service.TestScrapeResult
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, 2, body.TotalPricesFound)
		mockSvc.AssertExpectations(t)
	})

	t.Run("product required", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockScanService)
		app := fiber.New()
		app.Get("/api/test-scrape", withUser("user-1"), TestScrape(mockSvc))

		req := httptest.NewRequest(http.MethodGet, "/api/test-scrape", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "PRODUCT_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid cost", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockScanService)
		app := fiber.New()
		app.Get("/api/test-scrape", withUser("user-1"), TestScrape(mockSvc))

		req := httptest.NewRequest(http.MethodGet, "/api/test-scrape?product=Widget&cost=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_COST", decodeError(t, resp).Error.Code)
	})
}
