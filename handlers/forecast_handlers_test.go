package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"app/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newForecastApp() *fiber.App {
	app := fiber.New()
	app.Post("/api/v1/predict/:storeId", HandlePredict)
	return app
}

func TestPredictRelaysForecastServiceResponse(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/predict/1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","chartData":[],"recommendations":[],"eventAnnotations":[],"meta":{"forecastDays":84}}`))
	}))
	defer upstream.Close()

	prev := config.AppConfig.ForecastServiceURL
	config.AppConfig.ForecastServiceURL = upstream.URL
	defer func() { config.AppConfig.ForecastServiceURL = prev }()

	app := newForecastApp()
	req := httptest.NewRequest("POST", "/api/v1/predict/1", strings.NewReader(`{"events":[],"days":84}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"forecastDays":84`)
}

func TestPredictRejectsOutOfRangeDays(t *testing.T) {
	app := newForecastApp()
	req := httptest.NewRequest("POST", "/api/v1/predict/1", strings.NewReader(`{"days":500}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestPredictWithoutConfiguredService(t *testing.T) {
	prev := config.AppConfig.ForecastServiceURL
	config.AppConfig.ForecastServiceURL = ""
	defer func() { config.AppConfig.ForecastServiceURL = prev }()

	app := newForecastApp()
	req := httptest.NewRequest("POST", "/api/v1/predict/1", strings.NewReader(`{"days":84}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}
