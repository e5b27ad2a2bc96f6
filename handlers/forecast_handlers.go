package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"app/config"
	"app/models"

	"github.com/gofiber/fiber/v2"
)

const (
	minForecastDays = 1
	maxForecastDays = 365
)

// forecastClient calls the external forecasting service. The forecast
// computation itself lives there; this handler only validates, forwards and
// relays the returned series.
var forecastClient = &http.Client{Timeout: 90 * time.Second}

// HandlePredict forwards a prediction request to the forecasting service
// and relays its chart data, restock recommendations and event annotations.
// POST /api/v1/predict/:storeId
func HandlePredict(c *fiber.Ctx) error {
	storeID := c.Params("storeId")

	var req models.PredictionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	if req.Days != nil && (*req.Days < minForecastDays || *req.Days > maxForecastDays) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": fmt.Sprintf("Forecast days must be between %d and %d", minForecastDays, maxForecastDays),
		})
	}

	if config.AppConfig.ForecastServiceURL == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "error", "message": "Forecast service is not configured"})
	}

	body, err := json.Marshal(req)
	if err != nil {
		log.Printf("Error encoding prediction request: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to encode request"})
	}

	url := fmt.Sprintf("%s/api/predict/%s", config.AppConfig.ForecastServiceURL, storeID)
	httpReq, err := http.NewRequestWithContext(c.Context(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Printf("Error building forecast request: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to reach forecast service"})
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := forecastClient.Do(httpReq)
	if err != nil {
		log.Printf("Forecast service call failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"status": "error", "message": "Forecast service is unavailable"})
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Error reading forecast response: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"status": "error", "message": "Invalid forecast service response"})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(resp.StatusCode).Send(payload)
}
