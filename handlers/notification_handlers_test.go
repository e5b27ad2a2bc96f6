package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"app/stocknotify"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNotificationApp(t *testing.T) (*fiber.App, *stocknotify.Engine) {
	t.Helper()
	engine := stocknotify.NewEngine(context.Background(), stocknotify.NewMemStore())
	SetNotifier(engine)

	app := fiber.New()
	app.Get("/api/v1/notifications", HandleGetNotifications)
	app.Put("/api/v1/notifications/read-all", HandleMarkAllNotificationsAsRead)
	app.Put("/api/v1/notifications/:notificationId/read", HandleMarkNotificationAsRead)
	app.Delete("/api/v1/notifications", HandleClearNotifications)
	return app, engine
}

func seedAlerts(t *testing.T, engine *stocknotify.Engine) {
	t.Helper()
	critical := 4
	warning := 80
	created := engine.Evaluate(context.Background(), []stocknotify.Snapshot{
		{ID: "p1", Name: "Espresso Beans", Stock: &critical},
		{ID: "p2", Name: "Oat Milk", Stock: &warning},
	})
	require.Equal(t, 2, created)
}

type notificationListResponse struct {
	Status string                          `json:"status"`
	Data   []stocknotify.StockNotification `json:"data"`
	Meta   struct {
		UnreadCount   int `json:"unreadCount"`
		CriticalCount int `json:"criticalCount"`
	} `json:"meta"`
}

func TestGetNotifications(t *testing.T) {
	app, engine := newNotificationApp(t)
	seedAlerts(t, engine)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/notifications", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body notificationListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "success", body.Status)
	require.Len(t, body.Data, 2)
	assert.Equal(t, 2, body.Meta.UnreadCount)
	assert.Equal(t, 1, body.Meta.CriticalCount)
}

func TestMarkNotificationAsRead(t *testing.T) {
	app, engine := newNotificationApp(t)
	seedAlerts(t, engine)

	id := engine.Notifications()[0].ID
	resp, err := app.Test(httptest.NewRequest("PUT", "/api/v1/notifications/"+id+"/read", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 1, engine.UnreadCount())

	resp, err = app.Test(httptest.NewRequest("PUT", "/api/v1/notifications/unknown/read", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestMarkAllNotificationsAsRead(t *testing.T) {
	app, engine := newNotificationApp(t)
	seedAlerts(t, engine)

	resp, err := app.Test(httptest.NewRequest("PUT", "/api/v1/notifications/read-all", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Zero(t, engine.UnreadCount())
	assert.Zero(t, engine.CriticalCount())
}

func TestClearNotifications(t *testing.T) {
	app, engine := newNotificationApp(t)
	seedAlerts(t, engine)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/notifications", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, engine.Notifications())
}
