package routes

import (
	"app/handlers"
	"app/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	app.Get("/health", handlers.HandleHealthCheck)

	api := app.Group("/api/v1")

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/register", handlers.HandleRegister)
	auth.Post("/login", handlers.HandleLogin)

	// Everything below requires a valid token.
	api.Use(middleware.JWTMiddleware)

	// --- Dashboard ---
	api.Get("/dashboard/metrics", handlers.HandleGetDashboardMetrics)
	api.Get("/dashboard/sales-chart", handlers.HandleGetSalesChart)
	api.Get("/dashboard/category-sales", handlers.HandleGetCategorySales)

	// --- Products ---
	api.Get("/products/categories", handlers.HandleGetProductCategories) // Must be before /products/:productId
	api.Get("/products", handlers.HandleListProducts)
	api.Post("/products", handlers.HandleAddProduct)
	api.Delete("/products/:productId", handlers.HandleDeleteProduct)
	api.Put("/products/:productId/stock", handlers.HandleUpdateStock)
	api.Post("/restock", handlers.HandleRestock)

	// --- Transactions ---
	api.Get("/transactions", handlers.HandleListTransactions)
	api.Post("/transactions", handlers.HandleCreateTransaction)

	// --- Calendar Events ---
	api.Get("/calendar/events", handlers.HandleGetCalendarEvents)
	api.Post("/events/confirm", handlers.HandleConfirmEvent)
	api.Put("/events/:eventId", handlers.HandleUpdateEvent)
	api.Delete("/events/:eventId", handlers.HandleDeleteEvent)

	// --- Forecast proxy ---
	api.Post("/predict/:storeId", handlers.HandlePredict)

	// --- Stock Notifications ---
	api.Get("/notifications", handlers.HandleGetNotifications)
	api.Put("/notifications/read-all", handlers.HandleMarkAllNotificationsAsRead) // Must be before /:notificationId/read
	api.Put("/notifications/:notificationId/read", handlers.HandleMarkNotificationAsRead)
	api.Delete("/notifications", handlers.HandleClearNotifications)

	// --- Assistant chat ---
	api.Post("/chat", handlers.HandleChat)
}
