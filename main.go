package main

import (
	"context"
	"log"
	"os"

	"app/config"
	"app/database"
	"app/handlers"
	"app/routes"
	"app/stocknotify"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	config.AppConfig.JWTSecret = jwtSecret
	config.AppConfig.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	config.AppConfig.ForecastServiceURL = os.Getenv("FORECAST_SERVICE_URL")

	// Initialize database
	database.InitDB(databaseURL)
	defer database.CloseDB()

	// Stock notification engine, persisted through the database so alert
	// history and cooldowns survive restarts.
	ctx := context.Background()
	store, err := stocknotify.NewPGStore(ctx, database.GetDB())
	if err != nil {
		log.Fatalf("Unable to initialize notification store: %v", err)
	}
	handlers.SetNotifier(stocknotify.NewEngine(ctx, store))

	app := fiber.New()

	// Add CORS middleware
	app.Use(cors.New())

	// Setup routes
	routes.SetupRoutes(app)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":3000"
	}

	// Start server
	log.Fatal(app.Listen(addr))
}
