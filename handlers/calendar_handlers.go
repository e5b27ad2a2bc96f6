package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"app/database"
	"app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// HandleGetCalendarEvents returns all calendar events ordered by date.
// GET /api/v1/calendar/events
func HandleGetCalendarEvents(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	query := `
		SELECT id, date, title, type, impact_weight, category, description
		FROM calendar_events
		ORDER BY date
	`
	rows, err := db.Query(ctx, query)
	if err != nil {
		log.Printf("Error fetching calendar events: %v", err)
		return c.JSON([]models.CalendarEvent{})
	}
	defer rows.Close()

	events := make([]models.CalendarEvent, 0)
	for rows.Next() {
		var e models.CalendarEvent
		if err := rows.Scan(&e.ID, &e.Date, &e.Title, &e.Type, &e.ImpactWeight, &e.Category, &e.Description); err != nil {
			log.Printf("Error scanning calendar event: %v", err)
			continue
		}
		events = append(events, e)
	}

	return c.JSON(events)
}

// HandleConfirmEvent creates a calendar event from a confirmed suggestion or
// manual entry.
// POST /api/v1/events/confirm
func HandleConfirmEvent(c *fiber.Ctx) error {
	var req models.EventConfirmationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	if req.Title == "" || req.Type == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Title and type are required"})
	}

	eventDate, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid date, expected YYYY-MM-DD"})
	}

	db := database.GetDB()
	ctx := context.Background()

	eventID := uuid.NewString()
	query := `
		INSERT INTO calendar_events (id, date, title, type, impact_weight, category, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := db.Exec(ctx, query, eventID, eventDate, req.Title, req.Type, req.ImpactWeight, req.Category, req.Description); err != nil {
		log.Printf("Error creating calendar event: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create event"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "eventId": eventID})
}

// HandleUpdateEvent updates an existing calendar event.
// PUT /api/v1/events/:eventId
func HandleUpdateEvent(c *fiber.Ctx) error {
	eventID := c.Params("eventId")

	var req models.EventConfirmationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	eventDate, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid date, expected YYYY-MM-DD"})
	}

	db := database.GetDB()
	ctx := context.Background()

	query := `
		UPDATE calendar_events
		SET date = $1, title = $2, type = $3, impact_weight = $4, category = $5, description = $6
		WHERE id = $7
	`
	res, err := db.Exec(ctx, query, eventDate, req.Title, req.Type, req.ImpactWeight, req.Category, req.Description, eventID)
	if err != nil {
		log.Printf("Error updating calendar event %s: %v", eventID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update event"})
	}
	if res.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Event not found"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Event updated"})
}

// HandleDeleteEvent deletes a calendar event.
// DELETE /api/v1/events/:eventId
func HandleDeleteEvent(c *fiber.Ctx) error {
	eventID := c.Params("eventId")

	db := database.GetDB()
	ctx := context.Background()

	var title string
	err := db.QueryRow(ctx, "SELECT title FROM calendar_events WHERE id = $1", eventID).Scan(&title)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Event not found"})
		}
		log.Printf("Error looking up calendar event %s: %v", eventID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}

	if _, err := db.Exec(ctx, "DELETE FROM calendar_events WHERE id = $1", eventID); err != nil {
		log.Printf("Error deleting calendar event %s: %v", eventID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to delete event"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Event deleted"})
}
