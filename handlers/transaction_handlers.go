package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"app/database"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var validPaymentMethods = map[string]bool{
	"Cash":        true,
	"QRIS":        true,
	"Debit Card":  true,
	"Credit Card": true,
	"E-Wallet":    true,
}

var validOrderTypes = map[string]bool{
	"dine-in":  true,
	"takeaway": true,
	"delivery": true,
}

// HandleListTransactions returns a paginated transaction list, newest first.
// GET /api/v1/transactions
func HandleListTransactions(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM transactions").Scan(&total); err != nil {
		log.Printf("Error counting transactions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}

	query := `
		SELECT id, date, total_amount, payment_method, order_types, items_count, created_at
		FROM transactions
		ORDER BY date DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := db.Query(ctx, query, limit, offset)
	if err != nil {
		log.Printf("Error fetching transactions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.Date, &t.TotalAmount, &t.PaymentMethod, &t.OrderType, &t.ItemsCount, &t.CreatedAt); err != nil {
			log.Printf("Error scanning transaction: %v", err)
			continue
		}
		transactions = append(transactions, t)
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   transactions,
		"meta":   utils.CreatePagination(total, page, limit),
	})
}

// HandleCreateTransaction records a sale: it inserts the transaction header
// and items, then decrements product stock, all within one database
// transaction so a stock shortage rolls everything back.
// POST /api/v1/transactions
func HandleCreateTransaction(c *fiber.Ctx) error {
	var req models.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	if !validPaymentMethods[req.PaymentMethod] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid payment method. Must be one of: Cash, QRIS, Debit Card, Credit Card, E-Wallet"})
	}
	if !validOrderTypes[req.OrderType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid order type. Must be one of: dine-in, takeaway, delivery"})
	}
	if len(req.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Transaction must have at least one item"})
	}

	db := database.GetDB()
	ctx := context.Background()

	tx, err := db.Begin(ctx)
	if err != nil {
		log.Printf("Error starting transaction: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to start transaction"})
	}
	defer tx.Rollback(ctx)

	transactionID := uuid.NewString()
	headerQuery := `
		INSERT INTO transactions (id, date, total_amount, payment_method, order_types, items_count)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.Exec(ctx, headerQuery, transactionID, req.Date, req.TotalAmount, req.PaymentMethod, req.OrderType, req.ItemsCount); err != nil {
		log.Printf("Error inserting transaction header: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create transaction"})
	}

	for _, item := range req.Items {
		var currentStock int
		var productName string
		err := tx.QueryRow(ctx, "SELECT stock, name FROM products WHERE id = $1", item.ProductID).Scan(&currentStock, &productName)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": fmt.Sprintf("Product %s not found", item.ProductID)})
			}
			log.Printf("Error looking up product %s: %v", item.ProductID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
		}

		if currentStock < item.Quantity {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"status":  "error",
				"message": fmt.Sprintf("Insufficient stock for %s. Available: %d, Requested: %d", productName, currentStock, item.Quantity),
			})
		}

		itemQuery := `
			INSERT INTO transaction_items (transaction_id, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.Exec(ctx, itemQuery, transactionID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal); err != nil {
			log.Printf("Error inserting transaction item: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to record transaction item"})
		}

		if _, err := tx.Exec(ctx, "UPDATE products SET stock = $1 WHERE id = $2", currentStock-item.Quantity, item.ProductID); err != nil {
			log.Printf("Error updating stock for product %s: %v", item.ProductID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update stock"})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("Error committing transaction: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to commit transaction"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":         "success",
		"message":        "Transaction created successfully",
		"transaction_id": transactionID,
		"total_amount":   req.TotalAmount,
		"items_count":    req.ItemsCount,
	})
}
