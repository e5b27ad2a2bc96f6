package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"app/database"
	"app/models"
	"app/stocknotify"
	"app/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// HandleListProducts returns a paginated product list with lifetime and
// 30-day sold units. Every successful fetch feeds the page's inventory
// snapshots to the notification engine, so low-stock alerts track whatever
// the dashboard last refreshed.
// GET /api/v1/products
func HandleListProducts(c *fiber.Ctx) error {
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

	search := c.Query("search")
	category := c.Query("category")

	baseQuery := `
		FROM products p
		LEFT JOIN (
			SELECT product_id, SUM(quantity) AS units
			FROM transaction_items
			GROUP BY product_id
		) lifetime ON lifetime.product_id = p.id
		LEFT JOIN (
			SELECT ti.product_id, SUM(ti.quantity) AS units
			FROM transaction_items ti
			JOIN transactions t ON t.id = ti.transaction_id
			WHERE t.date >= NOW() - INTERVAL '30 days'
			GROUP BY ti.product_id
		) recent ON recent.product_id = p.id
	`

	var whereClauses []string
	args := []interface{}{}

	if search != "" {
		args = append(args, "%"+search+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		whereClauses = append(whereClauses, fmt.Sprintf("(p.name ILIKE %s OR p.category ILIKE %s OR p.sku ILIKE %s)", placeholder, placeholder, placeholder))
	}
	if category != "" && category != "All" {
		args = append(args, category)
		whereClauses = append(whereClauses, fmt.Sprintf("p.category = $%d", len(args)))
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	countQuery := "SELECT COUNT(*) " + baseQuery + " " + whereClause
	var total int
	if err := db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Printf("Error counting products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}

	args = append(args, limit, offset)
	dataQuery := fmt.Sprintf(`
		SELECT
			p.id, p.name, p.category, p.sku, p.description,
			p.cost_price, p.selling_price, p.stock, p.reorder_point, p.is_seasonal,
			COALESCE(lifetime.units, 0) AS sold_count,
			COALESCE(recent.units, 0) AS sold_last_30
		%s
		%s
		ORDER BY p.category, p.name
		LIMIT $%d OFFSET $%d
	`, baseQuery, whereClause, len(args)-1, len(args))

	rows, err := db.Query(ctx, dataQuery, args...)
	if err != nil {
		log.Printf("Error fetching products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		var p models.Product
		var sku, description sql.NullString
		var reorderPoint sql.NullInt64
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &sku, &description,
			&p.CostPrice, &p.SellingPrice, &p.Stock, &reorderPoint, &p.IsSeasonal,
			&p.SoldCount, &p.SoldLast30); err != nil {
			log.Printf("Error scanning product: %v", err)
			continue
		}
		p.SKU = utils.NullStringToStringPtr(sku)
		p.Description = utils.NullStringToStringPtr(description)
		p.ReorderPoint = utils.NullInt64ToIntPtr(reorderPoint)
		products = append(products, p)
	}

	evaluateStockAlerts(ctx, products)

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   products,
		"meta":   utils.CreatePagination(total, page, limit),
	})
}

// evaluateStockAlerts maps the fetched products to engine snapshots and
// runs one evaluation pass.
func evaluateStockAlerts(ctx context.Context, products []models.Product) {
	if notifier == nil || len(products) == 0 {
		return
	}

	snapshots := make([]stocknotify.Snapshot, 0, len(products))
	for i := range products {
		stock := products[i].Stock
		snapshots = append(snapshots, stocknotify.Snapshot{
			ID:           products[i].ID,
			Name:         products[i].Name,
			Stock:        &stock,
			ReorderPoint: products[i].ReorderPoint,
		})
	}

	if created := notifier.Evaluate(ctx, snapshots); created > 0 {
		log.Printf("Stock evaluation created %d notification(s)", created)
	}
}

// HandleGetProductCategories returns the distinct product categories.
// GET /api/v1/products/categories
func HandleGetProductCategories(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	rows, err := db.Query(ctx, "SELECT DISTINCT category FROM products ORDER BY category")
	if err != nil {
		log.Printf("Error fetching categories: %v", err)
		return c.JSON(fiber.Map{"categories": []string{}})
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var cat string
		if err := rows.Scan(&cat); err != nil {
			continue
		}
		categories = append(categories, cat)
	}

	return c.JSON(fiber.Map{"categories": categories})
}

// HandleAddProduct creates a product with an initial stock level.
// POST /api/v1/products
func HandleAddProduct(c *fiber.Ctx) error {
	var req models.AddProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}

	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Product name is required"})
	}
	if req.InitialStock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Initial stock cannot be negative"})
	}

	category := "Uncategorized"
	if req.Category != nil && *req.Category != "" {
		category = *req.Category
	}

	db := database.GetDB()
	ctx := context.Background()

	productID := uuid.NewString()
	query := `
		INSERT INTO products (id, name, category, stock, reorder_point, cost_price, selling_price)
		VALUES ($1, $2, $3, $4, $5, 0, 0)
	`
	if _, err := db.Exec(ctx, query, productID, req.Name, category, req.InitialStock, req.ReorderPoint); err != nil {
		log.Printf("Error adding product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to create product"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":    "success",
		"message":   fmt.Sprintf("Product %s added successfully", req.Name),
		"productId": productID,
	})
}

// HandleDeleteProduct removes a product from the catalog.
// DELETE /api/v1/products/:productId
func HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("productId")

	db := database.GetDB()
	ctx := context.Background()

	var name string
	err := db.QueryRow(ctx, "SELECT name FROM products WHERE id = $1", productID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
		}
		log.Printf("Error looking up product %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}

	if _, err := db.Exec(ctx, "DELETE FROM products WHERE id = $1", productID); err != nil {
		log.Printf("Error deleting product %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to delete product"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": fmt.Sprintf("Product %s deleted successfully", name)})
}

// HandleUpdateStock sets a product's stock to an absolute value.
// PUT /api/v1/products/:productId/stock
func HandleUpdateStock(c *fiber.Ctx) error {
	productID := c.Params("productId")

	var req models.UpdateStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if req.Stock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Stock cannot be negative"})
	}

	db := database.GetDB()
	ctx := context.Background()

	var name string
	err := db.QueryRow(ctx, "SELECT name FROM products WHERE id = $1", productID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
		}
		log.Printf("Error looking up product %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}

	if _, err := db.Exec(ctx, "UPDATE products SET stock = $1 WHERE id = $2", req.Stock, productID); err != nil {
		log.Printf("Error updating stock for product %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to update stock"})
	}

	return c.JSON(fiber.Map{
		"status":    "success",
		"message":   fmt.Sprintf("Updated stock for %s", name),
		"productId": productID,
		"newStock":  req.Stock,
	})
}

// HandleRestock adds a quantity to a product's current stock.
// POST /api/v1/restock
func HandleRestock(c *fiber.Ctx) error {
	var req models.RestockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if req.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Restock quantity must be positive"})
	}

	db := database.GetDB()
	ctx := context.Background()

	var currentStock int
	var name string
	err := db.QueryRow(ctx, "SELECT stock, name FROM products WHERE id = $1", req.ProductID).Scan(&currentStock, &name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"status": "error", "message": "Product not found"})
		}
		log.Printf("Error looking up product %s: %v", req.ProductID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}

	newStock := currentStock + req.Quantity
	if _, err := db.Exec(ctx, "UPDATE products SET stock = $1 WHERE id = $2", newStock, req.ProductID); err != nil {
		log.Printf("Error restocking product %s: %v", req.ProductID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to restock product"})
	}

	return c.JSON(fiber.Map{
		"status":        "success",
		"message":       fmt.Sprintf("Restocked %s", name),
		"productId":     req.ProductID,
		"previousStock": currentStock,
		"addedQuantity": req.Quantity,
		"newStock":      newStock,
	})
}
