package handlers

import (
	"context"
	"log"
	"time"

	"app/database"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
)

// categoryColorMap assigns stable chart colors per category; anything not
// listed falls back to slate.
var categoryColorMap = map[string]string{
	"Beverages": "#3b82f6",
	"Food":      "#f59e0b",
	"Bakery":    "#a855f7",
	"Snacks":    "#10b981",
	"Dessert":   "#ec4899",
}

const defaultCategoryColor = "#94a3b8"

// HandleGetDashboardMetrics compares the last 30 days of revenue,
// transaction count and items sold against the 30 days before that.
// GET /api/v1/dashboard/metrics
func HandleGetDashboardMetrics(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	query := `
		WITH current AS (
			SELECT
				COALESCE(SUM(total_amount), 0) AS revenue,
				COUNT(*) AS transactions,
				COALESCE(SUM(items_count), 0) AS items_sold
			FROM transactions
			WHERE date >= NOW() - INTERVAL '30 days'
		),
		previous AS (
			SELECT
				COALESCE(SUM(total_amount), 0) AS revenue,
				COUNT(*) AS transactions,
				COALESCE(SUM(items_count), 0) AS items_sold
			FROM transactions
			WHERE date >= NOW() - INTERVAL '60 days' AND date < NOW() - INTERVAL '30 days'
		)
		SELECT
			current.revenue, current.transactions, current.items_sold,
			previous.revenue, previous.transactions, previous.items_sold
		FROM current, previous
	`

	var currentRevenue, previousRevenue float64
	var currentTransactions, currentItems, previousTransactions, previousItems int
	err := db.QueryRow(ctx, query).Scan(
		&currentRevenue, &currentTransactions, &currentItems,
		&previousRevenue, &previousTransactions, &previousItems,
	)
	if err != nil {
		log.Printf("Error fetching dashboard metrics: %v", err)
		return c.JSON(models.DashboardMetrics{})
	}

	return c.JSON(models.DashboardMetrics{
		TotalRevenue:       currentRevenue,
		TotalTransactions:  currentTransactions,
		TotalItemsSold:     currentItems,
		RevenueChange:      utils.PercentChange(currentRevenue, previousRevenue),
		TransactionsChange: utils.PercentChange(float64(currentTransactions), float64(previousTransactions)),
		ItemsChange:        utils.PercentChange(float64(currentItems), float64(previousItems)),
	})
}

// HandleGetSalesChart returns the last 90 days of the daily sales summary.
// GET /api/v1/dashboard/sales-chart
func HandleGetSalesChart(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	query := `
		SELECT ds, y, transactions_count
		FROM daily_sales_summary
		WHERE ds >= CURRENT_DATE - INTERVAL '90 days'
		ORDER BY ds ASC
	`
	rows, err := db.Query(ctx, query)
	if err != nil {
		log.Printf("Error fetching sales chart: %v", err)
		return c.JSON([]models.SalesChartPoint{})
	}
	defer rows.Close()

	points := make([]models.SalesChartPoint, 0)
	for rows.Next() {
		var day time.Time
		var sales float64
		var count int
		if err := rows.Scan(&day, &sales, &count); err != nil {
			log.Printf("Error scanning sales chart row: %v", err)
			continue
		}
		points = append(points, models.SalesChartPoint{
			Date:              day.Format("2006-01-02"),
			Sales:             sales,
			TransactionsCount: count,
		})
	}

	return c.JSON(points)
}

// HandleGetCategorySales returns 90-day revenue per category with chart
// colors.
// GET /api/v1/dashboard/category-sales
func HandleGetCategorySales(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	query := `
		SELECT category, SUM(revenue) AS revenue
		FROM category_sales_summary
		WHERE ds >= CURRENT_DATE - INTERVAL '90 days'
		GROUP BY category
		ORDER BY revenue DESC
	`
	rows, err := db.Query(ctx, query)
	if err != nil {
		log.Printf("Error fetching category sales: %v", err)
		return c.JSON([]models.CategorySales{})
	}
	defer rows.Close()

	results := make([]models.CategorySales, 0)
	for rows.Next() {
		var category string
		var revenue float64
		if err := rows.Scan(&category, &revenue); err != nil {
			log.Printf("Error scanning category sales row: %v", err)
			continue
		}
		color, ok := categoryColorMap[category]
		if !ok {
			color = defaultCategoryColor
		}
		results = append(results, models.CategorySales{Category: category, Value: revenue, Color: color})
	}

	return c.JSON(results)
}
