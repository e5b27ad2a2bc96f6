package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// --- JWT & Auth ---

type JwtClaims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User represents an account that can sign in to the dashboard.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- Catalog ---

// Product represents a catalog entry with its current stock level.
// ReorderPoint is optional; products without one fall back to the engine
// default when evaluated for low-stock alerts.
type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	SKU          *string `json:"sku,omitempty"`
	Description  *string `json:"description,omitempty"`
	CostPrice    float64 `json:"cost_price"`
	SellingPrice float64 `json:"selling_price"`
	Stock        int     `json:"stock"`
	ReorderPoint *int    `json:"reorder_point,omitempty"`
	IsSeasonal   bool    `json:"is_seasonal"`
	SoldCount    int     `json:"sold_count"`
	SoldLast30   int     `json:"sold_last_30"`
}

type AddProductRequest struct {
	Name         string  `json:"name"`
	Category     *string `json:"category"`
	InitialStock int     `json:"initialStock"`
	ReorderPoint *int    `json:"reorderPoint"`
}

type UpdateStockRequest struct {
	Stock int `json:"stock"`
}

type RestockRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// --- Transactions ---

type Transaction struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	TotalAmount   float64   `json:"total_amount"`
	PaymentMethod string    `json:"payment_method"`
	OrderType     string    `json:"order_types"`
	ItemsCount    int       `json:"items_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type TransactionItemInput struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

type CreateTransactionRequest struct {
	Date          string                 `json:"date"`
	TotalAmount   float64                `json:"total_amount"`
	PaymentMethod string                 `json:"payment_method"`
	OrderType     string                 `json:"order_types"`
	ItemsCount    int                    `json:"items_count"`
	Items         []TransactionItemInput `json:"items"`
}

// --- Calendar events ---

type CalendarEvent struct {
	ID           string    `json:"id"`
	Date         time.Time `json:"date"`
	Title        string    `json:"title"`
	Type         string    `json:"type"`
	ImpactWeight float64   `json:"impact_weight"`
	Category     *string   `json:"category,omitempty"`
	Description  *string   `json:"description,omitempty"`
}

type EventConfirmationRequest struct {
	Date         string  `json:"date"`
	Title        string  `json:"title"`
	Type         string  `json:"type"`
	ImpactWeight float64 `json:"impact_weight"`
	Category     *string `json:"category"`
	Description  *string `json:"description"`
}

// --- Dashboard ---

type DashboardMetrics struct {
	TotalRevenue       float64 `json:"totalRevenue"`
	TotalTransactions  int     `json:"totalTransactions"`
	TotalItemsSold     int     `json:"totalItemsSold"`
	RevenueChange      float64 `json:"revenueChange"`
	TransactionsChange float64 `json:"transactionsChange"`
	ItemsChange        float64 `json:"itemsChange"`
}

type SalesChartPoint struct {
	Date              string  `json:"date"`
	Sales             float64 `json:"sales"`
	TransactionsCount int     `json:"transactions_count"`
}

type CategorySales struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Color    string  `json:"color"`
}

// --- Forecast (consumed contract; computation is external) ---

type CalendarEventInput struct {
	Date   string   `json:"date"`
	Type   string   `json:"type"`
	Title  *string  `json:"title,omitempty"`
	Impact *float64 `json:"impact,omitempty"`
}

type PredictionRequest struct {
	Events      []CalendarEventInput   `json:"events"`
	StoreConfig map[string]interface{} `json:"store_config"`
	Days        *int                   `json:"days,omitempty"`
}

// --- Assistant chat ---

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type RestockRecommendation struct {
	ProductID          string `json:"productId"`
	ProductName        string `json:"productName"`
	CurrentStock       int    `json:"currentStock"`
	PredictedDemand    int    `json:"predictedDemand"`
	RecommendedRestock int    `json:"recommendedRestock"`
	Urgency            string `json:"urgency"`
}

type EventAnnotation struct {
	Date   string   `json:"date"`
	Titles []string `json:"titles"`
	Types  []string `json:"types"`
}

type PredictionDataForChat struct {
	Status           *string                  `json:"status,omitempty"`
	ChartData        []map[string]interface{} `json:"chartData"`
	Recommendations  []RestockRecommendation  `json:"recommendations"`
	EventAnnotations []EventAnnotation        `json:"eventAnnotations"`
	Meta             map[string]interface{}   `json:"meta,omitempty"`
}

type ChatRequest struct {
	Message        string                 `json:"message"`
	PredictionData *PredictionDataForChat `json:"predictionData,omitempty"`
	ChatHistory    []ChatMessage          `json:"chatHistory"`
}

// ActionPayload describes a stock action the assistant detected in the
// user's message. Actions that mutate data require confirmation by the UI.
type ActionPayload struct {
	Type              string  `json:"type"`
	ProductID         *string `json:"productId,omitempty"`
	ProductName       *string `json:"productName,omitempty"`
	Quantity          *int    `json:"quantity,omitempty"`
	NeedsConfirmation bool    `json:"needsConfirmation"`
}

type ChatResponse struct {
	Response string        `json:"response"`
	Action   ActionPayload `json:"action"`
}
