// Package stocknotify decides which low-stock alerts to raise for a
// changing product inventory, deduplicates and rate-limits them, and
// persists that decision state across restarts.
package stocknotify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"
)

// Severity classifies how urgent a low-stock alert is.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

const (
	// DefaultReorderPoint is used for products with no configured reorder point.
	DefaultReorderPoint = 100

	// criticalStockFloor marks any stock below this absolute level as
	// critical, even when the reorder point is very low.
	criticalStockFloor = 10

	// cooldownWindow is the minimum time between two alerts for the same
	// product, independent of read status.
	cooldownWindow = 24 * time.Hour

	// maxNotifications caps retained history; the oldest entries beyond the
	// cap are discarded regardless of read status.
	maxNotifications = 50

	stateKey = "stock_notifications"
)

// Snapshot is a product inventory snapshot at the evaluation boundary.
// Stock is a pointer so a malformed external record (missing stock) can be
// detected and skipped instead of aborting the whole evaluation pass.
type Snapshot struct {
	ID           string
	Name         string
	Stock        *int
	ReorderPoint *int
}

// StockNotification is a single low-stock alert. All fields except IsRead
// are frozen at creation time and never live-updated afterward.
type StockNotification struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"productId"`
	ProductName  string    `json:"productName"`
	CurrentStock int       `json:"currentStock"`
	Threshold    int       `json:"threshold"`
	Severity     Severity  `json:"severity"`
	CreatedAt    time.Time `json:"createdAt"`
	IsRead       bool      `json:"isRead"`
}

// State is the full persisted engine state: notifications newest-first plus
// the per-product timestamp of the last alert creation (cooldown gating).
type State struct {
	Notifications []StockNotification  `json:"notifications"`
	LastChecked   map[string]time.Time `json:"lastChecked"`
}

func emptyState() State {
	return State{
		Notifications: []StockNotification{},
		LastChecked:   map[string]time.Time{},
	}
}

// Engine evaluates product snapshots against low-stock thresholds and
// maintains the bounded, deduplicated alert history. All operations are
// serialized under one mutex: fiber runs handlers concurrently and every
// operation is a read-modify-persist of the same state record.
type Engine struct {
	mu    sync.Mutex
	store Store
	state State
	now   func() time.Time
}

// NewEngine builds an engine backed by the given store and loads any
// previously persisted state. A missing, unreadable, or corrupt blob is
// logged and replaced with empty state; it never fails construction.
func NewEngine(ctx context.Context, store Store) *Engine {
	e := &Engine{store: store, state: emptyState(), now: time.Now}

	raw, ok, err := store.Get(ctx, stateKey)
	if err != nil {
		log.Printf("stocknotify: failed to load state, starting empty: %v", err)
		return e
	}
	if !ok {
		return e
	}

	var loaded State
	if err := json.Unmarshal(raw, &loaded); err != nil {
		log.Printf("stocknotify: corrupt state blob, starting empty: %v", err)
		return e
	}
	if loaded.Notifications == nil {
		loaded.Notifications = []StockNotification{}
	}
	if loaded.LastChecked == nil {
		loaded.LastChecked = map[string]time.Time{}
	}
	e.state = loaded
	return e
}

// classify returns the alert severity for a stock level, or false when the
// product is healthy. Stock at exactly half the reorder point is critical,
// as is anything under the absolute floor.
func classify(stock, reorderPoint int) (Severity, bool) {
	if stock*2 <= reorderPoint || stock < criticalStockFloor {
		return SeverityCritical, true
	}
	if stock < reorderPoint {
		return SeverityWarning, true
	}
	return "", false
}

// Evaluate inspects a fresh product list and creates alerts for products
// below their reorder point, skipping products that already have an unread
// alert or were alerted within the cooldown window. It returns the number
// of alerts created. An empty list is a no-op: absence of input does not
// clear existing notifications.
func (e *Engine) Evaluate(ctx context.Context, products []Snapshot) int {
	if len(products) == 0 {
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	created := 0

	for _, p := range products {
		if p.ID == "" || p.Stock == nil {
			// Malformed entry; skip it rather than aborting the pass.
			continue
		}

		reorderPoint := DefaultReorderPoint
		if p.ReorderPoint != nil && *p.ReorderPoint > 0 {
			reorderPoint = *p.ReorderPoint
		}

		severity, breached := classify(*p.Stock, reorderPoint)
		if !breached {
			continue
		}
		if e.hasUnreadLocked(p.ID) {
			continue
		}
		if last, ok := e.state.LastChecked[p.ID]; ok && now.Sub(last) < cooldownWindow {
			// Still cooling down, even if the previous alert was read or
			// already rotated out of history.
			continue
		}

		n := StockNotification{
			ID:           fmt.Sprintf("%d-%s", now.UnixNano(), p.ID),
			ProductID:    p.ID,
			ProductName:  p.Name,
			CurrentStock: *p.Stock,
			Threshold:    reorderPoint,
			Severity:     severity,
			CreatedAt:    now,
		}
		e.state.Notifications = append([]StockNotification{n}, e.state.Notifications...)
		e.state.LastChecked[p.ID] = now
		created++
	}

	if created == 0 {
		// Nothing changed; leave state and storage untouched.
		return 0
	}

	if len(e.state.Notifications) > maxNotifications {
		e.state.Notifications = e.state.Notifications[:maxNotifications]
	}
	e.persistLocked(ctx)
	return created
}

// MarkAsRead marks a single notification as read. It reports whether the
// notification was found.
func (e *Engine) MarkAsRead(ctx context.Context, notificationID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.state.Notifications {
		if e.state.Notifications[i].ID == notificationID {
			e.state.Notifications[i].IsRead = true
			e.persistLocked(ctx)
			return true
		}
	}
	return false
}

// MarkAllAsRead marks every retained notification as read.
func (e *Engine) MarkAllAsRead(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.state.Notifications {
		e.state.Notifications[i].IsRead = true
	}
	e.persistLocked(ctx)
}

// ClearAll wipes notifications and cooldown history. A cleared product can
// alert again immediately on the next evaluation.
func (e *Engine) ClearAll(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = emptyState()
	e.persistLocked(ctx)
}

// Notifications returns a copy of the retained alerts, newest-first.
func (e *Engine) Notifications() []StockNotification {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]StockNotification, len(e.state.Notifications))
	copy(out, e.state.Notifications)
	return out
}

// UnreadCount returns the number of unread notifications.
func (e *Engine) UnreadCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := 0
	for _, n := range e.state.Notifications {
		if !n.IsRead {
			count++
		}
	}
	return count
}

// CriticalCount returns the number of unread critical notifications.
func (e *Engine) CriticalCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	count := 0
	for _, n := range e.state.Notifications {
		if !n.IsRead && n.Severity == SeverityCritical {
			count++
		}
	}
	return count
}

func (e *Engine) hasUnreadLocked(productID string) bool {
	for _, n := range e.state.Notifications {
		if n.ProductID == productID && !n.IsRead {
			return true
		}
	}
	return false
}

// persistLocked writes the full state as one blob. A write failure is
// logged and swallowed: the in-memory state stays authoritative and the
// next successful mutation writes the latest state anyway.
func (e *Engine) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(e.state)
	if err != nil {
		log.Printf("stocknotify: failed to encode state: %v", err)
		return
	}
	if err := e.store.Set(ctx, stateKey, raw); err != nil {
		log.Printf("stocknotify: failed to persist state: %v", err)
	}
}
