package handlers

import (
	"app/stocknotify"
)

// notifier is the process-wide stock notification engine, set once at
// startup before any route is served.
var notifier *stocknotify.Engine

// SetNotifier injects the stock notification engine used by the product and
// notification handlers.
func SetNotifier(e *stocknotify.Engine) {
	notifier = e
}
