package ui

import "time"

// LayoutCompactWidth is the terminal width below which dashboard cards stack.
const LayoutCompactWidth = 100

// Display limits.
const (
	// RecentLimit is how many recent records the dashboard lists.
	RecentLimit = 5

	// LogBufferLimit is the maximum number of log lines to keep in memory.
	LogBufferLimit = 2000

	// MaxToasts is how many notifications are shown at once.
	MaxToasts = 3
)

// Timing constants.
const (
	// ToastTTL is how long a notification stays on screen.
	ToastTTL = 4 * time.Second

	// TickInterval drives the elapsed-time display and log follow.
	TickInterval = time.Second
)
