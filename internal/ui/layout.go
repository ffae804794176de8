package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the width below which the header abbreviates.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the width from which records show the URL in full.
	LayoutWideWidth = 140
)

// Fixed rows around the record list: header, tab bar, page bar, footer.
const chromeRows = 4

// Activity log limits.
const (
	// ActivityLogLines is how many lines of lotwatch's log the overlay keeps.
	ActivityLogLines = 400
)

// Timing constants.
const (
	// DefaultUIInterval is how often relative times and the activity log refresh.
	DefaultUIInterval = time.Second
)
