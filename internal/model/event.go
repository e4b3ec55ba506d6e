package model

import "time"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryCrop      = "crop"
	EventCategoryPost      = "post"
	EventCategoryMedia     = "media"
	EventCategoryTranslate = "translate"
	EventCategorySystem    = "system"
	EventCategoryCache     = "cache"
)

// Event represents a system event log entry.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string // JSON string
	CreatedAt time.Time
}
