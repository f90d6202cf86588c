package models

import "time"

// Impact levels shared by news items and calendar events.
const (
	ImpactLow    = "low"
	ImpactMedium = "medium"
	ImpactHigh   = "high"
)

// NewsItem is immutable once created; the store only inserts, never updates.
// Optional upstream fields stay nil when the provider omits them.
type NewsItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     *string   `json:"summary,omitempty"`
	Source      string    `json:"source"`
	URL         *string   `json:"url,omitempty"`
	Category    string    `json:"category"`
	Country     *string   `json:"country,omitempty"`
	Impact      string    `json:"impact"`
	Sentiment   *string   `json:"sentiment,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}
