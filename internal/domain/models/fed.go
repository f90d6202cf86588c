package models

import "time"

// FedUpdate types.
const (
	FedTypeRateDecision = "rate_decision"
	FedTypeMinutes      = "minutes"
	FedTypeSpeech       = "speech"
	FedTypeProjection   = "projection"
)

// FedUpdate is a central-bank policy update. Rate is a decimal string when a
// numeric rate accompanies the release. Immutable once created.
type FedUpdate struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	Content     *string   `json:"content,omitempty"`
	Rate        *string   `json:"rate,omitempty"`
	Speaker     *string   `json:"speaker,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}
