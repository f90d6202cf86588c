package models

import "time"

// EconomicEvent is a macro calendar entry. Forecast/Previous/Actual are opaque
// display strings as published by the provider. Immutable once created.
type EconomicEvent struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Country  string    `json:"country"`
	Currency *string   `json:"currency,omitempty"`
	Impact   string    `json:"impact"`
	Forecast *string   `json:"forecast,omitempty"`
	Previous *string   `json:"previous,omitempty"`
	Actual   *string   `json:"actual,omitempty"`
	EventAt  time.Time `json:"eventAt"`
}
