package repository

import "context"

// Metrics records operational measurements. Implemented by pkg/metrics.
type Metrics interface {
	RecordCycle(concern, result string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordBroadcast(kind string)
	RecordRateLimited(gate string)
	SetConnectedObservers(n int)
}

// Update kinds carried by the push channel and the export topic.
const (
	KindInitialData    = "INITIAL_DATA"
	KindCryptoUpdate   = "CRYPTO_UPDATE"
	KindNewsUpdate     = "NEWS_UPDATE"
	KindWhaleUpdate    = "WHALE_UPDATE"
	KindCalendarUpdate = "CALENDAR_UPDATE"
	KindFedUpdate      = "FED_UPDATE"
	KindPong           = "PONG"
	KindSubscribeAck   = "SUBSCRIBE_ACK"
)

// Broadcaster fans an update envelope out to all connected observers.
type Broadcaster interface {
	Broadcast(kind string, payload interface{})
}

// Publisher exports update envelopes to an external sink (Kafka topic).
type Publisher interface {
	Publish(ctx context.Context, key []byte, value interface{}) error
	Close() error
}
