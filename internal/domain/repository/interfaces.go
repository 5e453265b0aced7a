package repository

import (
	"AstroView/internal/domain/models"
)

// Metrics records poll and fetch telemetry. Implemented by pkg/metrics;
// kept as an interface so services can be tested without a registry.
type Metrics interface {
	RecordPoll(key string)
	RecordPollError(key string)
	RecordStaleDrop(key string)
	RecordLastPrice(asset string, price float64)
	RecordFetchLatency(endpoint string, seconds float64)
}

// UpdateStream consumes the backend's push channel. Read returns long-lived
// channels; after an error the caller decides whether to Reconnect.
type UpdateStream interface {
	Connect() error
	Read() (<-chan *models.LiveUpdate, <-chan error)
	Reconnect() error
	IsConnected() bool
	Close() error
}
