package interfaces

import "context"

// EventType represents different event types in the system
type EventType string

const (
	EventIngestStarted   EventType = "ingest_started"
	EventArticleStored   EventType = "article_stored"
	EventIngestCompleted EventType = "ingest_completed"
)

// Event represents a system event
type Event struct {
	Type    EventType
	Payload interface{}
}

// EventHandler is a function that handles events
type EventHandler func(ctx context.Context, event Event) error

// EventService manages the in-process pub/sub event bus. The ingestion
// pipeline publishes progress events; the websocket handler subscribes.
type EventService interface {
	// Subscribe to an event type
	Subscribe(eventType EventType, handler EventHandler) error

	// Publish an event to all subscribers without blocking the publisher
	Publish(ctx context.Context, event Event) error

	// Close shuts down the event service
	Close() error
}
