package ports

import (
	"context"

	"github.com/rentloop/rentloop/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishPropertyCreated(ctx context.Context, p *domain.Property) error
	PublishLeaseSigned(ctx context.Context, l *domain.Lease) error
}

// EventSubscriber consumes domain events from a message broker.
type EventSubscriber interface {
	SubscribePropertyCreated(ctx context.Context, handler func(ctx context.Context, p *domain.Property) error) error
	Close()
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// Geocoder resolves free-text locations to coordinates. matched is
// false when the service had no candidates; err reports transport or
// decode failure. The resolver makes exactly one attempt per call and
// never invents coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, text string) (point domain.GeoPoint, matched bool, err error)
}

// FilterSink receives the canonical query string for a filter session
// after each coalesced sync. Push replaces the current navigable
// location's query; it must not stack history entries.
type FilterSink interface {
	Push(query string)
}

// NotificationService sends notifications (push, email, etc.).
type NotificationService interface {
	SendPush(ctx context.Context, userID, title, body string) error
}
