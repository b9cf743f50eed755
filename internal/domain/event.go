package domain

import (
	"context"
	"time"
)

// Event represents one listed game-dev happening.
// Date is stored as a canonical ISO-8601 (RFC 3339) string and Time as a
// zero-padded 24-hour "HH:mm" string; both are normalized before any write.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Overview    string    `json:"overview"`
	Image       string    `json:"image"`
	Venue       string    `json:"venue"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Mode        string    `json:"mode"`
	Audience    string    `json:"audience"`
	Agenda      []string  `json:"agenda"`
	Organizer   string    `json:"organizer"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EventSummary is the card projection returned by the similar-events query.
// swagger:model EventSummary
type EventSummary struct {
	Title    string `json:"title"`
	Image    string `json:"image"`
	Slug     string `json:"slug"`
	Location string `json:"location"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

// EventInput carries the caller-supplied fields for creating an event.
// Image is the URI of an already uploaded asset; the upload itself happens
// outside this service.
type EventInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Overview    string   `json:"overview"`
	Image       string   `json:"image"`
	Venue       string   `json:"venue"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Mode        string   `json:"mode"`
	Audience    string   `json:"audience"`
	Agenda      []string `json:"agenda"`
	Organizer   string   `json:"organizer"`
	Tags        []string `json:"tags"`
}

// EventPatch is a partial update; nil fields are left unchanged.
type EventPatch struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Overview    *string  `json:"overview"`
	Image       *string  `json:"image"`
	Venue       *string  `json:"venue"`
	Location    *string  `json:"location"`
	Date        *string  `json:"date"`
	Time        *string  `json:"time"`
	Mode        *string  `json:"mode"`
	Audience    *string  `json:"audience"`
	Agenda      []string `json:"agenda"`
	Organizer   *string  `json:"organizer"`
	Tags        []string `json:"tags"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	// List returns a page of events ordered by created_at descending plus the total count.
	List(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, event *Event) error
	// ListSimilarByTags returns summaries of every event other than excludeID
	// whose tags overlap the given set. Order is storage-native.
	ListSimilarByTags(ctx context.Context, excludeID string, tags []string) ([]*EventSummary, error)
}

// EventService defines the business logic for listing and maintaining events.
type EventService interface {
	CreateEvent(ctx context.Context, input *EventInput) (*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	ListEvents(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	UpdateEvent(ctx context.Context, id string, patch *EventPatch) (*Event, error)
	// ListSimilarEvents is fail-soft: an unknown slug yields an empty slice, not an error.
	ListSimilarEvents(ctx context.Context, slug string) ([]*EventSummary, error)
}
