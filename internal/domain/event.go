package domain

import (
	"context"
	"time"
)

// Category is the kind of an event.
type Category string

const (
	CategoryHackathon  Category = "hackathon"
	CategoryWorkshop   Category = "workshop"
	CategorySeminar    Category = "seminar"
	CategoryConference Category = "conference"
	CategoryNetworking Category = "networking"
)

// Categories lists every valid category.
var Categories = []Category{CategoryHackathon, CategoryWorkshop, CategorySeminar, CategoryConference, CategoryNetworking}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Event represents a hackathon, workshop, seminar, conference or networking event.
// swagger:model Event
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Location    string    `json:"location"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	ImageURL    *string   `json:"imageUrl"`
	OrganizerID int64     `json:"organizerId"`
	Capacity    int       `json:"capacity"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EventUpdate is a partial update. Nil fields are left unchanged.
// ClearImageURL removes the image and takes precedence over ImageURL.
type EventUpdate struct {
	Title         *string
	Description   *string
	Category      *Category
	Location      *string
	StartDate     *time.Time
	EndDate       *time.Time
	ImageURL      *string
	ClearImageURL bool
	Capacity      *int
}

// Apply merges the non-nil fields of u over e.
func (u EventUpdate) Apply(e *Event) {
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Category != nil {
		e.Category = *u.Category
	}
	if u.Location != nil {
		e.Location = *u.Location
	}
	if u.StartDate != nil {
		e.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		e.EndDate = *u.EndDate
	}
	switch {
	case u.ClearImageURL:
		e.ImageURL = nil
	case u.ImageURL != nil:
		img := *u.ImageURL
		e.ImageURL = &img
	}
	if u.Capacity != nil {
		e.Capacity = *u.Capacity
	}
}

// Empty reports whether the update carries no field.
func (u EventUpdate) Empty() bool {
	return u == EventUpdate{}
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, id int64) (*Event, error)
	// ListEvents returns events matching filter in insertion order.
	ListEvents(ctx context.Context, filter EventFilter) ([]*Event, error)
	UpdateEvent(ctx context.Context, id int64, update EventUpdate) (*Event, error)
	// DeleteEvent reports whether an event was removed. Registrations are left in place.
	DeleteEvent(ctx context.Context, id int64) (bool, error)
}

// CreateEventInput is the data an organizer supplies for a new event.
type CreateEventInput struct {
	Title       string
	Description string
	Category    Category
	Location    string
	StartDate   time.Time
	EndDate     time.Time
	ImageURL    *string
	Capacity    int
}

// EventService defines event browsing and organizer management.
type EventService interface {
	ListEvents(ctx context.Context, filter EventFilter) ([]*Event, error)
	GetEvent(ctx context.Context, id int64) (*Event, error)
	CreateEvent(ctx context.Context, caller *Identity, in CreateEventInput) (*Event, error)
	UpdateEvent(ctx context.Context, caller *Identity, id int64, update EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, caller *Identity, id int64) error
	ListEventRegistrations(ctx context.Context, caller *Identity, id int64) ([]*EventRegistration, error)
	ListOrganizedEvents(ctx context.Context, caller *Identity) ([]*Event, error)
}
