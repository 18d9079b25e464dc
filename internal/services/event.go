package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eventhub/internal/domain"
)

type eventService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.EventRegistrationRepository
}

// NewEventService creates an EventService with the given repositories.
func NewEventService(eventRepo domain.EventRepository, registrationRepo domain.EventRegistrationRepository) domain.EventService {
	return &eventService{eventRepo: eventRepo, registrationRepo: registrationRepo}
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	return s.eventRepo.ListEvents(ctx, filter)
}

func (s *eventService) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	return s.eventRepo.GetEvent(ctx, id)
}

func (s *eventService) CreateEvent(ctx context.Context, caller *domain.Identity, in domain.CreateEventInput) (*domain.Event, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	if !caller.Role.CanOrganize() {
		return nil, fmt.Errorf("%w: only organizers can create events", domain.ErrForbidden)
	}
	event := &domain.Event{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		Location:    strings.TrimSpace(in.Location),
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		ImageURL:    in.ImageURL,
		OrganizerID: caller.UserID,
		Capacity:    in.Capacity,
	}
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	if err := s.eventRepo.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, caller *domain.Identity, id int64, update domain.EventUpdate) (*domain.Event, error) {
	current, err := s.managedEvent(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	merged := *current
	update.Apply(&merged)
	if err := validateEvent(&merged); err != nil {
		return nil, err
	}
	return s.eventRepo.UpdateEvent(ctx, id, update)
}

func (s *eventService) DeleteEvent(ctx context.Context, caller *domain.Identity, id int64) error {
	if _, err := s.managedEvent(ctx, caller, id); err != nil {
		return err
	}
	deleted, err := s.eventRepo.DeleteEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

func (s *eventService) ListEventRegistrations(ctx context.Context, caller *domain.Identity, id int64) ([]*domain.EventRegistration, error) {
	if _, err := s.managedEvent(ctx, caller, id); err != nil {
		return nil, err
	}
	return s.registrationRepo.ListEventRegistrations(ctx, id)
}

func (s *eventService) ListOrganizedEvents(ctx context.Context, caller *domain.Identity) ([]*domain.Event, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.eventRepo.ListEvents(ctx, domain.EventFilter{OrganizerID: caller.UserID})
}

// managedEvent loads event id and checks that caller is its organizer or an admin.
func (s *eventService) managedEvent(ctx context.Context, caller *domain.Identity, id int64) (*domain.Event, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	event, err := s.eventRepo.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !caller.CanManage(event.OrganizerID) {
		return nil, fmt.Errorf("%w: you don't have permission to manage this event", domain.ErrForbidden)
	}
	return event, nil
}

func validateEvent(e *domain.Event) error {
	var errs []string
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, "title is required")
	}
	if strings.TrimSpace(e.Description) == "" {
		errs = append(errs, "description is required")
	}
	if !e.Category.Valid() {
		errs = append(errs, fmt.Sprintf("category must be one of %v", domain.Categories))
	}
	if strings.TrimSpace(e.Location) == "" {
		errs = append(errs, "location is required")
	}
	if e.StartDate.IsZero() || e.EndDate.IsZero() {
		errs = append(errs, "startDate and endDate are required")
	} else if e.EndDate.Before(e.StartDate) {
		errs = append(errs, "endDate must not be before startDate")
	}
	if e.Capacity <= 0 {
		errs = append(errs, "capacity must be a positive integer")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, "; "))
	}
	return nil
}
