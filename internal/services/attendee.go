package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"eventhub/internal/domain"
)

const confirmationDateLayout = "Mon, Jan 2, 2006 15:04 MST"

// registrationLockStripes bounds the number of mutexes guarding registrations.
const registrationLockStripes = 64

type attendeeService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.EventRegistrationRepository
	userRepo         domain.UserRepository
	email            domain.EmailService
	logger           *slog.Logger

	// locks serializes registration changes; an event always maps to the same stripe.
	locks [registrationLockStripes]sync.Mutex
}

// NewAttendeeService creates an AttendeeService. email may be nil, in which
// case no confirmation is sent.
func NewAttendeeService(
	eventRepo domain.EventRepository,
	registrationRepo domain.EventRegistrationRepository,
	userRepo domain.UserRepository,
	email domain.EmailService,
	logger *slog.Logger,
) domain.AttendeeService {
	return &attendeeService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
		email:            email,
		logger:           logger,
	}
}

func (s *attendeeService) lockFor(eventID int64) *sync.Mutex {
	return &s.locks[uint64(eventID)%registrationLockStripes]
}

func (s *attendeeService) RegisterForEvent(ctx context.Context, eventID, userID int64) (*domain.EventRegistration, error) {
	event, reg, err := s.register(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	s.sendConfirmation(ctx, event, userID)
	return reg, nil
}

// register runs the existence, duplicate and capacity checks and the insert
// while holding the event's lock.
func (s *attendeeService) register(ctx context.Context, eventID, userID int64) (*domain.Event, *domain.EventRegistration, error) {
	mu := s.lockFor(eventID)
	mu.Lock()
	defer mu.Unlock()

	event, err := s.eventRepo.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}

	registered, err := s.registrationRepo.IsUserRegistered(ctx, eventID, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("check registration: %w", err)
	}
	if registered {
		return nil, nil, domain.ErrAlreadyRegistered
	}

	regs, err := s.registrationRepo.ListEventRegistrations(ctx, eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("list event registrations: %w", err)
	}
	if len(regs) >= event.Capacity {
		return nil, nil, domain.ErrEventFull
	}

	reg, err := s.registrationRepo.RegisterForEvent(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("create event registration: %w", err)
	}
	return event, reg, nil
}

func (s *attendeeService) sendConfirmation(ctx context.Context, event *domain.Event, userID int64) {
	if s.email == nil {
		return
	}
	user, err := s.userRepo.GetUser(ctx, userID)
	if err != nil {
		s.logger.Warn("registration confirmation skipped", "user_id", userID, "error", err)
		return
	}
	err = s.email.SendRegistrationConfirmation(ctx, &domain.RegistrationConfirmationEmailData{
		Email:      user.Email,
		FirstName:  user.FirstName,
		EventTitle: event.Title,
		Location:   event.Location,
		StartDate:  event.StartDate.Format(confirmationDateLayout),
	})
	if err != nil {
		s.logger.Error("failed to send registration confirmation", "user_id", userID, "event_id", event.ID, "error", err)
	}
}

func (s *attendeeService) CancelRegistration(ctx context.Context, eventID, userID int64) error {
	mu := s.lockFor(eventID)
	mu.Lock()
	defer mu.Unlock()

	removed, err := s.registrationRepo.CancelRegistration(ctx, eventID, userID)
	if err != nil {
		return fmt.Errorf("cancel registration: %w", err)
	}
	if !removed {
		return domain.ErrNotFound
	}
	return nil
}

func (s *attendeeService) IsRegistered(ctx context.Context, eventID, userID int64) (bool, error) {
	return s.registrationRepo.IsUserRegistered(ctx, eventID, userID)
}

// ListMyRegisteredEvents returns the events userID registered for, in
// registration order. Registrations of deleted events are skipped.
func (s *attendeeService) ListMyRegisteredEvents(ctx context.Context, userID int64) ([]*domain.Event, error) {
	regs, err := s.registrationRepo.ListUserRegistrations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user registrations: %w", err)
	}
	events := make([]*domain.Event, 0, len(regs))
	for _, reg := range regs {
		event, err := s.eventRepo.GetEvent(ctx, reg.EventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get event %d: %w", reg.EventID, err)
		}
		events = append(events, event)
	}
	return events, nil
}
