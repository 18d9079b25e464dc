// Package seed loads the initial admin account and sample events into an
// empty store.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"eventhub/internal/domain"
)

//go:embed seed.yaml
var defaultData []byte

// Data is the content of a seed file.
type Data struct {
	Users  []User  `yaml:"users"`
	Events []Event `yaml:"events"`
}

// User is a seeded account. Password is plain text and hashed on load.
type User struct {
	Username  string      `yaml:"username"`
	Password  string      `yaml:"password"`
	FirstName string      `yaml:"firstName"`
	LastName  string      `yaml:"lastName"`
	Email     string      `yaml:"email"`
	Role      domain.Role `yaml:"role"`
}

// Event is a seeded event. Organizer is the username of a seeded user.
type Event struct {
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Category    domain.Category `yaml:"category"`
	Location    string          `yaml:"location"`
	StartDate   time.Time       `yaml:"startDate"`
	EndDate     time.Time       `yaml:"endDate"`
	ImageURL    string          `yaml:"imageUrl"`
	Organizer   string          `yaml:"organizer"`
	Capacity    int             `yaml:"capacity"`
}

// Parse decodes seed data from raw YAML.
func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &d, nil
}

// Default returns the embedded seed data.
func Default() (*Data, error) {
	return Parse(defaultData)
}

// Store is what the seeder writes to.
type Store interface {
	domain.UserRepository
	domain.EventRepository
}

// Run loads data into store unless it already holds users. It reports whether
// anything was written.
func Run(ctx context.Context, store Store, hasher domain.PasswordHasher, data *Data, logger *slog.Logger) (bool, error) {
	existing, err := store.ListUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("list users: %w", err)
	}
	if len(existing) > 0 {
		logger.Debug("store already has users, skipping seed", "users", len(existing))
		return false, nil
	}

	ids := make(map[string]int64, len(data.Users))
	for _, su := range data.Users {
		if !su.Role.Valid() {
			return false, fmt.Errorf("seed user %q: invalid role %q", su.Username, su.Role)
		}
		hash, err := hasher.Hash(su.Password)
		if err != nil {
			return false, fmt.Errorf("seed user %q: %w", su.Username, err)
		}
		u := domain.NewUser(su.Username, su.Email, hash, su.FirstName, su.LastName, su.Role)
		if err := store.CreateUser(ctx, u); err != nil {
			return false, fmt.Errorf("seed user %q: %w", su.Username, err)
		}
		ids[su.Username] = u.ID
	}

	for _, se := range data.Events {
		organizerID, ok := ids[se.Organizer]
		if !ok {
			return false, fmt.Errorf("seed event %q: unknown organizer %q", se.Title, se.Organizer)
		}
		e := &domain.Event{
			Title:       se.Title,
			Description: se.Description,
			Category:    se.Category,
			Location:    se.Location,
			StartDate:   se.StartDate,
			EndDate:     se.EndDate,
			OrganizerID: organizerID,
			Capacity:    se.Capacity,
		}
		if se.ImageURL != "" {
			img := se.ImageURL
			e.ImageURL = &img
		}
		if err := store.CreateEvent(ctx, e); err != nil {
			return false, fmt.Errorf("seed event %q: %w", se.Title, err)
		}
	}
	logger.Info("seeded store", "users", len(data.Users), "events", len(data.Events))
	return true, nil
}
