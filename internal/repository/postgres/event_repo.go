package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventhub/internal/domain"
)

const eventColumns = `id, title, description, category, location, start_date, end_date, image_url, organizer_id, capacity, created_at`

func (s *Store) CreateEvent(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, category, location, start_date, end_date, image_url, organizer_id, capacity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	createdAt := s.nowFunc()
	var image sql.NullString
	if e.ImageURL != nil {
		image = sql.NullString{String: *e.ImageURL, Valid: true}
	}
	err := s.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, string(e.Category), e.Location, e.StartDate, e.EndDate, image, e.OrganizerID, e.Capacity, createdAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	e.CreatedAt = createdAt
	return nil
}

func (s *Store) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// ListEvents pushes category, search, organizer and the date window down to
// SQL; the weekend restriction is applied on the scanned rows.
func (s *Store) ListEvents(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Category != "" {
		args = append(args, string(filter.Category))
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, containsPattern(filter.Search))
		conds = append(conds, fmt.Sprintf("(title ILIKE $%[1]d OR description ILIKE $%[1]d OR location ILIKE $%[1]d)", len(args)))
	}
	window, hasWindow := filter.Window(s.nowFunc())
	if hasWindow {
		args = append(args, window.From, window.To)
		conds = append(conds, fmt.Sprintf("start_date >= $%d AND start_date < $%d", len(args)-1, len(args)))
	}
	if filter.OrganizerID != 0 {
		args = append(args, filter.OrganizerID)
		conds = append(conds, fmt.Sprintf("organizer_id = $%d", len(args)))
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		if hasWindow && !window.Contains(e.StartDate) {
			continue
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Store) UpdateEvent(ctx context.Context, id int64, update domain.EventUpdate) (*domain.Event, error) {
	var (
		setClauses []string
		args       []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if update.Title != nil {
		set("title", *update.Title)
	}
	if update.Description != nil {
		set("description", *update.Description)
	}
	if update.Category != nil {
		set("category", string(*update.Category))
	}
	if update.Location != nil {
		set("location", *update.Location)
	}
	if update.StartDate != nil {
		set("start_date", *update.StartDate)
	}
	if update.EndDate != nil {
		set("end_date", *update.EndDate)
	}
	switch {
	case update.ClearImageURL:
		set("image_url", nil)
	case update.ImageURL != nil:
		set("image_url", *update.ImageURL)
	}
	if update.Capacity != nil {
		set("capacity", *update.Capacity)
	}
	if len(setClauses) == 0 {
		// No fields to update; just fetch current row
		return s.GetEvent(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), len(args), eventColumns)
	e, err := scanEvent(s.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *Store) DeleteEvent(ctx context.Context, id int64) (bool, error) {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var category string
	var image sql.NullString
	err := row.Scan(&e.ID, &e.Title, &e.Description, &category, &e.Location, &e.StartDate, &e.EndDate,
		&image, &e.OrganizerID, &e.Capacity, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Category = domain.Category(category)
	if image.Valid {
		e.ImageURL = &image.String
	}
	return e, nil
}
