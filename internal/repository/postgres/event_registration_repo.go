package postgres

import (
	"context"
	"fmt"

	"eventhub/internal/domain"
)

func (s *Store) RegisterForEvent(ctx context.Context, eventID, userID int64) (*domain.EventRegistration, error) {
	query := `
		INSERT INTO event_registrations (event_id, user_id, registered_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	reg := &domain.EventRegistration{EventID: eventID, UserID: userID, RegisteredAt: s.nowFunc()}
	if err := s.DB.QueryRowContext(ctx, query, eventID, userID, reg.RegisteredAt).Scan(&reg.ID); err != nil {
		if _, ok := uniqueConstraint(err); ok {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("insert event registration: %w", err)
	}
	return reg, nil
}

func (s *Store) ListEventRegistrations(ctx context.Context, eventID int64) ([]*domain.EventRegistration, error) {
	return s.listRegistrations(ctx, `
		SELECT id, event_id, user_id, registered_at
		FROM event_registrations
		WHERE event_id = $1
		ORDER BY id
	`, eventID)
}

func (s *Store) ListUserRegistrations(ctx context.Context, userID int64) ([]*domain.EventRegistration, error) {
	return s.listRegistrations(ctx, `
		SELECT id, event_id, user_id, registered_at
		FROM event_registrations
		WHERE user_id = $1
		ORDER BY id
	`, userID)
}

func (s *Store) listRegistrations(ctx context.Context, query string, arg int64) ([]*domain.EventRegistration, error) {
	rows, err := s.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.EventRegistration, 0)
	for rows.Next() {
		reg := &domain.EventRegistration{}
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.RegisteredAt); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return regs, nil
}

func (s *Store) CancelRegistration(ctx context.Context, eventID, userID int64) (bool, error) {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM event_registrations WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) IsUserRegistered(ctx context.Context, eventID, userID int64) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM event_registrations WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID,
	).Scan(&exists)
	return exists, err
}
