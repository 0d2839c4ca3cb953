package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mockmate/interview"
)

// CreateSetup inserts a pre-interview setup. Setups are immutable, so
// there is no update path.
func (s *PGStore) CreateSetup(ctx context.Context, setup *interview.Setup) error {
	if setup.ID == "" {
		setup.ID = uuid.New().String()
	}

	err := s.db.QueryRow(ctx,
		`INSERT INTO setups (id, user_id, desired_role, industry, education_level, experience_level)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		setup.ID, setup.UserID, setup.DesiredRole, setup.Industry, setup.EducationLevel, setup.ExperienceLevel,
	).Scan(&setup.CreatedAt)
	if err != nil {
		return fmt.Errorf("interview: create setup: %w", err)
	}

	return nil
}

// GetSetup retrieves a setup by ID.
func (s *PGStore) GetSetup(ctx context.Context, setupID string) (*interview.Setup, error) {
	setup := &interview.Setup{ID: setupID}

	err := s.db.QueryRow(ctx,
		`SELECT user_id, desired_role, industry, education_level, experience_level, created_at
		 FROM setups WHERE id = $1`,
		setupID,
	).Scan(&setup.UserID, &setup.DesiredRole, &setup.Industry, &setup.EducationLevel, &setup.ExperienceLevel, &setup.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err, func(err error) error {
			return fmt.Errorf("interview: get setup: %w", err)
		})
	}

	return setup, nil
}

// ListSetups returns all setups for a user, newest first.
func (s *PGStore) ListSetups(ctx context.Context, userID string) ([]interview.Setup, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, desired_role, industry, education_level, experience_level, created_at
		 FROM setups WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("interview: list setups: %w", err)
	}
	defer rows.Close()

	var setups []interview.Setup
	for rows.Next() {
		var setup interview.Setup
		err := rows.Scan(&setup.ID, &setup.UserID, &setup.DesiredRole, &setup.Industry,
			&setup.EducationLevel, &setup.ExperienceLevel, &setup.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("interview: scan setup: %w", err)
		}
		setups = append(setups, setup)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("interview: list setups: %w", err)
	}

	return setups, nil
}

// LatestSetup returns the user's most recently created setup.
func (s *PGStore) LatestSetup(ctx context.Context, userID string) (*interview.Setup, error) {
	setup := &interview.Setup{UserID: userID}

	err := s.db.QueryRow(ctx,
		`SELECT id, desired_role, industry, education_level, experience_level, created_at
		 FROM setups WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`,
		userID,
	).Scan(&setup.ID, &setup.DesiredRole, &setup.Industry, &setup.EducationLevel, &setup.ExperienceLevel, &setup.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err, func(err error) error {
			return fmt.Errorf("interview: latest setup: %w", err)
		})
	}

	return setup, nil
}

// DeleteSetup removes a setup by ID.
func (s *PGStore) DeleteSetup(ctx context.Context, setupID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM setups WHERE id = $1`, setupID)
	if err != nil {
		return fmt.Errorf("interview: delete setup: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return interview.ErrNotFound
	}

	return nil
}
