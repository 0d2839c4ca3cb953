package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mockmate/interview"
)

// CreateUser inserts a new user. A duplicate email fails with
// interview.ErrEmailTaken.
func (s *PGStore) CreateUser(ctx context.Context, user *interview.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	err := s.db.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password_hash, dob, citizenship)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.DOB, user.Citizenship,
	).Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return interview.ErrEmailTaken
		}
		return fmt.Errorf("interview: create user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID.
func (s *PGStore) GetUser(ctx context.Context, userID string) (*interview.User, error) {
	user := &interview.User{ID: userID}

	err := s.db.QueryRow(ctx,
		`SELECT name, email, password_hash, dob, citizenship, created_at
		 FROM users WHERE id = $1`,
		userID,
	).Scan(&user.Name, &user.Email, &user.PasswordHash, &user.DOB, &user.Citizenship, &user.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err, func(err error) error {
			return fmt.Errorf("interview: get user: %w", err)
		})
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email.
func (s *PGStore) GetUserByEmail(ctx context.Context, email string) (*interview.User, error) {
	user := &interview.User{Email: email}

	err := s.db.QueryRow(ctx,
		`SELECT id, name, password_hash, dob, citizenship, created_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&user.ID, &user.Name, &user.PasswordHash, &user.DOB, &user.Citizenship, &user.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err, func(err error) error {
			return fmt.Errorf("interview: get user by email: %w", err)
		})
	}

	return user, nil
}

// UpdateUser persists mutable profile fields and the password hash.
func (s *PGStore) UpdateUser(ctx context.Context, user *interview.User) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users
		 SET name = $2, email = $3, password_hash = $4, dob = $5, citizenship = $6
		 WHERE id = $1`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.DOB, user.Citizenship,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return interview.ErrEmailTaken
		}
		return fmt.Errorf("interview: update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return interview.ErrNotFound
	}

	return nil
}
