package interview

import (
	"context"
	"errors"
)

var (
	ErrNotFound         = errors.New("interview: not found")
	ErrEmailTaken       = errors.New("interview: email already registered")
	ErrVersionConflict  = errors.New("interview: session version conflict")
	ErrSessionCompleted = errors.New("interview: session already completed")
	ErrNoQuestions      = errors.New("interview: no questions generated")
)

// Store defines the contract for persisting users, setups and sessions.
//
// UpdateSession is a conditional write: it succeeds only when the
// stored version matches session.Version, then increments it. Two
// concurrent Answer calls against one session cannot both win.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error

	// Users
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, userID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error

	// Setups
	CreateSetup(ctx context.Context, setup *Setup) error
	GetSetup(ctx context.Context, setupID string) (*Setup, error)
	ListSetups(ctx context.Context, userID string) ([]Setup, error)
	LatestSetup(ctx context.Context, userID string) (*Setup, error)
	DeleteSetup(ctx context.Context, setupID string) error

	// Sessions
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	UpdateSession(ctx context.Context, session *Session) error

	// Audit
	LogChatCall(ctx context.Context, log ChatLog) error

	// Aggregates
	PerformanceSummary(ctx context.Context, userID string) (*PerformanceSummary, error)
}
