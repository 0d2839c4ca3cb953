// Package memstore implements interview.Store in memory, with the same
// optimistic-locking contract as the Postgres store. It backs tests and
// database-free development runs.
package memstore

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mockmate/interview"
)

// Store keeps everything in maps guarded by one mutex.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*interview.User
	setups   map[string]*interview.Setup
	sessions map[string]*interview.Session
	chatLogs []interview.ChatLog
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:    make(map[string]*interview.User),
		setups:   make(map[string]*interview.Setup),
		sessions: make(map[string]*interview.Session),
	}
}

// CreateSchema is a no-op; there is no schema in memory.
func (s *Store) CreateSchema(ctx context.Context) error {
	return nil
}

// CreateUser implements interview.Store.
func (s *Store) CreateUser(ctx context.Context, user *interview.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return interview.ErrEmailTaken
		}
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()

	cp := *user
	s.users[user.ID] = &cp
	return nil
}

// GetUser implements interview.Store.
func (s *Store) GetUser(ctx context.Context, userID string) (*interview.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, interview.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

// GetUserByEmail implements interview.Store.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*interview.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, interview.ErrNotFound
}

// UpdateUser implements interview.Store.
func (s *Store) UpdateUser(ctx context.Context, user *interview.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[user.ID]
	if !ok {
		return interview.ErrNotFound
	}
	for id, existing := range s.users {
		if id != user.ID && existing.Email == user.Email {
			return interview.ErrEmailTaken
		}
	}

	user.CreatedAt = stored.CreatedAt
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

// CreateSetup implements interview.Store.
func (s *Store) CreateSetup(ctx context.Context, setup *interview.Setup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if setup.ID == "" {
		setup.ID = uuid.New().String()
	}
	setup.CreatedAt = time.Now()

	cp := *setup
	s.setups[setup.ID] = &cp
	return nil
}

// GetSetup implements interview.Store.
func (s *Store) GetSetup(ctx context.Context, setupID string) (*interview.Setup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	setup, ok := s.setups[setupID]
	if !ok {
		return nil, interview.ErrNotFound
	}
	cp := *setup
	return &cp, nil
}

// ListSetups implements interview.Store, newest first.
func (s *Store) ListSetups(ctx context.Context, userID string) ([]interview.Setup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var setups []interview.Setup
	for _, setup := range s.setups {
		if setup.UserID == userID {
			setups = append(setups, *setup)
		}
	}
	sort.Slice(setups, func(i, j int) bool {
		return setups[i].CreatedAt.After(setups[j].CreatedAt)
	})
	return setups, nil
}

// LatestSetup implements interview.Store.
func (s *Store) LatestSetup(ctx context.Context, userID string) (*interview.Setup, error) {
	setups, err := s.ListSetups(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(setups) == 0 {
		return nil, interview.ErrNotFound
	}
	return &setups[0], nil
}

// DeleteSetup implements interview.Store.
func (s *Store) DeleteSetup(ctx context.Context, setupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.setups[setupID]; !ok {
		return interview.ErrNotFound
	}
	delete(s.setups, setupID)
	return nil
}

// CreateSession implements interview.Store, setting Version to 1.
func (s *Store) CreateSession(ctx context.Context, session *interview.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := time.Now()
	session.Version = 1
	session.CreatedAt = now
	session.UpdatedAt = now

	s.sessions[session.ID] = copySession(session)
	return nil
}

// GetSession implements interview.Store.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*interview.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, interview.ErrNotFound
	}
	return copySession(session), nil
}

// UpdateSession implements interview.Store with optimistic locking:
// the write applies only when the caller's version matches the stored
// one, and the version then increments.
func (s *Store) UpdateSession(ctx context.Context, session *interview.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[session.ID]
	if !ok {
		return interview.ErrNotFound
	}
	if stored.Version != session.Version {
		return interview.ErrVersionConflict
	}

	session.Version++
	session.UpdatedAt = time.Now()
	s.sessions[session.ID] = copySession(session)
	return nil
}

// LogChatCall implements interview.Store.
func (s *Store) LogChatCall(ctx context.Context, log interview.ChatLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	log.CreatedAt = time.Now()
	s.chatLogs = append(s.chatLogs, log)
	return nil
}

// ChatLogs returns a snapshot of recorded gateway attempts.
func (s *Store) ChatLogs() []interview.ChatLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]interview.ChatLog, len(s.chatLogs))
	copy(out, s.chatLogs)
	return out
}

// PerformanceSummary implements interview.Store.
func (s *Store) PerformanceSummary(ctx context.Context, userID string) (*interview.PerformanceSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := &interview.PerformanceSummary{UserID: userID}
	var ta, co, cn, ps float64

	for _, session := range s.sessions {
		if session.UserID != userID || !session.Completed || !session.Evaluated {
			continue
		}
		summary.InterviewsCompleted++
		ta += float64(session.Evaluation.TechnicalAccuracy)
		co += float64(session.Evaluation.Completeness)
		cn += float64(session.Evaluation.Conciseness)
		ps += float64(session.Evaluation.ProblemSolving)
	}

	if n := float64(summary.InterviewsCompleted); n > 0 {
		summary.AvgTechnicalAccuracy = int(math.Round(ta / n))
		summary.AvgCompleteness = int(math.Round(co / n))
		summary.AvgConciseness = int(math.Round(cn / n))
		summary.AvgProblemSolving = int(math.Round(ps / n))
		summary.OverallScore = int(math.Round((ta + co + cn + ps) / (4 * n)))
	}

	return summary, nil
}

// copySession deep-copies a session so callers cannot mutate stored
// state without going through UpdateSession.
func copySession(session *interview.Session) *interview.Session {
	cp := *session
	cp.Questions = make([]interview.QuestionAnswer, len(session.Questions))
	copy(cp.Questions, session.Questions)
	cp.EmotionTimeline = make([]interview.EmotionSample, len(session.EmotionTimeline))
	copy(cp.EmotionTimeline, session.EmotionTimeline)
	return &cp
}

// Ensure Store implements interview.Store at compile time.
var _ interview.Store = (*Store)(nil)
