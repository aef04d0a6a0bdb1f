// Package drafts keeps an in-progress new-task form restorable across
// navigation. Only creation flows persist drafts; edits to existing tasks
// never do, so stale local edits can't shadow server data.
package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/teamplane/board-api/internal/constants"
)

// ErrNotFound is returned by backends when no draft exists for a key.
var ErrNotFound = errors.New("drafts: not found")

// Backend is the raw persistence a Service writes through.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Draft holds the form fields of an unsaved new task. CategoryID and
// AssigneeID are form-layer values, so the "none" sentinel may appear here;
// it is normalized away before anything reaches the task store.
type Draft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ColumnID    string     `json:"column_id"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CategoryID  string     `json:"category_id"`
	AssigneeID  string     `json:"assignee_id"`
	SavedAt     time.Time  `json:"saved_at"`
}

// Service debounces draft writes and exposes load/clear. Rapid field edits
// coalesce into one persisted write; Flush forces pending writes out
// immediately, which is the path to take when the document becomes hidden.
type Service struct {
	backend  Backend
	ttl      time.Duration
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*pendingWrite
}

type pendingWrite struct {
	timer *time.Timer
	draft Draft
}

// Option configures a Service.
type Option func(*Service)

// WithDebounce overrides the write coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(s *Service) { s.debounce = d }
}

// WithTTL overrides how long an abandoned draft is retained.
func WithTTL(d time.Duration) Option {
	return func(s *Service) { s.ttl = d }
}

func NewService(backend Backend, opts ...Option) *Service {
	s := &Service{
		backend:  backend,
		ttl:      constants.DraftTTL,
		debounce: constants.DraftDebounce,
		pending:  make(map[string]*pendingWrite),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func key(projectID, taskKey string) string {
	return fmt.Sprintf("task-form:%s:%s", projectID, taskKey)
}

// Save schedules a debounced write of the draft. Saves against any key other
// than the "new" key are dropped: existing tasks are authoritative on the
// server and are never drafted.
func (s *Service) Save(projectID, taskKey string, draft Draft) {
	if taskKey != constants.DraftKeyNew {
		return
	}

	k := key(projectID, taskKey)
	draft.SavedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pending[k]; ok {
		p.timer.Stop()
	}
	p := &pendingWrite{draft: draft}
	p.timer = time.AfterFunc(s.debounce, func() {
		s.flushKey(context.Background(), k)
	})
	s.pending[k] = p
}

// Flush writes every pending draft immediately. A debounced write would be
// lost if the process went away before its timer fired; callers invoke Flush
// when the form's document becomes hidden or the service shuts down.
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	keys := make([]string, 0, len(s.pending))
	for k, p := range s.pending {
		p.timer.Stop()
		keys = append(keys, k)
	}
	s.mu.Unlock()

	var firstErr error
	for _, k := range keys {
		if err := s.flushKey(ctx, k); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Service) flushKey(ctx context.Context, k string) error {
	s.mu.Lock()
	p, ok := s.pending[k]
	if ok {
		delete(s.pending, k)
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}

	payload, err := json.Marshal(p.draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := s.backend.Set(ctx, k, payload, s.ttl); err != nil {
		return fmt.Errorf("failed to persist draft: %w", err)
	}
	return nil
}

// Load returns the persisted draft for the key, or nil when none exists.
// A pending unflushed write wins over what the backend holds.
func (s *Service) Load(ctx context.Context, projectID, taskKey string) (*Draft, error) {
	k := key(projectID, taskKey)

	s.mu.Lock()
	if p, ok := s.pending[k]; ok {
		d := p.draft
		s.mu.Unlock()
		return &d, nil
	}
	s.mu.Unlock()

	payload, err := s.backend.Get(ctx, k)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	var draft Draft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &draft, nil
}

// Clear deletes the draft and cancels any pending write for its key. Called
// on successful creation and on explicit cancel of a create form; navigating
// away never clears.
func (s *Service) Clear(ctx context.Context, projectID, taskKey string) error {
	k := key(projectID, taskKey)

	s.mu.Lock()
	if p, ok := s.pending[k]; ok {
		p.timer.Stop()
		delete(s.pending, k)
	}
	s.mu.Unlock()

	if err := s.backend.Delete(ctx, k); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}

// Close flushes outstanding writes with a short deadline.
func (s *Service) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.Flush(ctx)
}
