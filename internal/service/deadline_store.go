package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"deadline-tracker/internal/logger"
	"deadline-tracker/internal/model"
	"deadline-tracker/internal/repository"
)

// ErrInvalidDeadline is returned by Add for input missing a title, course or due date.
var ErrInvalidDeadline = errors.New("invalid deadline")

// DefaultStorageKey is the key under which the collection is persisted.
const DefaultStorageKey = "college-deadlines"

// StoreOption customizes a DeadlineStore.
type StoreOption func(*DeadlineStore)

// WithClock overrides the wall clock used for createdAt and seeding.
func WithClock(now func() time.Time) StoreOption {
	return func(s *DeadlineStore) { s.now = now }
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(gen func() string) StoreOption {
	return func(s *DeadlineStore) { s.newID = gen }
}

// DeadlineStore owns the deadline collection and mirrors every mutation to a KV.
// It is not safe for concurrent use.
type DeadlineStore struct {
	kv        repository.KV
	key       string
	now       func() time.Time
	newID     func() string
	log       zerolog.Logger
	deadlines []model.Deadline
	loading   bool
}

func NewDeadlineStore(kv repository.KV, key string, opts ...StoreOption) *DeadlineStore {
	if key == "" {
		key = DefaultStorageKey
	}
	s := &DeadlineStore{
		kv:      kv,
		key:     key,
		now:     time.Now,
		newID:   uuid.NewString,
		log:     logger.Component("store"),
		loading: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Loading is true until the first Load completes.
func (s *DeadlineStore) Loading() bool {
	return s.loading
}

// Deadlines returns a copy of the current collection.
func (s *DeadlineStore) Deadlines() []model.Deadline {
	return cloneDeadlines(s.deadlines)
}

// Get returns the record with the given id.
func (s *DeadlineStore) Get(id string) (model.Deadline, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.deadlines[i], true
	}
	return model.Deadline{}, false
}

// Load reads the persisted collection. Absent or malformed data is replaced by the seed set.
func (s *DeadlineStore) Load(ctx context.Context) ([]model.Deadline, error) {
	raw, err := s.kv.Get(ctx, s.key)
	switch {
	case err == nil:
		deadlines, decodeErr := decodeDeadlines(raw)
		if decodeErr == nil {
			s.deadlines = deadlines
			s.loading = false
			return s.Deadlines(), nil
		}
		s.log.Warn().Err(decodeErr).Str("key", s.key).Msg("persisted deadlines are malformed, reseeding")
	case errors.Is(err, repository.ErrNotFound):
		s.log.Info().Str("key", s.key).Msg("no persisted deadlines, seeding sample data")
	default:
		return nil, fmt.Errorf("load deadlines: %w", err)
	}

	seed := SampleDeadlines(s.now(), s.newID)
	if err := s.persist(ctx, seed); err != nil {
		return nil, err
	}
	s.loading = false
	return s.Deadlines(), nil
}

// Add creates a record with a fresh id and createdAt, then persists the collection.
func (s *DeadlineStore) Add(ctx context.Context, input model.DeadlineInput) (model.Deadline, error) {
	if err := validateInput(input); err != nil {
		return model.Deadline{}, err
	}

	d := model.Deadline{
		ID:          s.newID(),
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate.UTC(),
		Category:    input.Category,
		Priority:    input.Priority,
		Course:      input.Course,
		Completed:   input.Completed,
		CreatedAt:   s.now().UTC(),
	}

	next := append(cloneDeadlines(s.deadlines), d)
	if err := s.persist(ctx, next); err != nil {
		return model.Deadline{}, err
	}
	s.log.Debug().Str("id", d.ID).Str("category", string(d.Category)).Msg("deadline added")
	return d, nil
}

// Update merges patch into the record with id. Unknown ids and empty patches
// are a no-op. A patch that leaves the record invalid is rejected with
// ErrInvalidDeadline and nothing is written.
func (s *DeadlineStore) Update(ctx context.Context, id string, patch model.DeadlinePatch) error {
	i := s.indexOf(id)
	if i < 0 || patch.Empty() {
		return nil
	}
	next := cloneDeadlines(s.deadlines)
	patch.Apply(&next[i])
	if err := validateRecord(next[i]); err != nil {
		return err
	}
	return s.persist(ctx, next)
}

// Remove deletes the record with id if present.
func (s *DeadlineStore) Remove(ctx context.Context, id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	next := make([]model.Deadline, 0, len(s.deadlines)-1)
	next = append(next, s.deadlines[:i]...)
	next = append(next, s.deadlines[i+1:]...)
	return s.persist(ctx, next)
}

// ToggleCompleted flips the completed flag of the record with id if present.
func (s *DeadlineStore) ToggleCompleted(ctx context.Context, id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	next := cloneDeadlines(s.deadlines)
	next[i].Completed = !next[i].Completed
	return s.persist(ctx, next)
}

// Snapshot returns the persisted blob as stored.
func (s *DeadlineStore) Snapshot(ctx context.Context) ([]byte, error) {
	return s.kv.Get(ctx, s.key)
}

// persist writes next and only then makes it the in-memory collection.
func (s *DeadlineStore) persist(ctx context.Context, next []model.Deadline) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode deadlines: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("persist deadlines: %w", err)
	}
	s.deadlines = next
	return nil
}

func (s *DeadlineStore) indexOf(id string) int {
	for i := range s.deadlines {
		if s.deadlines[i].ID == id {
			return i
		}
	}
	return -1
}

func validateInput(input model.DeadlineInput) error {
	switch {
	case strings.TrimSpace(input.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidDeadline)
	case strings.TrimSpace(input.Course) == "":
		return fmt.Errorf("%w: course is required", ErrInvalidDeadline)
	case input.DueDate.IsZero():
		return fmt.Errorf("%w: due date is required", ErrInvalidDeadline)
	case !input.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidDeadline, input.Category)
	case !input.Priority.Valid():
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidDeadline, input.Priority)
	}
	return nil
}

func validateRecord(d model.Deadline) error {
	return validateInput(model.DeadlineInput{
		Title:    d.Title,
		Course:   d.Course,
		DueDate:  d.DueDate,
		Category: d.Category,
		Priority: d.Priority,
	})
}

func decodeDeadlines(raw []byte) ([]model.Deadline, error) {
	var deadlines []model.Deadline
	if err := json.Unmarshal(raw, &deadlines); err != nil {
		return nil, fmt.Errorf("decode deadlines: %w", err)
	}
	if deadlines == nil {
		return nil, fmt.Errorf("decode deadlines: not a list")
	}

	seen := make(map[string]struct{}, len(deadlines))
	for i, d := range deadlines {
		switch {
		case d.ID == "":
			return nil, fmt.Errorf("record %d: missing id", i)
		case d.DueDate.IsZero():
			return nil, fmt.Errorf("record %s: missing due date", d.ID)
		case !d.Category.Valid():
			return nil, fmt.Errorf("record %s: unknown category %q", d.ID, d.Category)
		case !d.Priority.Valid():
			return nil, fmt.Errorf("record %s: unknown priority %q", d.ID, d.Priority)
		}
		if _, dup := seen[d.ID]; dup {
			return nil, fmt.Errorf("record %s: duplicate id", d.ID)
		}
		seen[d.ID] = struct{}{}
	}
	return deadlines, nil
}

func cloneDeadlines(in []model.Deadline) []model.Deadline {
	out := make([]model.Deadline, len(in))
	copy(out, in)
	return out
}
