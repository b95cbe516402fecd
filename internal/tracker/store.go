// Package tracker implements the group progress document store.
//
// The whole group lives in one JSON blob. Every mutation loads the blob,
// applies one change and writes the whole blob back; there is no partial
// persistence. Operations on one Store are serialized, but two processes
// sharing a backend can still overwrite each other (last write wins).
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/hizbtrack/internal/models"
	"github.com/mmynk/hizbtrack/internal/storage"
)

// Store owns the persisted group document.
type Store struct {
	backend storage.Backend
	key     string
	now     func() time.Time
	logger  *slog.Logger

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the blob name the document is stored under.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock sets the time source used for new members and the current month.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a Store on top of backend.
func New(backend storage.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the stored document. If nothing has been stored yet, or the
// stored blob cannot be decoded, the seed document is returned without being
// persisted.
func (s *Store) Load(ctx context.Context) (*models.GroupData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Save overwrites the stored document with doc. doc is normalized first, so
// it compares equal to what a later Load returns.
func (s *Store) Save(ctx context.Context, doc *models.GroupData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, doc)
}

// AddMember appends a new member with zero progress and returns the updated
// document. The member's color is taken from the palette by current member
// count. Names are not required to be unique.
func (s *Store) AddMember(ctx context.Context, name string) (*models.GroupData, error) {
	return s.mutate(ctx, "AddMember", func(doc *models.GroupData) {
		member := models.Member{
			ID:          s.newMemberID(doc),
			Name:        name,
			AvatarColor: colorFor(len(doc.Members)),
			TotalUnits:  doc.TotalUnits,
		}
		doc.Members = append(doc.Members, member)
		s.logger.Debug("Member added", "member_id", member.ID, "name", name)
	})
}

// RemoveMember deletes the member with the given ID and returns the updated
// document. An unknown ID leaves the member list unchanged; the document is
// still written back.
func (s *Store) RemoveMember(ctx context.Context, id string) (*models.GroupData, error) {
	return s.mutate(ctx, "RemoveMember", func(doc *models.GroupData) {
		i := doc.FindMember(id)
		if i < 0 {
			s.logger.Debug("RemoveMember: member not found", "member_id", id)
			return
		}
		doc.Members = append(doc.Members[:i], doc.Members[i+1:]...)
	})
}

// UpdateProgress records progress for a member and returns the updated
// document.
//
// With an empty month the member's current total is set to completedUnits
// and the entry for the current calendar month is set to the same value.
// With a month ("YYYY-MM") only that month's entry is set; the current total
// is left alone so past months can be back-filled.
//
// The value is stored as given. Range checks belong to the caller. An unknown
// ID leaves the document unchanged; it is still written back.
func (s *Store) UpdateProgress(ctx context.Context, id string, completedUnits int, month string) (*models.GroupData, error) {
	return s.mutate(ctx, "UpdateProgress", func(doc *models.GroupData) {
		member, ok := doc.Member(id)
		if !ok {
			s.logger.Debug("UpdateProgress: member not found", "member_id", id)
			return
		}

		if month == "" {
			member.CompletedUnits = completedUnits
			member.History.Set(models.MonthOf(s.now()), completedUnits)
			return
		}
		member.History.Set(month, completedUnits)
	})
}

// mutate runs one load-apply-save cycle under the store lock.
func (s *Store) mutate(ctx context.Context, op string, apply func(doc *models.GroupData)) (*models.GroupData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	apply(doc)

	if err := s.save(ctx, doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return doc, nil
}

func (s *Store) load(ctx context.Context) (*models.GroupData, error) {
	data, err := s.backend.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return seedDocument(s.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load group document: %w", err)
	}

	doc := &models.GroupData{}
	err = json.Unmarshal(data, doc)
	if err == nil && doc.TotalUnits <= 0 {
		// Covers a stored "null" or "{}" as well.
		err = fmt.Errorf("group has %d total units", doc.TotalUnits)
	}
	if err != nil {
		s.logger.Warn("Stored group document is corrupt, using seed data",
			"key", s.key,
			"error", err,
		)
		return seedDocument(s.now()), nil
	}
	return doc, nil
}

func (s *Store) save(ctx context.Context, doc *models.GroupData) error {
	if doc == nil {
		return errors.New("cannot save nil group document")
	}
	doc.Normalize()

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode group document: %w", err)
	}
	if err := s.backend.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to save group document: %w", err)
	}
	return nil
}

// newMemberID returns a time-ordered UUID (v7), which embeds the creation
// timestamp, that is not already used in doc.
func (s *Store) newMemberID(doc *models.GroupData) string {
	for {
		id, err := uuid.NewV7()
		if err != nil {
			id = uuid.New()
		}
		if doc.FindMember(id.String()) < 0 {
			return id.String()
		}
	}
}
