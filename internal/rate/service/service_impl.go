package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/cabinworks/cabinbooks/internal/clock"
	ratedomain "github.com/cabinworks/cabinbooks/internal/rate/domain"
	"github.com/cabinworks/cabinbooks/internal/storage"
	"github.com/cabinworks/cabinbooks/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Store storage.Store
}

type Service struct {
	mu sync.RWMutex

	log   *zap.Logger
	genID *snowflake.Node
	clk   clock.Clock
	store storage.Store

	entries []ratedomain.RateEntry
}

func NewService(p ServiceParam) (ratedomain.Service, error) {
	s := &Service{
		log:   p.Log.Named("rate.service"),
		genID: p.GenID,
		clk:   p.Clock,
		store: p.Store,
	}
	if err := s.load(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) load(ctx context.Context) error {
	blob, ok, err := s.store.Get(ctx, storage.KeyCabinRates)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return json.Unmarshal(blob, &s.entries)
}

// persist writes the full table. Callers hold the write lock.
func (s *Service) persist(ctx context.Context) error {
	blob, err := json.Marshal(s.entries)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, storage.KeyCabinRates, blob)
}

func (s *Service) Add(ctx context.Context, draft ratedomain.RateEntry) (ratedomain.RateEntry, error) {
	draft.Name = strings.TrimSpace(draft.Name)
	if err := draft.Validate(); err != nil {
		return ratedomain.RateEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexByName(draft.Name) >= 0 {
		return ratedomain.RateEntry{}, ratedomain.ErrDuplicateName
	}

	now := s.clk.Now(ctx)
	draft.ID = s.genID.Generate()
	draft.CreatedAt = now
	draft.UpdatedAt = now
	draft.BaseRate = money.Round2(draft.BaseRate)
	draft.IncrementalRate = money.Round2(draft.IncrementalRate)

	s.entries = append(s.entries, draft)
	if err := s.persist(ctx); err != nil {
		s.entries = s.entries[:len(s.entries)-1]
		return ratedomain.RateEntry{}, err
	}

	s.log.Info("rate added", zap.String("name", draft.Name))
	return draft, nil
}

func (s *Service) Update(ctx context.Context, entry ratedomain.RateEntry) (ratedomain.RateEntry, error) {
	entry.Name = strings.TrimSpace(entry.Name)
	if err := entry.Validate(); err != nil {
		return ratedomain.RateEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(entry.ID)
	if idx < 0 {
		return ratedomain.RateEntry{}, ratedomain.ErrNotFound
	}
	if other := s.indexByName(entry.Name); other >= 0 && other != idx {
		return ratedomain.RateEntry{}, ratedomain.ErrDuplicateName
	}

	prev := s.entries[idx]
	entry.CreatedAt = prev.CreatedAt
	entry.UpdatedAt = s.clk.Now(ctx)
	entry.BaseRate = money.Round2(entry.BaseRate)
	entry.IncrementalRate = money.Round2(entry.IncrementalRate)

	s.entries[idx] = entry
	if err := s.persist(ctx); err != nil {
		s.entries[idx] = prev
		return ratedomain.RateEntry{}, err
	}
	return entry, nil
}

// Delete removes the entry. Jobs referencing the name keep their
// frozen totals; the reference is weak by design.
func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(id)
	if idx < 0 {
		return ratedomain.ErrNotFound
	}

	removed := s.entries[idx]
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	if err := s.persist(ctx); err != nil {
		s.entries = append(s.entries[:idx], append([]ratedomain.RateEntry{removed}, s.entries[idx:]...)...)
		return err
	}

	s.log.Info("rate deleted", zap.String("name", removed.Name))
	return nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (ratedomain.RateEntry, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexByID(id)
	if idx < 0 {
		return ratedomain.RateEntry{}, ratedomain.ErrNotFound
	}
	return s.entries[idx], nil
}

func (s *Service) GetByName(ctx context.Context, name string) (ratedomain.RateEntry, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexByName(strings.TrimSpace(name))
	if idx < 0 {
		return ratedomain.RateEntry{}, ratedomain.ErrRateNotFound
	}
	return s.entries[idx], nil
}

func (s *Service) List(ctx context.Context) ([]ratedomain.RateEntry, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ratedomain.RateEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

func (s *Service) ComputeTotal(ctx context.Context, serviceRef string, quantity float64) (float64, error) {
	if quantity < 0 {
		return 0, ratedomain.ErrNegativeQuantity
	}

	entry, err := s.GetByName(ctx, serviceRef)
	if err != nil {
		return 0, err
	}

	// First unit is covered by the base rate.
	total := entry.BaseRate
	if quantity > 1 {
		total += entry.IncrementalRate * (quantity - 1)
	}
	return money.Round2(total), nil
}

// indexByID and indexByName are called with the lock held.
func (s *Service) indexByID(id snowflake.ID) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) indexByName(name string) int {
	for i, e := range s.entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}
