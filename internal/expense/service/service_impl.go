package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/cabinworks/cabinbooks/internal/clock"
	expensedomain "github.com/cabinworks/cabinbooks/internal/expense/domain"
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

	expenses []expensedomain.Expense
}

func NewService(p ServiceParam) (expensedomain.Service, error) {
	s := &Service{
		log:   p.Log.Named("expense.service"),
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
	blob, ok, err := s.store.Get(ctx, storage.KeyExpenses)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return json.Unmarshal(blob, &s.expenses)
}

func (s *Service) persist(ctx context.Context) error {
	blob, err := json.Marshal(s.expenses)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, storage.KeyExpenses, blob)
}

func (s *Service) Add(ctx context.Context, draft expensedomain.Expense) (expensedomain.Expense, error) {
	if err := draft.Validate(); err != nil {
		return expensedomain.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft.ID = s.genID.Generate()
	draft.CreatedAt = s.clk.Now(ctx)
	draft.Amount = money.Round2(draft.Amount)

	s.expenses = append(s.expenses, draft)
	if err := s.persist(ctx); err != nil {
		s.expenses = s.expenses[:len(s.expenses)-1]
		return expensedomain.Expense{}, err
	}

	s.log.Info("expense added",
		zap.String("category", draft.Category),
		zap.Float64("amount", draft.Amount),
	)
	return draft, nil
}

func (s *Service) Update(ctx context.Context, expense expensedomain.Expense) (expensedomain.Expense, error) {
	if err := expense.Validate(); err != nil {
		return expensedomain.Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(expense.ID)
	if idx < 0 {
		return expensedomain.Expense{}, expensedomain.ErrNotFound
	}

	prev := s.expenses[idx]
	expense.CreatedAt = prev.CreatedAt
	expense.Amount = money.Round2(expense.Amount)

	s.expenses[idx] = expense
	if err := s.persist(ctx); err != nil {
		s.expenses[idx] = prev
		return expensedomain.Expense{}, err
	}
	return expense, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(id)
	if idx < 0 {
		return expensedomain.ErrNotFound
	}

	removed := s.expenses[idx]
	s.expenses = append(s.expenses[:idx], s.expenses[idx+1:]...)
	if err := s.persist(ctx); err != nil {
		s.expenses = append(s.expenses[:idx], append([]expensedomain.Expense{removed}, s.expenses[idx:]...)...)
		return err
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (expensedomain.Expense, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexByID(id)
	if idx < 0 {
		return expensedomain.Expense{}, expensedomain.ErrNotFound
	}
	return s.expenses[idx], nil
}

func (s *Service) List(ctx context.Context) ([]expensedomain.Expense, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]expensedomain.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out, nil
}

func (s *Service) indexByID(id snowflake.ID) int {
	for i, e := range s.expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}
