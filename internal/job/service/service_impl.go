package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/cabinworks/cabinbooks/internal/clock"
	"github.com/cabinworks/cabinbooks/internal/events"
	jobdomain "github.com/cabinworks/cabinbooks/internal/job/domain"
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
	Bus   events.Publisher
	Rates ratedomain.Service
}

type Service struct {
	mu sync.RWMutex

	log   *zap.Logger
	genID *snowflake.Node
	clk   clock.Clock
	store storage.Store
	bus   events.Publisher
	rates ratedomain.Service

	jobs []jobdomain.Job
}

func NewService(p ServiceParam) (jobdomain.Service, error) {
	s := &Service{
		log:   p.Log.Named("job.service"),
		genID: p.GenID,
		clk:   p.Clock,
		store: p.Store,
		bus:   p.Bus,
		rates: p.Rates,
	}
	if err := s.load(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) load(ctx context.Context) error {
	blob, ok, err := s.store.Get(ctx, storage.KeyJobs)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return json.Unmarshal(blob, &s.jobs)
}

func (s *Service) persist(ctx context.Context) error {
	blob, err := json.Marshal(s.jobs)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, storage.KeyJobs, blob)
}

// price computes the job total for its variant. The total is the only
// derived money field and is persisted, never re-derived on read.
func (s *Service) price(ctx context.Context, j *jobdomain.Job) error {
	switch j.Kind {
	case jobdomain.JobKindRated:
		total, err := s.rates.ComputeTotal(ctx, j.ServiceRef, j.Quantity)
		if err != nil {
			return err
		}
		j.Total = total
	case jobdomain.JobKindHourly:
		hours := j.EndTime.Sub(*j.StartTime).Hours()
		if hours < 0 {
			hours = 0
		}
		j.HoursWorked = money.Round2(hours)
		j.Total = money.Round2(j.HourlyRate * hours)
	}
	return nil
}

func (s *Service) Add(ctx context.Context, draft jobdomain.Job) (jobdomain.Job, error) {
	draft.ServiceRef = strings.TrimSpace(draft.ServiceRef)
	draft.ServiceName = strings.TrimSpace(draft.ServiceName)
	if err := draft.Validate(); err != nil {
		return jobdomain.Job{}, err
	}
	if err := s.price(ctx, &draft); err != nil {
		return jobdomain.Job{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft.ID = s.genID.Generate()
	draft.CreatedAt = s.clk.Now(ctx)

	s.jobs = append(s.jobs, draft)
	if err := s.persist(ctx); err != nil {
		s.jobs = s.jobs[:len(s.jobs)-1]
		return jobdomain.Job{}, err
	}

	s.log.Info("job added",
		zap.String("kind", string(draft.Kind)),
		zap.Float64("total", draft.Total),
	)
	return draft, nil
}

// Update recomputes the total and propagates the new snapshot to every
// invoice embedding this job.
func (s *Service) Update(ctx context.Context, job jobdomain.Job) (jobdomain.Job, error) {
	job.ServiceRef = strings.TrimSpace(job.ServiceRef)
	job.ServiceName = strings.TrimSpace(job.ServiceName)
	if err := job.Validate(); err != nil {
		return jobdomain.Job{}, err
	}
	if err := s.price(ctx, &job); err != nil {
		return jobdomain.Job{}, err
	}

	s.mu.Lock()
	idx := s.indexByID(job.ID)
	if idx < 0 {
		s.mu.Unlock()
		return jobdomain.Job{}, jobdomain.ErrNotFound
	}

	prev := s.jobs[idx]
	job.CreatedAt = prev.CreatedAt

	s.jobs[idx] = job
	if err := s.persist(ctx); err != nil {
		s.jobs[idx] = prev
		s.mu.Unlock()
		return jobdomain.Job{}, err
	}
	s.mu.Unlock()

	if err := s.bus.Publish(ctx, events.TopicJobUpdated, job); err != nil {
		return jobdomain.Job{}, err
	}
	return job, nil
}

// Delete removes the job and removes it from every invoice embedding it.
func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	s.mu.Lock()
	idx := s.indexByID(id)
	if idx < 0 {
		s.mu.Unlock()
		return jobdomain.ErrNotFound
	}

	removed := s.jobs[idx]
	s.jobs = append(s.jobs[:idx], s.jobs[idx+1:]...)
	if err := s.persist(ctx); err != nil {
		s.jobs = append(s.jobs[:idx], append([]jobdomain.Job{removed}, s.jobs[idx:]...)...)
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.log.Info("job deleted", zap.String("id", id.String()))
	return s.bus.Publish(ctx, events.TopicJobDeleted, id)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (jobdomain.Job, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexByID(id)
	if idx < 0 {
		return jobdomain.Job{}, jobdomain.ErrNotFound
	}
	return s.jobs[idx], nil
}

// List returns jobs in insertion order.
func (s *Service) List(ctx context.Context) ([]jobdomain.Job, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]jobdomain.Job, len(s.jobs))
	copy(out, s.jobs)
	return out, nil
}

func (s *Service) indexByID(id snowflake.ID) int {
	for i, j := range s.jobs {
		if j.ID == id {
			return i
		}
	}
	return -1
}
