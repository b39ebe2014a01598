package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/cabinworks/cabinbooks/internal/clock"
	"github.com/cabinworks/cabinbooks/internal/events"
	invoicedomain "github.com/cabinworks/cabinbooks/internal/invoice/domain"
	"github.com/cabinworks/cabinbooks/internal/invoice/format"
	jobdomain "github.com/cabinworks/cabinbooks/internal/job/domain"
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
	Jobs  jobdomain.Service
}

type Service struct {
	mu sync.RWMutex

	log   *zap.Logger
	genID *snowflake.Node
	clk   clock.Clock
	store storage.Store
	jobs  jobdomain.Service

	invoices []invoicedomain.Invoice
}

func NewService(p ServiceParam) (invoicedomain.Service, error) {
	s := &Service{
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,
		clk:   p.Clock,
		store: p.Store,
		jobs:  p.Jobs,
	}
	if err := s.load(context.Background()); err != nil {
		return nil, err
	}

	p.Bus.Subscribe(events.TopicJobUpdated, s.onJobUpdated)
	p.Bus.Subscribe(events.TopicJobDeleted, s.onJobDeleted)
	return s, nil
}

func (s *Service) load(ctx context.Context) error {
	blob, ok, err := s.store.Get(ctx, storage.KeyInvoices)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return json.Unmarshal(blob, &s.invoices)
}

func (s *Service) persist(ctx context.Context) error {
	blob, err := json.Marshal(s.invoices)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, storage.KeyInvoices, blob)
}

// nextSeqLocked returns the next counter for the given year+month
// prefix. Called with at least a read lock held.
func (s *Service) nextSeqLocked(prefix string) int64 {
	var max int64
	for _, inv := range s.invoices {
		if seq, ok := format.Sequence(inv.Number, prefix); ok && seq > max {
			max = seq
		}
	}
	return max + 1
}

func (s *Service) NextNumber(ctx context.Context) (string, error) {
	now := s.clk.Now(ctx)

	s.mu.RLock()
	seq := s.nextSeqLocked(format.Prefix(now))
	s.mu.RUnlock()

	return format.InvoiceNumber(now, seq)
}

func (s *Service) Add(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	req.ClientName = strings.TrimSpace(req.ClientName)
	if req.ClientName == "" {
		return invoicedomain.Invoice{}, invoicedomain.ErrClientNameRequired
	}
	if req.Date.IsZero() || req.DueDate.IsZero() {
		return invoicedomain.Invoice{}, invoicedomain.ErrDateRequired
	}
	if len(req.JobIDs) == 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrNoJobs
	}

	// Snapshot the jobs by value before taking the lock. From here on
	// the embedded copies diverge from the job store except through the
	// edit/delete cascade.
	snapshots := make([]jobdomain.Job, 0, len(req.JobIDs))
	for _, id := range req.JobIDs {
		j, err := s.jobs.Get(ctx, id)
		if err != nil {
			return invoicedomain.Invoice{}, invoicedomain.ErrJobNotFound
		}
		snapshots = append(snapshots, j)
	}

	now := s.clk.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	number, err := format.InvoiceNumber(now, s.nextSeqLocked(format.Prefix(now)))
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	inv := invoicedomain.Invoice{
		ID:            s.genID.Generate(),
		Number:        number,
		Date:          req.Date,
		DueDate:       req.DueDate,
		ClientName:    req.ClientName,
		ClientAddress: req.ClientAddress,
		ClientCity:    req.ClientCity,
		ClientState:   req.ClientState,
		ClientZip:     req.ClientZip,
		Jobs:          snapshots,
		Status:        invoicedomain.InvoiceStatusPending,
		Total:         sumTotals(snapshots),
		CreatedAt:     now,
	}

	s.invoices = append(s.invoices, inv)
	if err := s.persist(ctx); err != nil {
		s.invoices = s.invoices[:len(s.invoices)-1]
		return invoicedomain.Invoice{}, err
	}

	s.log.Info("invoice created",
		zap.String("number", inv.Number),
		zap.Int("jobs", len(inv.Jobs)),
		zap.Float64("total", inv.Total),
	)
	return copyInvoice(inv), nil
}

// UpdateStatus mutates the status field only; jobs and total are
// untouched.
func (s *Service) UpdateStatus(ctx context.Context, id snowflake.ID, status invoicedomain.InvoiceStatus) (invoicedomain.Invoice, error) {
	if !status.Valid() {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(id)
	if idx < 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}

	prev := s.invoices[idx].Status
	s.invoices[idx].Status = status
	if err := s.persist(ctx); err != nil {
		s.invoices[idx].Status = prev
		return invoicedomain.Invoice{}, err
	}
	return copyInvoice(s.invoices[idx]), nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(id)
	if idx < 0 {
		return invoicedomain.ErrNotFound
	}

	removed := s.invoices[idx]
	s.invoices = append(s.invoices[:idx], s.invoices[idx+1:]...)
	if err := s.persist(ctx); err != nil {
		s.invoices = append(s.invoices[:idx], append([]invoicedomain.Invoice{removed}, s.invoices[idx:]...)...)
		return err
	}

	s.log.Info("invoice deleted", zap.String("number", removed.Number))
	return nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (invoicedomain.Invoice, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexByID(id)
	if idx < 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrNotFound
	}
	return copyInvoice(s.invoices[idx]), nil
}

func (s *Service) List(ctx context.Context) ([]invoicedomain.Invoice, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]invoicedomain.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		out = append(out, copyInvoice(inv))
	}
	return out, nil
}

// onJobUpdated replaces the embedded copy in every invoice containing
// the job and recomputes those invoices' totals.
func (s *Service) onJobUpdated(ctx context.Context, payload any) error {
	job, ok := payload.(jobdomain.Job)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for i := range s.invoices {
		for j := range s.invoices[i].Jobs {
			if s.invoices[i].Jobs[j].ID == job.ID {
				s.invoices[i].Jobs[j] = job
				s.invoices[i].Total = sumTotals(s.invoices[i].Jobs)
				changed = true
				break
			}
		}
	}
	if !changed {
		return nil
	}

	s.log.Info("invoice totals recomputed after job update",
		zap.String("job_id", job.ID.String()),
	)
	return s.persist(ctx)
}

// onJobDeleted removes the job from every invoice embedding it and
// recomputes those invoices' totals.
func (s *Service) onJobDeleted(ctx context.Context, payload any) error {
	id, ok := payload.(snowflake.ID)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for i := range s.invoices {
		jobs := s.invoices[i].Jobs
		kept := jobs[:0:0]
		for _, j := range jobs {
			if j.ID != id {
				kept = append(kept, j)
			}
		}
		if len(kept) != len(jobs) {
			s.invoices[i].Jobs = kept
			s.invoices[i].Total = sumTotals(kept)
			changed = true
		}
	}
	if !changed {
		return nil
	}

	s.log.Info("invoice totals recomputed after job delete",
		zap.String("job_id", id.String()),
	)
	return s.persist(ctx)
}

func (s *Service) indexByID(id snowflake.ID) int {
	for i, inv := range s.invoices {
		if inv.ID == id {
			return i
		}
	}
	return -1
}

func sumTotals(jobs []jobdomain.Job) float64 {
	var sum float64
	for _, j := range jobs {
		sum += j.Total
	}
	return money.Round2(sum)
}

// copyInvoice returns an independent copy; callers never see internal
// slices.
func copyInvoice(inv invoicedomain.Invoice) invoicedomain.Invoice {
	jobs := make([]jobdomain.Job, len(inv.Jobs))
	copy(jobs, inv.Jobs)
	inv.Jobs = jobs
	return inv
}
