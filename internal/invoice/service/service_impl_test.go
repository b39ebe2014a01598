package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cabinworks/cabinbooks/internal/clock"
	"github.com/cabinworks/cabinbooks/internal/events"
	invoicedomain "github.com/cabinworks/cabinbooks/internal/invoice/domain"
	jobdomain "github.com/cabinworks/cabinbooks/internal/job/domain"
	jobservice "github.com/cabinworks/cabinbooks/internal/job/service"
	ratedomain "github.com/cabinworks/cabinbooks/internal/rate/domain"
	rateservice "github.com/cabinworks/cabinbooks/internal/rate/service"
	"github.com/cabinworks/cabinbooks/internal/storage"
)

type testEnv struct {
	store    storage.Store
	clk      *clock.FakeClock
	rates    ratedomain.Service
	jobs     jobdomain.Service
	invoices invoicedomain.Service
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	store, err := storage.NewGormStore(conn)
	require.NoError(t, err)

	return buildEnv(t, store)
}

// buildEnv wires the three services over a shared store and bus, the
// same shape the fx graph produces.
func buildEnv(t *testing.T, store storage.Store) *testEnv {
	t.Helper()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	clk := clock.NewFakeClock(time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC))
	bus := events.NewBus(log)

	rates, err := rateservice.NewService(rateservice.ServiceParam{
		Log: log, GenID: node, Clock: clk, Store: store,
	})
	require.NoError(t, err)

	jobs, err := jobservice.NewService(jobservice.ServiceParam{
		Log: log, GenID: node, Clock: clk, Store: store, Bus: bus, Rates: rates,
	})
	require.NoError(t, err)

	invoices, err := NewService(ServiceParam{
		Log: log, GenID: node, Clock: clk, Store: store, Bus: bus, Jobs: jobs,
	})
	require.NoError(t, err)

	return &testEnv{store: store, clk: clk, rates: rates, jobs: jobs, invoices: invoices}
}

func (e *testEnv) addRatedJob(t *testing.T, ctx context.Context, ref string, qty float64) jobdomain.Job {
	t.Helper()
	job, err := e.jobs.Add(ctx, jobdomain.Job{
		Kind:       jobdomain.JobKindRated,
		Date:       time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC),
		ServiceRef: ref,
		Quantity:   qty,
	})
	require.NoError(t, err)
	return job
}

func (e *testEnv) addHourlyJob(t *testing.T, ctx context.Context, name string, rate float64, hours time.Duration) jobdomain.Job {
	t.Helper()
	start := time.Date(2025, 8, 14, 9, 0, 0, 0, time.UTC)
	end := start.Add(hours)
	job, err := e.jobs.Add(ctx, jobdomain.Job{
		Kind:        jobdomain.JobKindHourly,
		Date:        time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC),
		ServiceName: name,
		HourlyRate:  rate,
		StartTime:   &start,
		EndTime:     &end,
	})
	require.NoError(t, err)
	return job
}

func TestCascade_JobEditAndDelete(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	_, err := env.rates.Add(ctx, ratedomain.RateEntry{
		Name: "Cedar Lodge", BaseRate: 70, IncrementalRate: 15,
	})
	require.NoError(t, err)

	rated := env.addRatedJob(t, ctx, "Cedar Lodge", 8)
	assert.Equal(t, 175.0, rated.Total)

	hourly := env.addHourlyJob(t, ctx, "Deep Clean", 25, 2*time.Hour)
	assert.Equal(t, 50.0, hourly.Total)
	assert.Equal(t, 2.0, hourly.HoursWorked)

	inv, err := env.invoices.Add(ctx, invoicedomain.CreateInvoiceRequest{
		Date:       time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC),
		ClientName: "Table Rock Rentals",
		JobIDs:     []snowflake.ID{rated.ID, hourly.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 225.0, inv.Total)
	assert.Len(t, inv.Jobs, 2)

	// Editing a job rewrites its embedded copy and the invoice total.
	rated.Quantity = 4
	updated, err := env.jobs.Update(ctx, rated)
	require.NoError(t, err)
	assert.Equal(t, 115.0, updated.Total)

	inv, err = env.invoices.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 165.0, inv.Total)
	assert.Equal(t, 115.0, inv.Jobs[0].Total)
	assert.Equal(t, 4.0, inv.Jobs[0].Quantity)

	// Deleting a job removes the embedded copy.
	require.NoError(t, env.jobs.Delete(ctx, hourly.ID))

	inv, err = env.invoices.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 115.0, inv.Total)
	assert.Len(t, inv.Jobs, 1)

	// The invoice survives losing its last job, at total zero.
	require.NoError(t, env.jobs.Delete(ctx, rated.ID))

	inv, err = env.invoices.Get(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, inv.Total)
	assert.Empty(t, inv.Jobs)
	assert.Equal(t, invoicedomain.InvoiceStatusPending, inv.Status)
}

func TestInvoiceNumbering(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	_, err := env.rates.Add(ctx, ratedomain.RateEntry{
		Name: "Cabin 1", BaseRate: 60, IncrementalRate: 5,
	})
	require.NoError(t, err)

	next, err := env.invoices.NextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2508001", next)

	req := invoicedomain.CreateInvoiceRequest{
		Date:       time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC),
		ClientName: "Lakeside Resort",
	}

	job := env.addRatedJob(t, ctx, "Cabin 1", 1)
	req.JobIDs = []snowflake.ID{job.ID}
	first, err := env.invoices.Add(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "2508001", first.Number)

	job = env.addRatedJob(t, ctx, "Cabin 1", 2)
	req.JobIDs = []snowflake.ID{job.ID}
	second, err := env.invoices.Add(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "2508002", second.Number)

	// The counter restarts when the month rolls over.
	env.clk.Set(time.Date(2025, 9, 2, 10, 0, 0, 0, time.UTC))

	job = env.addRatedJob(t, ctx, "Cabin 1", 3)
	req.JobIDs = []snowflake.ID{job.ID}
	third, err := env.invoices.Add(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "2509001", third.Number)
}

func TestUpdateStatus(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	_, err := env.rates.Add(ctx, ratedomain.RateEntry{
		Name: "Cabin 2", BaseRate: 75, IncrementalRate: 5,
	})
	require.NoError(t, err)

	job := env.addRatedJob(t, ctx, "Cabin 2", 3)
	inv, err := env.invoices.Add(ctx, invoicedomain.CreateInvoiceRequest{
		Date:       time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC),
		ClientName: "Branson Hills HOA",
		JobIDs:     []snowflake.ID{job.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusPending, inv.Status)

	paid, err := env.invoices.UpdateStatus(ctx, inv.ID, invoicedomain.InvoiceStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusPaid, paid.Status)
	assert.Equal(t, inv.Total, paid.Total)
	assert.Equal(t, inv.Number, paid.Number)
	assert.Len(t, paid.Jobs, 1)

	_, err = env.invoices.UpdateStatus(ctx, inv.ID, invoicedomain.InvoiceStatus("void"))
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidStatus)

	_, err = env.invoices.UpdateStatus(ctx, snowflake.ID(42), invoicedomain.InvoiceStatusPaid)
	assert.ErrorIs(t, err, invoicedomain.ErrNotFound)
}

func TestAddValidation(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	req := invoicedomain.CreateInvoiceRequest{
		Date:    time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
		DueDate: time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC),
		JobIDs:  []snowflake.ID{1},
	}

	_, err := env.invoices.Add(ctx, req)
	assert.ErrorIs(t, err, invoicedomain.ErrClientNameRequired)

	req.ClientName = "Someone"
	req.JobIDs = nil
	_, err = env.invoices.Add(ctx, req)
	assert.ErrorIs(t, err, invoicedomain.ErrNoJobs)

	req.JobIDs = []snowflake.ID{999}
	_, err = env.invoices.Add(ctx, req)
	assert.ErrorIs(t, err, invoicedomain.ErrJobNotFound)

	req.Date = time.Time{}
	_, err = env.invoices.Add(ctx, req)
	assert.ErrorIs(t, err, invoicedomain.ErrDateRequired)
}

func TestReloadFromStore(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	store, err := storage.NewGormStore(conn)
	require.NoError(t, err)

	env := buildEnv(t, store)
	ctx := context.Background()

	_, err = env.rates.Add(ctx, ratedomain.RateEntry{
		Name: "Cabin 5", BaseRate: 95, IncrementalRate: 5,
	})
	require.NoError(t, err)

	job := env.addRatedJob(t, ctx, "Cabin 5", 2)
	created, err := env.invoices.Add(ctx, invoicedomain.CreateInvoiceRequest{
		Date:       time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC),
		ClientName: "Ozark Stays",
		JobIDs:     []snowflake.ID{job.ID},
	})
	require.NoError(t, err)

	// A fresh service stack over the same store reconstructs the data
	// with typed dates intact.
	reloaded := buildEnv(t, store)

	got, err := reloaded.invoices.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Number, got.Number)
	assert.Equal(t, created.Total, got.Total)
	assert.True(t, created.Date.Equal(got.Date))
	assert.True(t, created.DueDate.Equal(got.DueDate))
	require.Len(t, got.Jobs, 1)
	assert.Equal(t, job.ID, got.Jobs[0].ID)
	assert.True(t, job.Date.Equal(got.Jobs[0].Date))
}
