package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/cabinworks/cabinbooks/internal/config"
	"github.com/cabinworks/cabinbooks/internal/expense"
	expensedomain "github.com/cabinworks/cabinbooks/internal/expense/domain"
	"github.com/cabinworks/cabinbooks/internal/invoice"
	invoicedomain "github.com/cabinworks/cabinbooks/internal/invoice/domain"
	"github.com/cabinworks/cabinbooks/internal/invoice/render"
	"github.com/cabinworks/cabinbooks/internal/job"
	jobdomain "github.com/cabinworks/cabinbooks/internal/job/domain"
	"github.com/cabinworks/cabinbooks/internal/observability"
	obslogger "github.com/cabinworks/cabinbooks/internal/observability/logger"
	obsmetrics "github.com/cabinworks/cabinbooks/internal/observability/metrics"
	"github.com/cabinworks/cabinbooks/internal/rate"
	ratedomain "github.com/cabinworks/cabinbooks/internal/rate/domain"
	"github.com/cabinworks/cabinbooks/internal/reporting"
	reportingdomain "github.com/cabinworks/cabinbooks/internal/reporting/domain"
)

var Module = fx.Module("http.server",
	rate.Module,
	job.Module,
	invoice.Module,
	expense.Module,
	reporting.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{Debug: obsCfg.Debug()}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(
		httpMetrics.Registry(),
		promhttp.HandlerOpts{},
	)))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.ListenAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type serverParams struct {
	fx.In

	Engine     *gin.Engine
	Company    *config.CompanyInfoHolder
	RateSvc    ratedomain.Service
	JobSvc     jobdomain.Service
	InvoiceSvc invoicedomain.Service
	ExpenseSvc expensedomain.Service
	ReportSvc  reportingdomain.Service
	Renderer   render.Renderer
}

type Server struct {
	engine     *gin.Engine
	company    *config.CompanyInfoHolder
	rateSvc    ratedomain.Service
	jobSvc     jobdomain.Service
	invoiceSvc invoicedomain.Service
	expenseSvc expensedomain.Service
	reportSvc  reportingdomain.Service
	renderer   render.Renderer
}

func NewServer(p serverParams) *Server {
	return &Server{
		engine:     p.Engine,
		company:    p.Company,
		rateSvc:    p.RateSvc,
		jobSvc:     p.JobSvc,
		invoiceSvc: p.InvoiceSvc,
		expenseSvc: p.ExpenseSvc,
		reportSvc:  p.ReportSvc,
		renderer:   p.Renderer,
	}
}

func (s *Server) RegisterRoutes() {
	v1 := s.engine.Group("/v1")

	rates := v1.Group("/rates")
	rates.GET("", s.ListRates)
	rates.POST("", s.CreateRate)
	rates.GET("/:id", s.GetRate)
	rates.PUT("/:id", s.UpdateRate)
	rates.DELETE("/:id", s.DeleteRate)

	jobs := v1.Group("/jobs")
	jobs.GET("", s.ListJobs)
	jobs.POST("", s.CreateJob)
	jobs.GET("/:id", s.GetJob)
	jobs.PUT("/:id", s.UpdateJob)
	jobs.DELETE("/:id", s.DeleteJob)

	invoices := v1.Group("/invoices")
	invoices.GET("", s.ListInvoices)
	invoices.POST("", s.CreateInvoice)
	invoices.GET("/next-number", s.NextInvoiceNumber)
	invoices.GET("/:id", s.GetInvoice)
	invoices.GET("/:id/pdf", s.RenderInvoicePDF)
	invoices.PATCH("/:id/status", s.UpdateInvoiceStatus)
	invoices.DELETE("/:id", s.DeleteInvoice)

	expenses := v1.Group("/expenses")
	expenses.GET("", s.ListExpenses)
	expenses.GET("/categories", s.ListExpenseCategories)
	expenses.POST("", s.CreateExpense)
	expenses.GET("/:id", s.GetExpense)
	expenses.PUT("/:id", s.UpdateExpense)
	expenses.DELETE("/:id", s.DeleteExpense)

	reports := v1.Group("/reports")
	reports.GET("/monthly", s.MonthlySummary)
	reports.GET("/today", s.TodaySummary)
	reports.GET("/invoice-status", s.InvoiceStatusCounts)
	reports.GET("/profit-series", s.ProfitSeries)

	v1.GET("/company", s.GetCompanyInfo)
}
