package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) MonthlySummary(c *gin.Context) {
	month, err := intQuery(c, "month")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	year, err := intQuery(c, "year")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	summary, err := s.reportSvc.MonthlySummary(c.Request.Context(), time.Month(month), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (s *Server) TodaySummary(c *gin.Context) {
	summary, err := s.reportSvc.TodaySummary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": summary})
}

func (s *Server) InvoiceStatusCounts(c *gin.Context) {
	counts, err := s.reportSvc.InvoiceStatusCounts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": counts})
}

func (s *Server) ProfitSeries(c *gin.Context) {
	months := 6
	if raw := strings.TrimSpace(c.Query("months")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			AbortWithError(c, badRequest("invalid_months", "months must be an integer"))
			return
		}
		months = parsed
	}

	points, err := s.reportSvc.ProfitSeries(c.Request.Context(), months)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": points})
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, badRequest("missing_"+name, name+" is required")
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("invalid_"+name, name+" must be an integer")
	}
	return v, nil
}
