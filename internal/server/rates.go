package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	ratedomain "github.com/cabinworks/cabinbooks/internal/rate/domain"
)

type rateRequest struct {
	Name            string  `json:"name"`
	BaseRate        float64 `json:"baseRate"`
	IncrementalRate float64 `json:"incrementalRate"`
}

func (s *Server) ListRates(c *gin.Context) {
	entries, err := s.rateSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}

func (s *Server) CreateRate(c *gin.Context) {
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, badRequest("invalid_request", "invalid request body"))
		return
	}

	entry, err := s.rateSvc.Add(c.Request.Context(), ratedomain.RateEntry{
		Name:            req.Name,
		BaseRate:        req.BaseRate,
		IncrementalRate: req.IncrementalRate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": entry})
}

func (s *Server) GetRate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	entry, err := s.rateSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entry})
}

func (s *Server) UpdateRate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, badRequest("invalid_request", "invalid request body"))
		return
	}

	entry, err := s.rateSvc.Update(c.Request.Context(), ratedomain.RateEntry{
		ID:              id,
		Name:            req.Name,
		BaseRate:        req.BaseRate,
		IncrementalRate: req.IncrementalRate,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entry})
}

func (s *Server) DeleteRate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.rateSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (snowflake.ID, error) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, badRequest("invalid_id", "invalid id")
	}
	return id, nil
}
