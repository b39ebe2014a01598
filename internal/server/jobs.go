package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	jobdomain "github.com/cabinworks/cabinbooks/internal/job/domain"
)

type jobRequest struct {
	Kind  jobdomain.JobKind `json:"kind"`
	Date  time.Time         `json:"date"`
	Notes string            `json:"notes"`

	ServiceRef string  `json:"serviceRef"`
	Quantity   float64 `json:"quantity"`

	ServiceName string     `json:"serviceName"`
	HourlyRate  float64    `json:"hourlyRate"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
}

func (r jobRequest) toDraft() jobdomain.Job {
	return jobdomain.Job{
		Kind:        r.Kind,
		Date:        r.Date,
		Notes:       r.Notes,
		ServiceRef:  r.ServiceRef,
		Quantity:    r.Quantity,
		ServiceName: r.ServiceName,
		HourlyRate:  r.HourlyRate,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
	}
}

func (s *Server) ListJobs(c *gin.Context) {
	jobs, err := s.jobSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": jobs})
}

func (s *Server) CreateJob(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, badRequest("invalid_request", "invalid request body"))
		return
	}

	created, err := s.jobSvc.Add(c.Request.Context(), req.toDraft())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (s *Server) GetJob(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	found, err := s.jobSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": found})
}

func (s *Server) UpdateJob(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, badRequest("invalid_request", "invalid request body"))
		return
	}

	draft := req.toDraft()
	draft.ID = id

	updated, err := s.jobSvc.Update(c.Request.Context(), draft)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

func (s *Server) DeleteJob(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.jobSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
