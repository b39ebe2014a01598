package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	expensedomain "github.com/cabinworks/cabinbooks/internal/expense/domain"
)

type expenseRequest struct {
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Receipt     string    `json:"receipt"`
}

func (r expenseRequest) toDraft() expensedomain.Expense {
	return expensedomain.Expense{
		Date:        r.Date,
		Category:    r.Category,
		Amount:      r.Amount,
		Description: r.Description,
		Receipt:     r.Receipt,
	}
}

func (s *Server) ListExpenses(c *gin.Context) {
	expenses, err := s.expenseSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": expenses})
}

func (s *Server) ListExpenseCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": expensedomain.Categories})
}

func (s *Server) CreateExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, badRequest("invalid_request", "invalid request body"))
		return
	}

	created, err := s.expenseSvc.Add(c.Request.Context(), req.toDraft())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (s *Server) GetExpense(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	found, err := s.expenseSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": found})
}

func (s *Server) UpdateExpense(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, badRequest("invalid_request", "invalid request body"))
		return
	}

	draft := req.toDraft()
	draft.ID = id

	updated, err := s.expenseSvc.Update(c.Request.Context(), draft)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

func (s *Server) DeleteExpense(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.expenseSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
