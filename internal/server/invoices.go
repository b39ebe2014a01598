package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	invoicedomain "github.com/cabinworks/cabinbooks/internal/invoice/domain"
)

func (s *Server) ListInvoices(c *gin.Context) {
	invoices, err := s.invoiceSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invoices})
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req invoicedomain.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, badRequest("invalid_request", "invalid request body"))
		return
	}

	created, err := s.invoiceSvc.Add(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (s *Server) NextInvoiceNumber(c *gin.Context) {
	number, err := s.invoiceSvc.NextNumber(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"number": number}})
}

func (s *Server) GetInvoice(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	inv, err := s.invoiceSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

type updateStatusRequest struct {
	Status invoicedomain.InvoiceStatus `json:"status"`
}

func (s *Server) UpdateInvoiceStatus(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, badRequest("invalid_request", "invalid request body"))
		return
	}

	inv, err := s.invoiceSvc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.invoiceSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) RenderInvoicePDF(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	inv, err := s.invoiceSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.renderer.RenderInvoice(c.Request.Context(), inv, s.company.Current())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	pdf, err := io.ReadAll(doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", inv.Number))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
