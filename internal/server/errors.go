package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	expensedomain "github.com/cabinworks/cabinbooks/internal/expense/domain"
	invoicedomain "github.com/cabinworks/cabinbooks/internal/invoice/domain"
	jobdomain "github.com/cabinworks/cabinbooks/internal/job/domain"
	ratedomain "github.com/cabinworks/cabinbooks/internal/rate/domain"
	reportingdomain "github.com/cabinworks/cabinbooks/internal/reporting/domain"
)

type errorPayload struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// BadRequestError marks handler-level parse failures (bad id, bad
// query param) as validation errors.
type BadRequestError struct {
	Code    string
	Message string
}

func (e *BadRequestError) Error() string { return e.Code }

func badRequest(code, message string) error {
	return &BadRequestError{Code: code, Message: message}
}

// ErrorHandlingMiddleware maps domain errors onto HTTP statuses. A
// rejected mutation never partially applies, so every error response
// describes a no-op.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

var validationErrs = []error{
	ratedomain.ErrNameRequired,
	ratedomain.ErrDuplicateName,
	ratedomain.ErrNegativeRate,
	ratedomain.ErrNegativeQuantity,
	ratedomain.ErrRateNotFound,
	jobdomain.ErrDateRequired,
	jobdomain.ErrInvalidKind,
	jobdomain.ErrServiceRefRequired,
	jobdomain.ErrInvalidQuantity,
	jobdomain.ErrServiceNameRequired,
	jobdomain.ErrInvalidHourlyRate,
	jobdomain.ErrTimeRangeRequired,
	jobdomain.ErrMixedVariant,
	invoicedomain.ErrClientNameRequired,
	invoicedomain.ErrDateRequired,
	invoicedomain.ErrNoJobs,
	invoicedomain.ErrInvalidStatus,
	invoicedomain.ErrJobNotFound,
	expensedomain.ErrDateRequired,
	expensedomain.ErrInvalidCategory,
	expensedomain.ErrInvalidAmount,
	reportingdomain.ErrInvalidMonth,
	reportingdomain.ErrInvalidRange,
}

var notFoundErrs = []error{
	ratedomain.ErrNotFound,
	jobdomain.ErrNotFound,
	invoicedomain.ErrNotFound,
	expensedomain.ErrNotFound,
}

func mapError(err error) (int, errorPayload) {
	var badReq *BadRequestError
	if errors.As(err, &badReq) {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Code:    badReq.Code,
			Message: badReq.Message,
		}
	}

	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return http.StatusBadRequest, errorPayload{
				Type:    "validation_error",
				Code:    v.Error(),
				Message: "validation error",
			}
		}
	}

	for _, nf := range notFoundErrs {
		if errors.Is(err, nf) {
			return http.StatusNotFound, errorPayload{
				Type:    "not_found",
				Code:    nf.Error(),
				Message: "not found",
			}
		}
	}

	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Code:    "internal_error",
		Message: "internal server error",
	}
}
