package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gims/internal/core/apperror"
	"gims/internal/domain/reports"
)

// ReportsHandler handles report endpoints. Reports render as JSON by
// default and as CSV attachments with format=csv.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{BaseHandler: base, service: service}
}

// StockBalance handles GET /reports/stock-balance.
func (h *ReportsHandler) StockBalance(c *gin.Context) {
	rows, err := h.service.StockBalance(c.Request.Context(), c.Query("location"))
	if err != nil {
		h.Error(c, err)
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="stock-balance.csv"`)
		if err := h.service.WriteBalanceCSV(c.Writer, rows); err != nil {
			h.Error(c, err)
		}
		return
	}

	h.OK(c, gin.H{"items": rows})
}

// Movements handles GET /reports/movements.
func (h *ReportsHandler) Movements(c *gin.Context) {
	from, ok := h.parseDate(c, "from")
	if !ok {
		return
	}
	to, ok := h.parseDate(c, "to")
	if !ok {
		return
	}

	rows, err := h.service.Movements(c.Request.Context(), from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="movements.csv"`)
		if err := h.service.WriteMovementsCSV(c.Writer, rows); err != nil {
			h.Error(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": rows})
}

func (h *ReportsHandler) parseDate(c *gin.Context, key string) (time.Time, bool) {
	val := c.Query(key)
	if val == "" {
		h.Error(c, apperror.NewValidation(key+" date is required").WithDetail("field", key))
		return time.Time{}, false
	}
	parsed, err := time.Parse(time.DateOnly, val)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid "+key+" date, expected YYYY-MM-DD").
			WithDetail("value", val))
		return time.Time{}, false
	}
	return parsed, true
}
