package handlers

import (
	"github.com/gin-gonic/gin"

	"gims/internal/core/id"
	"gims/internal/domain/catalogs/stockitem"
)

// StockItemHandler handles stock item catalog endpoints.
type StockItemHandler struct {
	*CatalogHandler[*stockitem.StockItem]
	service *stockitem.Service
}

// NewStockItemHandler creates a new stock item handler.
func NewStockItemHandler(base *BaseHandler, service *stockitem.Service) *StockItemHandler {
	return &StockItemHandler{
		CatalogHandler: NewCatalogHandler[*stockitem.StockItem](
			base,
			service,
			"stock item",
			func() *stockitem.StockItem { return stockitem.NewStockItem("", "") },
			func(item *stockitem.StockItem, itemID id.ID) { item.ID = itemID },
		),
		service: service,
	}
}

// GetByNacCode handles GET /catalog/stock-items/by-nac-code/:nacCode.
func (h *StockItemHandler) GetByNacCode(c *gin.Context) {
	item, err := h.service.GetByNacCode(c.Request.Context(), c.Param("nacCode"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}
