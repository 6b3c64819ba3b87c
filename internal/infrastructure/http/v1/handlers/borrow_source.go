package handlers

import (
	"gims/internal/core/id"
	"gims/internal/domain/catalogs/borrowsource"
)

// BorrowSourceHandler handles borrow source catalog endpoints.
type BorrowSourceHandler = CatalogHandler[*borrowsource.BorrowSource]

// NewBorrowSourceHandler creates a new borrow source handler.
func NewBorrowSourceHandler(base *BaseHandler, service *borrowsource.Service) *BorrowSourceHandler {
	return NewCatalogHandler[*borrowsource.BorrowSource](
		base,
		service,
		"borrow source",
		func() *borrowsource.BorrowSource { return borrowsource.NewBorrowSource("") },
		func(source *borrowsource.BorrowSource, sourceID id.ID) { source.ID = sourceID },
	)
}
