package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"gims/internal/core/apperror"
	"gims/internal/core/id"
	"gims/internal/domain"
	domainFilter "gims/internal/domain/filter"
	"gims/internal/infrastructure/http/v1/dto"
)

// CatalogService is the service surface the generic catalog handler
// drives. Entities serve as their own transfer objects; they carry
// json tags.
type CatalogService[T any] interface {
	Create(ctx context.Context, entity T) error
	GetByID(ctx context.Context, entityID id.ID) (T, error)
	Update(ctx context.Context, entity T) error
	Deactivate(ctx context.Context, entityID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[T], error)
}

// CatalogHandler provides generic HTTP handlers for catalog entities.
type CatalogHandler[T any] struct {
	*BaseHandler
	service    CatalogService[T]
	entityName string

	// newFn allocates the zero entity for JSON binding
	newFn func() T
	// setID stamps the path ID onto a bound entity before update
	setID func(entity T, entityID id.ID)
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T any](
	base *BaseHandler,
	service CatalogService[T],
	entityName string,
	newFn func() T,
	setID func(entity T, entityID id.ID),
) *CatalogHandler[T] {
	return &CatalogHandler[T]{
		BaseHandler: base,
		service:     service,
		entityName:  entityName,
		newFn:       newFn,
		setID:       setID,
	}
}

// ParseListFilter extracts the common list filter from query params.
func (h *BaseHandler) ParseListFilter(c *gin.Context, defaultOrder string) (domain.ListFilter, bool) {
	filter := domain.ListFilter{
		Search:     c.Query("search"),
		ActiveOnly: c.Query("activeOnly") == "true",
		OrderBy:    c.DefaultQuery("orderBy", defaultOrder),
		Limit:      h.ParseIntQuery(c, "limit", 50),
		Offset:     h.ParseIntQuery(c, "offset", 0),
	}

	if filterJSON := c.Query("filter"); filterJSON != "" {
		var advFilters []domainFilter.Item
		if err := json.Unmarshal([]byte(filterJSON), &advFilters); err != nil {
			h.Error(c, apperror.NewValidation("invalid filter format (json expected)"))
			return filter, false
		}
		filter.AdvancedFilters = advFilters
	}

	return filter, true
}

// List handles GET /{entity} - list with filtering and pagination.
func (h *CatalogHandler[T]) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter, ok := h.ParseListFilter(c, "")
	if !ok {
		return
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromListResult(result))
}

// Get handles GET /{entity}/:id - get single entity.
func (h *CatalogHandler[T]) Get(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	entity, err := h.service.GetByID(ctx, entityID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, entity)
}

// Create handles POST /{entity} - create new entity.
func (h *CatalogHandler[T]) Create(c *gin.Context) {
	ctx := c.Request.Context()

	entity := h.newFn()
	if !h.BindJSON(c, entity) {
		return
	}

	if err := h.service.Create(ctx, entity); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, entity)
}

// Update handles PUT /{entity}/:id - update existing entity.
func (h *CatalogHandler[T]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	entity := h.newFn()
	if !h.BindJSON(c, entity) {
		return
	}
	h.setID(entity, entityID)

	if err := h.service.Update(ctx, entity); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, entity)
}

// Delete handles DELETE /{entity}/:id - deactivate entity.
func (h *CatalogHandler[T]) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	entityID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(ctx, entityID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
