// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"gims/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
// All catalog handlers must implement these methods.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// DocumentRouteHandler defines the interface for document handlers.
// All document handlers must implement these methods.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// ApprovalRoutePair is an optional pair of approve/reject handlers
// registered alongside a document's CRUD routes.
type ApprovalRoutePair struct {
	Approve gin.HandlerFunc
	Reject  gin.HandlerFunc
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
// This eliminates the need to manually wire up routes for each catalog.
//
// Usage:
//
//	repo := catalog_repo.NewStockItemRepo(cfg.TxManager)
//	service := stockitem.NewService(repo, cfg.TxManager)
//	handler := handlers.NewStockItemHandler(baseHandler, service)
//	RegisterCatalogRoutes(catalogs.Group("/stock-items"), handler, "catalog:stock_item")
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, permission string) {
	group.GET("", middleware.RequirePermission(permission+":read"), handler.List)
	group.POST("", middleware.RequirePermission(permission+":create"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(permission+":read"), handler.Get)
	group.PUT("/:id", middleware.RequirePermission(permission+":update"), handler.Update)
	group.DELETE("/:id", middleware.RequirePermission(permission+":delete"), handler.Delete)
}

// RegisterDocumentRoutes registers standard CRUD routes for a document,
// plus approve/reject transitions when an approval pair is provided.
//
// Usage:
//
//	repo := document_repo.NewRequestRepo(cfg.TxManager)
//	service := request.NewService(repo, cfg.TxManager, cfg.FileStore)
//	handler := handlers.NewRequestHandler(baseHandler, service)
//	RegisterDocumentRoutes(docs.Group("/requests"), handler, "document:request",
//		&ApprovalRoutePair{Approve: approvalHandler.ApproveRequest, Reject: approvalHandler.RejectRequest})
func RegisterDocumentRoutes(group *gin.RouterGroup, handler DocumentRouteHandler, permission string, approval *ApprovalRoutePair) {
	group.GET("", middleware.RequirePermission(permission+":read"), handler.List)
	group.POST("", middleware.RequirePermission(permission+":create"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(permission+":read"), handler.Get)
	group.PUT("/:id", middleware.RequirePermission(permission+":update"), handler.Update)
	group.DELETE("/:id", middleware.RequirePermission(permission+":delete"), handler.Delete)

	if approval != nil {
		group.POST("/:id/approve", middleware.RequirePermission(permission+":approve"), approval.Approve)
		group.POST("/:id/reject", middleware.RequirePermission(permission+":approve"), approval.Reject)
	}
}
