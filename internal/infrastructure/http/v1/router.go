// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"gims/internal/domain/approval"
	"gims/internal/domain/auth"
	"gims/internal/domain/catalogs/assettype"
	"gims/internal/domain/catalogs/borrowsource"
	"gims/internal/domain/catalogs/nacunit"
	"gims/internal/domain/catalogs/stockitem"
	"gims/internal/domain/documents/issue"
	"gims/internal/domain/documents/receive"
	"gims/internal/domain/documents/request"
	"gims/internal/domain/documents/rrp"
	"gims/internal/domain/metrics"
	"gims/internal/domain/reports"
	"gims/internal/infrastructure/files"
	"gims/internal/infrastructure/http/v1/handlers"
	"gims/internal/infrastructure/http/v1/middleware"
	"gims/internal/infrastructure/storage/postgres"
	"gims/internal/infrastructure/storage/postgres/catalog_repo"
	"gims/internal/infrastructure/storage/postgres/document_repo"
	"gims/internal/infrastructure/storage/postgres/metrics_repo"
	"gims/internal/infrastructure/storage/postgres/report_repo"
	"gims/pkg/logger"
	"gims/pkg/numerator"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager provides transactional query access for repositories
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Numerator for document number generation
	Numerator numerator.Generator

	// Auditor records approval transitions
	Auditor approval.Auditor

	// FileStore manages request attachment files
	FileStore *files.Store
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerCatalogRoutes(protected, cfg)
		registerDocumentRoutes(protected, cfg)
		registerMetricRoutes(protected, cfg)
		registerReportRoutes(protected, cfg)
		registerFileRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required)
	publicAuth := rg.Group("/auth")

	// Protected auth endpoints (JWT required)
	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- STOCK ITEMS ---
	{
		repo := catalog_repo.NewStockItemRepo(cfg.TxManager)
		service := stockitem.NewService(repo, cfg.TxManager)
		handler := handlers.NewStockItemHandler(baseHandler, service)
		group := catalogs.Group("/stock-items")
		group.GET("/by-nac-code/:nacCode", middleware.RequirePermission("catalog:stock_item:read"), handler.GetByNacCode)
		RegisterCatalogRoutes(group, handler, "catalog:stock_item")
	}

	// --- BORROW SOURCES ---
	{
		repo := catalog_repo.NewBorrowSourceRepo(cfg.TxManager)
		service := borrowsource.NewService(repo, cfg.TxManager)
		handler := handlers.NewBorrowSourceHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/borrow-sources"), handler, "catalog:borrow_source")
	}

	// --- NAC UNITS ---
	{
		repo := catalog_repo.NewNacUnitRepo(cfg.TxManager)
		service := nacunit.NewService(repo, cfg.TxManager)
		handler := handlers.NewNacUnitHandler(baseHandler, service)

		group := catalogs.Group("/nac-units")
		group.GET("", middleware.RequirePermission("catalog:nac_unit:read"), handler.ListAll)
		group.POST("", middleware.RequirePermission("catalog:nac_unit:update"), handler.Save)
		group.GET("/:nacCode", middleware.RequirePermission("catalog:nac_unit:read"), handler.List)
		group.GET("/:nacCode/default", middleware.RequirePermission("catalog:nac_unit:read"), handler.GetDefault)
		group.PUT("/:nacCode/default", middleware.RequirePermission("catalog:nac_unit:update"), handler.SetDefault)
		group.DELETE("/:nacCode/:unit", middleware.RequirePermission("catalog:nac_unit:delete"), handler.Delete)
	}

	// --- ASSET TYPES AND ASSETS ---
	{
		typeRepo := catalog_repo.NewAssetTypeRepo(cfg.TxManager)
		assetRepo := catalog_repo.NewAssetRepo(cfg.TxManager)
		service := assettype.NewService(typeRepo, assetRepo, cfg.TxManager)
		handler := handlers.NewAssetHandler(baseHandler, service)

		types := catalogs.Group("/asset-types")
		types.GET("/property-names", middleware.RequirePermission("catalog:asset_type:read"), handler.PropertyNames)
		types.GET("", middleware.RequirePermission("catalog:asset_type:read"), handler.ListTypes)
		types.POST("", middleware.RequirePermission("catalog:asset_type:create"), handler.CreateType)
		types.GET("/:id", middleware.RequirePermission("catalog:asset_type:read"), handler.GetType)
		types.PUT("/:id", middleware.RequirePermission("catalog:asset_type:update"), handler.UpdateType)
		types.DELETE("/:id", middleware.RequirePermission("catalog:asset_type:delete"), handler.DeleteType)

		assets := catalogs.Group("/assets")
		assets.GET("", middleware.RequirePermission("catalog:asset:read"), handler.ListAssets)
		assets.POST("", middleware.RequirePermission("catalog:asset:create"), handler.CreateAsset)
		assets.GET("/:id", middleware.RequirePermission("catalog:asset:read"), handler.GetAsset)
		assets.PUT("/:id", middleware.RequirePermission("catalog:asset:update"), handler.UpdateAsset)
		assets.DELETE("/:id", middleware.RequirePermission("catalog:asset:delete"), handler.DeleteAsset)
	}
}

// registerDocumentRoutes registers document endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	docsGroup := rg.Group("/document")
	baseHandler := handlers.NewBaseHandler()

	requestRepo := document_repo.NewRequestRepo(cfg.TxManager)
	receiveRepo := document_repo.NewReceiveRepo(cfg.TxManager)
	rrpRepo := document_repo.NewRrpRepo(cfg.TxManager)
	issueRepo := document_repo.NewIssueRepo(cfg.TxManager)
	stockRepo := catalog_repo.NewStockItemRepo(cfg.TxManager)

	engine := approval.NewEngine(requestRepo, receiveRepo, issueRepo, rrpRepo, stockRepo, cfg.TxManager, cfg.Auditor)
	approvalHandler := handlers.NewApprovalHandler(baseHandler, engine)

	receiveHandler := handlers.NewReceiveHandler(baseHandler, receive.NewService(receiveRepo, requestRepo, cfg.TxManager))

	// --- REQUESTS ---
	{
		service := request.NewService(requestRepo, cfg.TxManager, cfg.FileStore)
		handler := handlers.NewRequestHandler(baseHandler, service)
		group := docsGroup.Group("/requests")
		group.GET("/:id/receives", middleware.RequirePermission("document:receive:read"), receiveHandler.ListByRequest)
		RegisterDocumentRoutes(group, handler, "document:request",
			&ApprovalRoutePair{Approve: approvalHandler.ApproveRequest, Reject: approvalHandler.RejectRequest})
	}

	// --- RECEIVES ---
	{
		group := docsGroup.Group("/receives")
		group.POST("/:id/request-return", middleware.RequirePermission("document:receive:update"), receiveHandler.RequestReturn)
		group.POST("/:id/approve-return", middleware.RequirePermission("document:receive:approve"), approvalHandler.ApproveBorrowReturn)
		group.POST("/:id/reject-return", middleware.RequirePermission("document:receive:approve"), approvalHandler.RejectBorrowReturn)
		RegisterDocumentRoutes(group, receiveHandler, "document:receive",
			&ApprovalRoutePair{Approve: approvalHandler.ApproveReceive, Reject: approvalHandler.RejectReceive})
	}

	// --- RRP ---
	{
		service := rrp.NewService(rrpRepo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewRrpHandler(baseHandler, service)
		group := docsGroup.Group("/rrps")
		group.POST("/lines/:lineId/approve", middleware.RequirePermission("document:rrp:approve"), approvalHandler.ApproveRRPLine)
		group.POST("/lines/:lineId/reject", middleware.RequirePermission("document:rrp:approve"), approvalHandler.RejectRRPLine)
		RegisterDocumentRoutes(group, handler, "document:rrp", nil)
	}

	// --- ISSUES ---
	{
		service := issue.NewService(issueRepo, stockRepo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewIssueHandler(baseHandler, service)
		RegisterDocumentRoutes(docsGroup.Group("/issues"), handler, "document:issue",
			&ApprovalRoutePair{Approve: approvalHandler.ApproveIssue, Reject: approvalHandler.RejectIssue})
	}
}

// registerMetricRoutes registers lead-time prediction endpoints.
func registerMetricRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	repo := metrics_repo.NewMetricsRepo(cfg.TxManager)
	service := metrics.NewService(repo)
	handler := handlers.NewMetricsHandler(baseHandler, service)

	group := rg.Group("/metrics/lead-time")
	group.POST("/refresh", middleware.RequirePermission("metric:lead_time:refresh"), handler.RefreshAll)
	group.GET("/:nacCode", middleware.RequirePermission("metric:lead_time:read"), handler.Get)
	group.POST("/:nacCode/refresh", middleware.RequirePermission("metric:lead_time:refresh"), handler.Refresh)
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	repo := report_repo.NewReportRepo(cfg.TxManager)
	service := reports.NewService(repo)
	handler := handlers.NewReportsHandler(baseHandler, service)

	group := rg.Group("/reports")
	group.GET("/stock-balance", middleware.RequirePermission("report:stock:read"), handler.StockBalance)
	group.GET("/movements", middleware.RequirePermission("report:movements:read"), handler.Movements)
}

// registerFileRoutes registers attachment upload/download endpoints.
func registerFileRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.FileStore == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	handler := handlers.NewFilesHandler(baseHandler, cfg.FileStore)

	group := rg.Group("/files")
	group.POST("", middleware.RequirePermission("file:upload"), handler.Upload)
	group.GET("/:name", middleware.RequirePermission("file:read"), handler.Download)
}
