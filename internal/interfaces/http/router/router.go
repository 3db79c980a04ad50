package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/warehouse/backend/internal/infrastructure/auth"
	"github.com/warehouse/backend/internal/infrastructure/logger"
	"github.com/warehouse/backend/internal/interfaces/http/handler"
	"github.com/warehouse/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the handlers wired into the router
type Handlers struct {
	PurchaseOrder *handler.PurchaseOrderHandler
	Receiving     *handler.ReceivingHandler
	Stock         *handler.StockHandler
	System        *handler.SystemHandler
}

// Config holds router configuration
type Config struct {
	Logger      *zap.Logger
	JWTService  *auth.JWTService
	CORSOrigins []string
	MaxBodySize int64
	EnableAuth  bool
	GinMode     string
}

// New builds the gin engine with the full middleware chain and all routes
func New(cfg Config, h Handlers) *gin.Engine {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(middleware.Secure())

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.CORSOrigins
	engine.Use(middleware.CORS(corsCfg))

	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	if cfg.EnableAuth && cfg.JWTService != nil {
		jwtCfg := middleware.DefaultJWTConfig(cfg.JWTService)
		jwtCfg.Logger = cfg.Logger
		engine.Use(middleware.JWTAuthWithConfig(jwtCfg))
	}

	engine.GET("/health", h.System.Health)

	api := engine.Group("/api/v1")
	{
		orders := api.Group("/purchase-orders")
		{
			orders.POST("", h.PurchaseOrder.Create)
			orders.GET("", h.PurchaseOrder.List)
			orders.GET("/:id", h.PurchaseOrder.GetByID)
			orders.DELETE("/:id", h.PurchaseOrder.Delete)
			orders.POST("/:id/confirm", h.PurchaseOrder.Confirm)
			orders.POST("/:id/cancel", h.PurchaseOrder.Cancel)

			orders.POST("/:id/receive", h.Receiving.Receive)
			orders.GET("/:id/received-items", h.Receiving.GetReceivedItems)
			orders.GET("/:id/history", h.Receiving.GetHistory)
		}

		warehouses := api.Group("/warehouses")
		{
			warehouses.GET("/:id/stocks", h.Stock.ListStocks)
			warehouses.GET("/:id/instances", h.Stock.ListInstances)
		}

		api.GET("/instances/:serial", h.Stock.GetInstanceBySerial)
	}

	return engine
}
