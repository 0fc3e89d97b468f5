package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/craftwood/sofa-erp/internal/factory/service"
	"github.com/craftwood/sofa-erp/internal/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RouterDeps 路由依赖
type RouterDeps struct {
	Services  *service.Services
	Uploader  *UploadHandler
	DB        *gorm.DB
	Redis     *redis.Client
	JWTSecret string
	Logger    *zap.Logger
	Version   string
	BuildTime string
}

// NewRouter 组装全部路由
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	registerHealth(r, deps)

	authH := NewAuthHandler(deps.Services.Auth)
	orderH := NewOrderHandler(deps.Services.Order)
	materialH := NewMaterialHandler(deps.Services.Material)
	modelH := NewModelHandler(deps.Services.Model)
	saleH := NewSaleHandler(deps.Services.Sale)
	prodH := NewProductionHandler(deps.Services.Production)
	stockH := NewStockHandler(deps.Services.Stock)
	reportH := NewReportHandler(deps.Services.Report)

	api := r.Group("/api/v1")

	// 无需登录
	auth := api.Group("/auth")
	{
		auth.POST("/login", authH.Login)
		auth.POST("/refresh", authH.Refresh)
		auth.POST("/logout", authH.Logout)
	}

	// 登录后可用
	authed := api.Group("")
	authed.Use(middleware.JWTAuth(deps.JWTSecret))
	{
		authed.GET("/auth/me", authH.Me)

		orders := authed.Group("/orders")
		{
			orders.POST("", orderH.Create)
			orders.GET("", orderH.List)
			orders.GET("/:id", orderH.Get)
			orders.POST("/:id/approve", orderH.Approve)
			orders.POST("/:id/cancel", orderH.Cancel)
			orders.POST("/:id/start-production", orderH.StartProduction)
			orders.POST("/:id/complete", orderH.Complete)
			orders.POST("/:id/ready", orderH.MarkReady)
			orders.POST("/:id/deliver", orderH.Deliver)
		}

		materials := authed.Group("/materials")
		{
			materials.POST("", materialH.Create)
			materials.GET("", materialH.List)
			materials.GET("/alerts", materialH.Alerts)
			materials.GET("/:id", materialH.Get)
			materials.PUT("/:id", materialH.Update)
			materials.DELETE("/:id", materialH.Delete)
			materials.POST("/:id/adjust", materialH.Adjust)
			materials.POST("/:id/inbound", materialH.Inbound)
		}

		models := authed.Group("/sofa-models")
		{
			models.POST("", modelH.Create)
			models.GET("", modelH.List)
			models.GET("/:id", modelH.Get)
			models.PUT("/:id", modelH.Update)
		}
		authed.GET("/finished-products", modelH.FinishedProducts)

		sales := authed.Group("/sales")
		{
			sales.POST("", saleH.Create)
			sales.GET("", saleH.List)
			sales.GET("/:id", saleH.Get)
			sales.POST("/:id/approve", saleH.Approve)
			sales.POST("/:id/reject", saleH.Reject)
			sales.POST("/:id/payments", saleH.RecordPayment)
		}

		productions := authed.Group("/productions")
		{
			productions.POST("", prodH.Create)
			productions.GET("", prodH.List)
			productions.GET("/:id", prodH.Get)
			productions.POST("/:id/start", prodH.Start)
			productions.POST("/:id/complete", prodH.Complete)
			productions.POST("/:id/cancel", prodH.Cancel)
		}

		authed.GET("/stock/transactions", stockH.Transactions)

		reports := authed.Group("/reports")
		{
			reports.GET("/stock.xlsx", reportH.ExportStock)
			reports.GET("/sales.xlsx", reportH.ExportSales)
		}

		if deps.Uploader != nil {
			authed.POST("/upload", deps.Uploader.Upload)
		}
	}

	return r
}

func registerHealth(r *gin.Engine, deps RouterDeps) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if deps.DB != nil {
			sqlDB, err := deps.DB.DB()
			if err != nil || sqlDB.PingContext(ctx) != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
				return
			}
		}
		if deps.Redis != nil {
			if err := deps.Redis.Ping(ctx).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    deps.Version,
			"build_time": deps.BuildTime,
		})
	})
}
