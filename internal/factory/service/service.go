package service

import (
	"github.com/craftwood/sofa-erp/internal/config"
	"github.com/craftwood/sofa-erp/internal/factory/repository"
	"github.com/craftwood/sofa-erp/internal/shared/notify"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services 业务服务集合
type Services struct {
	Auth       *AuthService
	Material   *MaterialService
	Model      *ModelService
	Order      *OrderService
	Sale       *SaleService
	Production *ProductionService
	Stock      *StockService
	Report     *ReportService
}

func NewServices(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client, cfg *config.Config, notifier notify.Notifier, logger *zap.Logger) *Services {
	stockSvc := NewStockService(repos.Material, repos.Model, repos.Stock, db, logger)
	return &Services{
		Auth:       NewAuthService(repos.User, rdb, cfg.JWT, logger),
		Material:   NewMaterialService(repos.Material, stockSvc),
		Model:      NewModelService(repos.Model),
		Order:      NewOrderService(repos.Order, repos.Model, stockSvc, db, notifier, logger),
		Sale:       NewSaleService(repos.Sale, repos.Model, stockSvc, db),
		Production: NewProductionService(repos.Production, repos.Model, stockSvc, db),
		Stock:      stockSvc,
		Report:     NewReportService(db),
	}
}
