package repository

import "gorm.io/gorm"

// Repositories 仓库集合
type Repositories struct {
	User       *UserRepository
	Material   *MaterialRepository
	Model      *ModelRepository
	Order      *OrderRepository
	Sale       *SaleRepository
	Production *ProductionRepository
	Stock      *StockRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:       NewUserRepository(db),
		Material:   NewMaterialRepository(db),
		Model:      NewModelRepository(db),
		Order:      NewOrderRepository(db),
		Sale:       NewSaleRepository(db),
		Production: NewProductionRepository(db),
		Stock:      NewStockRepository(db),
	}
}
