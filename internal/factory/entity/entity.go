package entity

import "gorm.io/gorm"

// AutoMigrate 自动迁移所有工厂管理表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 基础数据
		&User{},
		&RawMaterial{},
		&SofaModel{},

		// 订单
		&Order{},
		&OrderBOMLine{},
		&OrderLabourLine{},
		&OrderMiscLine{},
		&OrderStatusLog{},

		// 成品与销售
		&FinishedProduct{},
		&Sale{},
		&SalePayment{},

		// 生产跟踪
		&Production{},

		// 库存流水
		&StockTransaction{},
	)
}
