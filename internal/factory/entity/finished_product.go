package entity

import (
	"time"
)

// FinishedProduct 完工成品记录
// 备货订单完工时生成，一单一条
type FinishedProduct struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderID      string    `json:"order_id" gorm:"type:uuid;not null;index"`
	OrderNo      string    `json:"order_no" gorm:"size:50"`
	ProductName  string    `json:"product_name" gorm:"size:128;not null"`
	Quantity     int       `json:"quantity" gorm:"not null"`
	UnitCost     float64   `json:"unit_cost" gorm:"type:decimal(12,2);default:0"`
	SellingPrice float64   `json:"selling_price" gorm:"type:decimal(12,2);not null"`
	TotalValue   float64   `json:"total_value" gorm:"type:decimal(12,2);default:0"`
	PhotoURL     string    `json:"photo_url" gorm:"size:512"`
	ProducedAt   time.Time `json:"produced_at"`
	CreatedBy    string    `json:"created_by" gorm:"size:64"`
	CreatedAt    time.Time `json:"created_at"`
}

func (FinishedProduct) TableName() string {
	return "factory_finished_products"
}
