package entity

import (
	"time"
)

// RawMaterial 原材料
// 库存数量只允许通过 StockService 变动
type RawMaterial struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code      string     `json:"code" gorm:"size:64;uniqueIndex"`
	Name      string     `json:"name" gorm:"size:128;not null"`
	Unit      string     `json:"unit" gorm:"size:20;not null;default:pcs"`
	Quantity  float64    `json:"quantity" gorm:"type:decimal(12,4);not null;default:0"`
	UnitCost  float64    `json:"unit_cost" gorm:"type:decimal(12,2);default:0"`
	MinStock  float64    `json:"min_stock" gorm:"type:decimal(12,4);default:0"`
	Notes     string     `json:"notes" gorm:"type:text"`
	CreatedBy string     `json:"created_by" gorm:"size:64"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" gorm:"index"`
}

func (RawMaterial) TableName() string {
	return "factory_raw_materials"
}

// IsLowStock 是否低于最小库存
func (m RawMaterial) IsLowStock() bool {
	return m.MinStock > 0 && m.Quantity < m.MinStock
}
