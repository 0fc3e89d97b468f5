package entity

import (
	"time"
)

// SofaModel 沙发型号（成品）
// StockQty 由备货订单完工入库加、销售审批出库减，均经 StockService
type SofaModel struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name         string     `json:"name" gorm:"size:128;not null;uniqueIndex"`
	MaterialCost float64    `json:"material_cost" gorm:"type:decimal(12,2);default:0"`
	LabourCost   float64    `json:"labour_cost" gorm:"type:decimal(12,2);default:0"`
	OtherCost    float64    `json:"other_cost" gorm:"type:decimal(12,2);default:0"`
	SellingPrice float64    `json:"selling_price" gorm:"type:decimal(12,2);default:0"`
	StockQty     int        `json:"stock_qty" gorm:"default:0"`
	PhotoURL     string     `json:"photo_url" gorm:"size:512"`
	Notes        string     `json:"notes" gorm:"type:text"`
	CreatedBy    string     `json:"created_by" gorm:"size:64"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" gorm:"index"`
}

func (SofaModel) TableName() string {
	return "factory_sofa_models"
}
