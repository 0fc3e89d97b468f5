package entity

import (
	"time"
)

// StockItemType 库存条目类型
const (
	StockItemRaw      = "RAW" // 原材料
	StockItemFinished = "FG"  // 成品
)

// StockTxType 库存流水类型
const (
	StockTxProductionOut = "PRODUCTION_OUT" // 生产领料
	StockTxProductionIn  = "PRODUCTION_IN"  // 完工入库
	StockTxSalesOut      = "SALES_OUT"      // 销售出库
	StockTxPurchaseIn    = "PURCHASE_IN"    // 采购入库
	StockTxAdjust        = "ADJUST"         // 盘点调整
)

// StockTransaction 库存流水
// 所有经 StockService 的库存变动都落一条流水，正数入库负数出库
type StockTransaction struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ItemType      string    `json:"item_type" gorm:"size:10;not null;index"`
	ItemID        string    `json:"item_id" gorm:"type:uuid;not null;index"`
	ItemName      string    `json:"item_name" gorm:"size:128"`
	TxType        string    `json:"tx_type" gorm:"size:20;not null"`
	Quantity      float64   `json:"quantity" gorm:"type:decimal(12,4);not null"`
	ReferenceType string    `json:"reference_type" gorm:"size:20;not null"` // ORDER, SALE, PRODUCTION, MANUAL
	ReferenceID   string    `json:"reference_id" gorm:"size:64"`
	ReferenceNo   string    `json:"reference_no" gorm:"size:50"`
	Notes         string    `json:"notes" gorm:"type:text"`
	CreatedBy     string    `json:"created_by" gorm:"size:64"`
	CreatedAt     time.Time `json:"created_at"`
}

func (StockTransaction) TableName() string {
	return "factory_stock_transactions"
}
