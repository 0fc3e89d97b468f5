package repository

import (
	"github.com/craftwood/sofa-erp/internal/factory/entity"
	"gorm.io/gorm"
)

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

func (r *StockRepository) CreateTransaction(tx *entity.StockTransaction) error {
	return r.db.Create(tx).Error
}

type StockTxListParams struct {
	ItemType string
	ItemID   string
	TxType   string
	Page     int
	Size     int
}

func (r *StockRepository) ListTransactions(params StockTxListParams) ([]entity.StockTransaction, int64, error) {
	query := r.db.Model(&entity.StockTransaction{})
	if params.ItemType != "" {
		query = query.Where("item_type = ?", params.ItemType)
	}
	if params.ItemID != "" {
		query = query.Where("item_id = ?", params.ItemID)
	}
	if params.TxType != "" {
		query = query.Where("tx_type = ?", params.TxType)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var txs []entity.StockTransaction
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&txs).Error
	return txs, total, err
}
