package repository

import (
	"github.com/craftwood/sofa-erp/internal/factory/entity"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create 创建订单（含BOM/人工/杂项行，按关联一次写入）
func (r *OrderRepository) Create(order *entity.Order) error {
	return r.db.Create(order).Error
}

func (r *OrderRepository) GetByID(id string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.
		Preload("BOMLines").
		Preload("LabourLines").
		Preload("MiscLines").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ? AND deleted_at IS NULL", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) Update(order *entity.Order) error {
	return r.db.Save(order).Error
}

// CreateStatusLog 追加状态历史
func (r *OrderRepository) CreateStatusLog(log *entity.OrderStatusLog) error {
	return r.db.Create(log).Error
}

type OrderListParams struct {
	Status  string
	Kind    string
	Keyword string
	Page    int
	Size    int
}

func (r *OrderRepository) List(params OrderListParams) ([]entity.Order, int64, error) {
	query := r.db.Model(&entity.Order{}).Where("deleted_at IS NULL")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Kind != "" {
		query = query.Where("kind = ?", params.Kind)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("order_no ILIKE ? OR product_name ILIKE ? OR customer_name ILIKE ?", kw, kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var orders []entity.Order
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&orders).Error
	return orders, total, err
}

// DB 返回底层db用于事务
func (r *OrderRepository) DB() *gorm.DB {
	return r.db
}
