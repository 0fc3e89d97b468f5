package repository

import (
	"github.com/craftwood/sofa-erp/internal/factory/entity"
	"gorm.io/gorm"
)

type SaleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

func (r *SaleRepository) Create(sale *entity.Sale) error {
	return r.db.Create(sale).Error
}

func (r *SaleRepository) GetByID(id string) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ? AND deleted_at IS NULL", id).First(&sale).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *SaleRepository) Update(sale *entity.Sale) error {
	return r.db.Save(sale).Error
}

// CreatePayment 追加收款记录
func (r *SaleRepository) CreatePayment(p *entity.SalePayment) error {
	return r.db.Create(p).Error
}

type SaleListParams struct {
	ApprovalStatus string
	PaymentStatus  string
	Keyword        string
	Page           int
	Size           int
}

func (r *SaleRepository) List(params SaleListParams) ([]entity.Sale, int64, error) {
	query := r.db.Model(&entity.Sale{}).Where("deleted_at IS NULL")
	if params.ApprovalStatus != "" {
		query = query.Where("approval_status = ?", params.ApprovalStatus)
	}
	if params.PaymentStatus != "" {
		query = query.Where("payment_status = ?", params.PaymentStatus)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("sale_no ILIKE ? OR customer_name ILIKE ? OR product_name ILIKE ?", kw, kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var sales []entity.Sale
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&sales).Error
	return sales, total, err
}

// DB 返回底层db用于事务
func (r *SaleRepository) DB() *gorm.DB {
	return r.db
}
