package repository

import (
	"github.com/craftwood/sofa-erp/internal/factory/entity"
	"gorm.io/gorm"
)

type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

func (r *MaterialRepository) Create(m *entity.RawMaterial) error {
	return r.db.Create(m).Error
}

func (r *MaterialRepository) GetByID(id string) (*entity.RawMaterial, error) {
	var m entity.RawMaterial
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MaterialRepository) GetByName(name string) (*entity.RawMaterial, error) {
	var m entity.RawMaterial
	err := r.db.Where("name = ? AND deleted_at IS NULL", name).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MaterialRepository) Update(m *entity.RawMaterial) error {
	return r.db.Save(m).Error
}

func (r *MaterialRepository) Delete(id string) error {
	return r.db.Model(&entity.RawMaterial{}).Where("id = ?", id).
		Update("deleted_at", gorm.Expr("NOW()")).Error
}

type MaterialListParams struct {
	Keyword  string
	LowStock bool
	Page     int
	Size     int
}

func (r *MaterialRepository) List(params MaterialListParams) ([]entity.RawMaterial, int64, error) {
	query := r.db.Model(&entity.RawMaterial{}).Where("deleted_at IS NULL")
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", kw, kw)
	}
	if params.LowStock {
		query = query.Where("quantity < min_stock AND min_stock > 0")
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.RawMaterial
	err := query.Order("created_at ASC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&items).Error
	return items, total, err
}

// GetAlerts 低库存预警列表
func (r *MaterialRepository) GetAlerts() ([]entity.RawMaterial, error) {
	var alerts []entity.RawMaterial
	err := r.db.Where("quantity < min_stock AND min_stock > 0 AND deleted_at IS NULL").
		Order("created_at ASC").Find(&alerts).Error
	return alerts, err
}

// DB 返回底层db用于事务
func (r *MaterialRepository) DB() *gorm.DB {
	return r.db
}
