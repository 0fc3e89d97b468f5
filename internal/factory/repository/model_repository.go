package repository

import (
	"github.com/craftwood/sofa-erp/internal/factory/entity"
	"gorm.io/gorm"
)

type ModelRepository struct {
	db *gorm.DB
}

func NewModelRepository(db *gorm.DB) *ModelRepository {
	return &ModelRepository{db: db}
}

func (r *ModelRepository) Create(m *entity.SofaModel) error {
	return r.db.Create(m).Error
}

func (r *ModelRepository) GetByID(id string) (*entity.SofaModel, error) {
	var m entity.SofaModel
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ModelRepository) GetByName(name string) (*entity.SofaModel, error) {
	var m entity.SofaModel
	err := r.db.Where("name = ? AND deleted_at IS NULL", name).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ModelRepository) Update(m *entity.SofaModel) error {
	return r.db.Save(m).Error
}

type ModelListParams struct {
	Keyword string
	InStock bool
	Page    int
	Size    int
}

func (r *ModelRepository) List(params ModelListParams) ([]entity.SofaModel, int64, error) {
	query := r.db.Model(&entity.SofaModel{}).Where("deleted_at IS NULL")
	if params.Keyword != "" {
		query = query.Where("name ILIKE ?", "%"+params.Keyword+"%")
	}
	if params.InStock {
		query = query.Where("stock_qty > 0")
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.SofaModel
	err := query.Order("created_at ASC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&items).Error
	return items, total, err
}

// CreateFinishedProduct 创建完工成品记录
func (r *ModelRepository) CreateFinishedProduct(fp *entity.FinishedProduct) error {
	return r.db.Create(fp).Error
}

func (r *ModelRepository) ListFinishedProducts(page, size int) ([]entity.FinishedProduct, int64, error) {
	query := r.db.Model(&entity.FinishedProduct{})
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var items []entity.FinishedProduct
	err := query.Order("created_at DESC").
		Offset((page - 1) * size).Limit(size).Find(&items).Error
	return items, total, err
}

// DB 返回底层db用于事务
func (r *ModelRepository) DB() *gorm.DB {
	return r.db
}
