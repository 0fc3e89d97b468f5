package repository

import (
	"github.com/craftwood/sofa-erp/internal/factory/entity"
	"gorm.io/gorm"
)

type ProductionRepository struct {
	db *gorm.DB
}

func NewProductionRepository(db *gorm.DB) *ProductionRepository {
	return &ProductionRepository{db: db}
}

func (r *ProductionRepository) Create(p *entity.Production) error {
	return r.db.Create(p).Error
}

func (r *ProductionRepository) GetByID(id string) (*entity.Production, error) {
	var p entity.Production
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductionRepository) Update(p *entity.Production) error {
	return r.db.Save(p).Error
}

type ProductionListParams struct {
	Status      string
	SofaModelID string
	Page        int
	Size        int
}

func (r *ProductionRepository) List(params ProductionListParams) ([]entity.Production, int64, error) {
	query := r.db.Model(&entity.Production{}).Where("deleted_at IS NULL")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.SofaModelID != "" {
		query = query.Where("sofa_model_id = ?", params.SofaModelID)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.Production
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&items).Error
	return items, total, err
}
