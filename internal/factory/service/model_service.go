package service

import (
	"errors"
	"fmt"

	"github.com/craftwood/sofa-erp/internal/factory/entity"
	"github.com/craftwood/sofa-erp/internal/factory/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ModelService struct {
	modelRepo *repository.ModelRepository
}

func NewModelService(modelRepo *repository.ModelRepository) *ModelService {
	return &ModelService{modelRepo: modelRepo}
}

type CreateModelRequest struct {
	Name         string  `json:"name" binding:"required"`
	MaterialCost float64 `json:"material_cost" binding:"gte=0"`
	LabourCost   float64 `json:"labour_cost" binding:"gte=0"`
	OtherCost    float64 `json:"other_cost" binding:"gte=0"`
	SellingPrice float64 `json:"selling_price" binding:"gte=0"`
	PhotoURL     string  `json:"photo_url"`
	Notes        string  `json:"notes"`
}

func (s *ModelService) Create(req CreateModelRequest, userID string) (*entity.SofaModel, error) {
	if _, err := s.modelRepo.GetByName(req.Name); err == nil {
		return nil, fmt.Errorf("%w: 沙发型号 %s 已存在", ErrValidation, req.Name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询沙发型号失败: %w", err)
	}

	m := &entity.SofaModel{
		ID:           uuid.New().String(),
		Name:         req.Name,
		MaterialCost: req.MaterialCost,
		LabourCost:   req.LabourCost,
		OtherCost:    req.OtherCost,
		SellingPrice: req.SellingPrice,
		PhotoURL:     req.PhotoURL,
		Notes:        req.Notes,
		CreatedBy:    userID,
	}
	if err := s.modelRepo.Create(m); err != nil {
		return nil, fmt.Errorf("创建沙发型号失败: %w", err)
	}
	return m, nil
}

func (s *ModelService) GetByID(id string) (*entity.SofaModel, error) {
	m, err := s.modelRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("沙发型号 %w", ErrNotFound)
		}
		return nil, fmt.Errorf("查询沙发型号失败: %w", err)
	}
	return m, nil
}

func (s *ModelService) List(params repository.ModelListParams) ([]entity.SofaModel, int64, error) {
	return s.modelRepo.List(params)
}

type UpdateModelRequest struct {
	Name         *string  `json:"name"`
	MaterialCost *float64 `json:"material_cost"`
	LabourCost   *float64 `json:"labour_cost"`
	OtherCost    *float64 `json:"other_cost"`
	SellingPrice *float64 `json:"selling_price"`
	PhotoURL     *string  `json:"photo_url"`
	Notes        *string  `json:"notes"`
}

// Update 更新型号资料
// StockQty 不在可更新字段内，库存变动一律走 StockService
func (s *ModelService) Update(id string, req UpdateModelRequest) (*entity.SofaModel, error) {
	m, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: 型号名称不能为空", ErrValidation)
		}
		m.Name = *req.Name
	}
	if req.MaterialCost != nil {
		m.MaterialCost = *req.MaterialCost
	}
	if req.LabourCost != nil {
		m.LabourCost = *req.LabourCost
	}
	if req.OtherCost != nil {
		m.OtherCost = *req.OtherCost
	}
	if req.SellingPrice != nil {
		m.SellingPrice = *req.SellingPrice
	}
	if req.PhotoURL != nil {
		m.PhotoURL = *req.PhotoURL
	}
	if req.Notes != nil {
		m.Notes = *req.Notes
	}
	if err := s.modelRepo.Update(m); err != nil {
		return nil, fmt.Errorf("更新沙发型号失败: %w", err)
	}
	return m, nil
}

func (s *ModelService) ListFinishedProducts(page, size int) ([]entity.FinishedProduct, int64, error) {
	return s.modelRepo.ListFinishedProducts(page, size)
}
