package service

import (
	"errors"
	"fmt"

	"github.com/craftwood/sofa-erp/internal/factory/entity"
	"github.com/craftwood/sofa-erp/internal/factory/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaterialService struct {
	materialRepo *repository.MaterialRepository
	stockSvc     *StockService
}

func NewMaterialService(materialRepo *repository.MaterialRepository, stockSvc *StockService) *MaterialService {
	return &MaterialService{materialRepo: materialRepo, stockSvc: stockSvc}
}

type CreateMaterialRequest struct {
	Code     string  `json:"code"`
	Name     string  `json:"name" binding:"required"`
	Unit     string  `json:"unit"`
	Quantity float64 `json:"quantity" binding:"gte=0"`
	UnitCost float64 `json:"unit_cost" binding:"gte=0"`
	MinStock float64 `json:"min_stock" binding:"gte=0"`
	Notes    string  `json:"notes"`
}

func (s *MaterialService) Create(req CreateMaterialRequest, userID string) (*entity.RawMaterial, error) {
	if _, err := s.materialRepo.GetByName(req.Name); err == nil {
		return nil, fmt.Errorf("%w: 物料 %s 已存在", ErrValidation, req.Name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询物料失败: %w", err)
	}

	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}
	m := &entity.RawMaterial{
		ID:        uuid.New().String(),
		Code:      req.Code,
		Name:      req.Name,
		Unit:      unit,
		Quantity:  req.Quantity,
		UnitCost:  req.UnitCost,
		MinStock:  req.MinStock,
		Notes:     req.Notes,
		CreatedBy: userID,
	}
	if err := s.materialRepo.Create(m); err != nil {
		return nil, fmt.Errorf("创建物料失败: %w", err)
	}
	return m, nil
}

func (s *MaterialService) GetByID(id string) (*entity.RawMaterial, error) {
	m, err := s.materialRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("物料 %w", ErrNotFound)
		}
		return nil, fmt.Errorf("查询物料失败: %w", err)
	}
	return m, nil
}

func (s *MaterialService) List(params repository.MaterialListParams) ([]entity.RawMaterial, int64, error) {
	return s.materialRepo.List(params)
}

type UpdateMaterialRequest struct {
	Code     *string  `json:"code"`
	Name     *string  `json:"name"`
	Unit     *string  `json:"unit"`
	UnitCost *float64 `json:"unit_cost"`
	MinStock *float64 `json:"min_stock"`
	Notes    *string  `json:"notes"`
}

// Update 更新物料基础信息
// 库存数量不走这里，盘点和入库分别有专门操作
func (s *MaterialService) Update(id string, req UpdateMaterialRequest) (*entity.RawMaterial, error) {
	m, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req.Code != nil {
		m.Code = *req.Code
	}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("%w: 物料名称不能为空", ErrValidation)
		}
		m.Name = *req.Name
	}
	if req.Unit != nil {
		m.Unit = *req.Unit
	}
	if req.UnitCost != nil {
		m.UnitCost = *req.UnitCost
	}
	if req.MinStock != nil {
		m.MinStock = *req.MinStock
	}
	if req.Notes != nil {
		m.Notes = *req.Notes
	}
	if err := s.materialRepo.Update(m); err != nil {
		return nil, fmt.Errorf("更新物料失败: %w", err)
	}
	return m, nil
}

func (s *MaterialService) Delete(id string) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}
	if err := s.materialRepo.Delete(id); err != nil {
		return fmt.Errorf("删除物料失败: %w", err)
	}
	return nil
}

// Adjust 盘点调整
func (s *MaterialService) Adjust(id string, countedQty float64, note, userID string) (*entity.RawMaterial, error) {
	return s.stockSvc.AdjustMaterial(id, countedQty, note, userID)
}

// Inbound 采购入库
func (s *MaterialService) Inbound(id string, qty, unitCost float64, note, userID string) (*entity.RawMaterial, error) {
	return s.stockSvc.InboundMaterial(id, qty, unitCost, note, userID)
}

// Alerts 低库存预警
func (s *MaterialService) Alerts() ([]entity.RawMaterial, error) {
	return s.materialRepo.GetAlerts()
}
