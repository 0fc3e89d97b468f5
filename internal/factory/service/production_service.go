package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/craftwood/sofa-erp/internal/factory/entity"
	"github.com/craftwood/sofa-erp/internal/factory/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductionService 生产跟踪看板（独立于订单工作流的简化流程）
type ProductionService struct {
	prodRepo  *repository.ProductionRepository
	modelRepo *repository.ModelRepository
	stockSvc  *StockService
	db        *gorm.DB
}

func NewProductionService(prodRepo *repository.ProductionRepository, modelRepo *repository.ModelRepository, stockSvc *StockService, db *gorm.DB) *ProductionService {
	return &ProductionService{prodRepo: prodRepo, modelRepo: modelRepo, stockSvc: stockSvc, db: db}
}

type CreateProductionRequest struct {
	SofaModelID string `json:"sofa_model_id" binding:"required"`
	OrderID     string `json:"order_id"`
	Quantity    int    `json:"quantity" binding:"required,gte=1"`
	Notes       string `json:"notes"`
}

func (s *ProductionService) Create(req CreateProductionRequest, userID string) (*entity.Production, error) {
	model, err := s.modelRepo.GetByID(req.SofaModelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("沙发型号 %w", ErrNotFound)
		}
		return nil, fmt.Errorf("查询沙发型号失败: %w", err)
	}

	p := &entity.Production{
		ID:          uuid.New().String(),
		SofaModelID: model.ID,
		ModelName:   model.Name,
		OrderID:     req.OrderID,
		Quantity:    req.Quantity,
		Status:      entity.ProductionStatusPending,
		Notes:       req.Notes,
		CreatedBy:   userID,
	}
	if err := s.prodRepo.Create(p); err != nil {
		return nil, fmt.Errorf("创建生产记录失败: %w", err)
	}
	return p, nil
}

func (s *ProductionService) GetByID(id string) (*entity.Production, error) {
	p, err := s.prodRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("生产记录 %w", ErrNotFound)
		}
		return nil, fmt.Errorf("查询生产记录失败: %w", err)
	}
	return p, nil
}

func (s *ProductionService) List(params repository.ProductionListParams) ([]entity.Production, int64, error) {
	return s.prodRepo.List(params)
}

// Start 开工
func (s *ProductionService) Start(id, userID string) (*entity.Production, error) {
	p, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p.Status != entity.ProductionStatusPending {
		return nil, fmt.Errorf("%w: 生产记录当前状态为 %s", ErrInvalidTransition, p.Status)
	}
	now := time.Now()
	p.Status = entity.ProductionStatusInProgress
	p.StartedAt = &now
	if err := s.prodRepo.Update(p); err != nil {
		return nil, fmt.Errorf("更新生产记录失败: %w", err)
	}
	return p, nil
}

// Complete 完工，数量计入型号库存
func (s *ProductionService) Complete(id, userID string) (*entity.Production, error) {
	p, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p.Status != entity.ProductionStatusInProgress {
		return nil, fmt.Errorf("%w: 生产记录当前状态为 %s", ErrInvalidTransition, p.Status)
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.stockSvc.CreditModel(tx, p.ModelName, p.Quantity, nil, "PRODUCTION", p.ID, "", userID); err != nil {
			return err
		}
		p.Status = entity.ProductionStatusCompleted
		p.CompletedAt = &now
		return tx.Save(p).Error
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Cancel 取消
func (s *ProductionService) Cancel(id, userID string) (*entity.Production, error) {
	p, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p.Status != entity.ProductionStatusPending && p.Status != entity.ProductionStatusInProgress {
		return nil, fmt.Errorf("%w: 生产记录当前状态为 %s", ErrInvalidTransition, p.Status)
	}
	p.Status = entity.ProductionStatusCancelled
	if err := s.prodRepo.Update(p); err != nil {
		return nil, fmt.Errorf("更新生产记录失败: %w", err)
	}
	return p, nil
}
