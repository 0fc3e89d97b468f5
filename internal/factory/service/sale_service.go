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

type SaleService struct {
	saleRepo  *repository.SaleRepository
	modelRepo *repository.ModelRepository
	stockSvc  *StockService
	db        *gorm.DB
}

func NewSaleService(saleRepo *repository.SaleRepository, modelRepo *repository.ModelRepository, stockSvc *StockService, db *gorm.DB) *SaleService {
	return &SaleService{saleRepo: saleRepo, modelRepo: modelRepo, stockSvc: stockSvc, db: db}
}

type CreateSaleRequest struct {
	SofaModelID   string  `json:"sofa_model_id" binding:"required"`
	CustomerName  string  `json:"customer_name" binding:"required"`
	CustomerPhone string  `json:"customer_phone"`
	Quantity      int     `json:"quantity" binding:"required,gte=1"`
	UnitPrice     float64 `json:"unit_price"`
	Notes         string  `json:"notes"`
}

// Create 手工录入销售（现货销售），审批通过时才出库
func (s *SaleService) Create(req CreateSaleRequest, userID string) (*entity.Sale, error) {
	model, err := s.modelRepo.GetByID(req.SofaModelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("沙发型号 %w", ErrNotFound)
		}
		return nil, fmt.Errorf("查询沙发型号失败: %w", err)
	}

	unitPrice := req.UnitPrice
	if unitPrice <= 0 {
		unitPrice = model.SellingPrice
	}
	if unitPrice <= 0 {
		return nil, fmt.Errorf("%w: 售价必须大于0", ErrValidation)
	}

	totalAmount := unitPrice * float64(req.Quantity)
	unitCost := model.MaterialCost + model.LabourCost + model.OtherCost
	totalCost := unitCost * float64(req.Quantity)

	sale := &entity.Sale{
		ID:             uuid.New().String(),
		SaleNo:         fmt.Sprintf("SAL-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000),
		SofaModelID:    model.ID,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		ProductName:    model.Name,
		Quantity:       req.Quantity,
		UnitPrice:      unitPrice,
		TotalAmount:    totalAmount,
		TotalCost:      totalCost,
		Profit:         totalAmount - totalCost,
		DueAmount:      totalAmount,
		ApprovalStatus: entity.SaleApprovalPending,
		PaymentStatus:  entity.PaymentStatusUnpaid,
		Notes:          req.Notes,
		CreatedBy:      userID,
	}

	if err := s.saleRepo.Create(sale); err != nil {
		return nil, fmt.Errorf("创建销售记录失败: %w", err)
	}
	return sale, nil
}

func (s *SaleService) GetByID(id string) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("销售记录 %w", ErrNotFound)
		}
		return nil, fmt.Errorf("查询销售记录失败: %w", err)
	}
	return sale, nil
}

func (s *SaleService) List(params repository.SaleListParams) ([]entity.Sale, int64, error) {
	return s.saleRepo.List(params)
}

// Approve 审批通过
// 现货销售（非订单生成）在此出库；订单生成的销售货已随订单交付，不再动库存
func (s *SaleService) Approve(id, userID string) (*entity.Sale, error) {
	sale, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale.ApprovalStatus != entity.SaleApprovalPending {
		return nil, fmt.Errorf("%w: 销售当前状态为 %s", ErrInvalidTransition, sale.ApprovalStatus)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if sale.OrderID == "" && sale.SofaModelID != "" {
			if err := s.stockSvc.DeductModel(tx, sale.SofaModelID, sale.Quantity, sale.ID, sale.SaleNo, userID); err != nil {
				return err
			}
		}
		return tx.Model(&entity.Sale{}).Where("id = ?", sale.ID).
			Update("approval_status", entity.SaleApprovalApproved).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Reject 审批拒绝
func (s *SaleService) Reject(id, userID string) (*entity.Sale, error) {
	sale, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale.ApprovalStatus != entity.SaleApprovalPending {
		return nil, fmt.Errorf("%w: 销售当前状态为 %s", ErrInvalidTransition, sale.ApprovalStatus)
	}
	sale.ApprovalStatus = entity.SaleApprovalRejected
	if err := s.saleRepo.Update(sale); err != nil {
		return nil, fmt.Errorf("更新销售记录失败: %w", err)
	}
	return s.GetByID(id)
}

type RecordPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Method string  `json:"method"`
	Note   string  `json:"note"`
	PaidAt string  `json:"paid_at"` // YYYY-MM-DD，缺省为当天
}

// RecordPayment 登记收款
// 回款状态由金额推导：应收 = 总额 - 已收，不允许超收
func (s *SaleService) RecordPayment(id string, req RecordPaymentRequest, userID string) (*entity.Sale, error) {
	sale, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if sale.ApprovalStatus != entity.SaleApprovalApproved {
		return nil, fmt.Errorf("%w: 仅审批通过的销售可登记收款", ErrInvalidTransition)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: 收款金额必须大于0", ErrValidation)
	}
	if req.Amount > sale.DueAmount {
		return nil, fmt.Errorf("%w: 收款金额 %.2f 超过应收 %.2f", ErrValidation, req.Amount, sale.DueAmount)
	}

	paidAt := time.Now()
	if req.PaidAt != "" {
		if t, err := time.Parse("2006-01-02", req.PaidAt); err == nil {
			paidAt = t
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		payment := &entity.SalePayment{
			ID:        uuid.New().String(),
			SaleID:    sale.ID,
			Amount:    req.Amount,
			Method:    req.Method,
			Note:      req.Note,
			PaidAt:    paidAt,
			CreatedBy: userID,
		}
		if err := tx.Create(payment).Error; err != nil {
			return fmt.Errorf("记录收款失败: %w", err)
		}

		sale.PaidAmount += req.Amount
		sale.DueAmount = sale.TotalAmount - sale.PaidAmount
		sale.PaymentStatus = sale.DerivePaymentStatus()
		return tx.Model(&entity.Sale{}).Where("id = ?", sale.ID).Updates(map[string]interface{}{
			"paid_amount":    sale.PaidAmount,
			"due_amount":     sale.DueAmount,
			"payment_status": sale.PaymentStatus,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(id)
}
