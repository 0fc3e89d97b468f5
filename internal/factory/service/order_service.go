package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/craftwood/sofa-erp/internal/factory/entity"
	"github.com/craftwood/sofa-erp/internal/factory/repository"
	"github.com/craftwood/sofa-erp/internal/shared/notify"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService 订单工作流
// 每个状态流转在一个数据库事务内完成；事务内写入顺序固定为
// 库存变动 → 派生记录 → 订单状态，即使事务被拆分也偏向可重跑的失败形态
type OrderService struct {
	orderRepo *repository.OrderRepository
	modelRepo *repository.ModelRepository
	stockSvc  *StockService
	db        *gorm.DB
	notifier  notify.Notifier
	logger    *zap.Logger
}

func NewOrderService(orderRepo *repository.OrderRepository, modelRepo *repository.ModelRepository, stockSvc *StockService, db *gorm.DB, notifier notify.Notifier, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		modelRepo: modelRepo,
		stockSvc:  stockSvc,
		db:        db,
		notifier:  notifier,
		logger:    logger,
	}
}

// BOMLineInput BOM行输入
// MaterialID 为空表示自定义外购料，此时名称和估价必填
type BOMLineInput struct {
	MaterialID        string  `json:"material_id"`
	MaterialName      string  `json:"material_name"`
	QuantityPerUnit   float64 `json:"quantity_per_unit" binding:"required,gt=0"`
	Unit              string  `json:"unit"`
	EstimatedUnitCost float64 `json:"estimated_unit_cost"`
	ToPurchase        bool    `json:"to_purchase"`
}

type LabourLineInput struct {
	WorkType     string  `json:"work_type" binding:"required"`
	CostPerPiece float64 `json:"cost_per_piece" binding:"required,gt=0"`
	WorkerName   string  `json:"worker_name"`
}

type MiscLineInput struct {
	Description string  `json:"description" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	Kind          string            `json:"kind" binding:"required,oneof=STOCK CUSTOMER"`
	CustomerName  string            `json:"customer_name"`
	CustomerPhone string            `json:"customer_phone"`
	ProductName   string            `json:"product_name" binding:"required"`
	SofaModelID   string            `json:"sofa_model_id"`
	Quantity      int               `json:"quantity" binding:"required,gte=1"`
	UnitPrice     float64           `json:"unit_price"`
	DueDate       string            `json:"due_date"` // YYYY-MM-DD
	Notes         string            `json:"notes"`
	BOMLines      []BOMLineInput    `json:"bom_lines"`
	LabourLines   []LabourLineInput `json:"labour_lines"`
	MiscLines     []MiscLineInput   `json:"misc_lines"`
}

// Create 创建订单，成本在此刻快照，后续物价变动不回填
func (s *OrderService) Create(req CreateOrderRequest, userID string) (*entity.Order, error) {
	if req.ProductName == "" {
		return nil, fmt.Errorf("%w: 产品名称必填", ErrValidation)
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: 数量必须大于等于1", ErrValidation)
	}
	if req.Kind != entity.OrderKindStock && req.Kind != entity.OrderKindCustomer {
		return nil, fmt.Errorf("%w: 未知订单类型 %s", ErrValidation, req.Kind)
	}
	if req.Kind == entity.OrderKindCustomer && req.CustomerName == "" {
		return nil, fmt.Errorf("%w: 客户订单必须填写客户名称", ErrValidation)
	}

	orderID := uuid.New().String()
	orderNo := fmt.Sprintf("ORD-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000)

	// 解析BOM行：库存料取当前物料单价，外购料用人工估价
	var bomLines []entity.OrderBOMLine
	var materialCostPerUnit float64
	for _, in := range req.BOMLines {
		line := entity.OrderBOMLine{
			ID:              uuid.New().String(),
			OrderID:         orderID,
			QuantityPerUnit: in.QuantityPerUnit,
			Unit:            in.Unit,
			ToPurchase:      in.ToPurchase,
		}
		if in.MaterialID != "" {
			mat, err := s.materialByID(in.MaterialID)
			if err != nil {
				return nil, err
			}
			line.MaterialID = mat.ID
			line.MaterialName = mat.Name
			line.UnitCost = mat.UnitCost
			if line.Unit == "" {
				line.Unit = mat.Unit
			}
		} else {
			if in.MaterialName == "" {
				return nil, fmt.Errorf("%w: 自定义物料必须填写名称", ErrValidation)
			}
			line.MaterialName = in.MaterialName
			line.UnitCost = in.EstimatedUnitCost
			line.ToPurchase = true
		}
		if line.Unit == "" {
			line.Unit = "pcs"
		}
		line.TotalNeeded = line.QuantityPerUnit * float64(req.Quantity)
		materialCostPerUnit += line.QuantityPerUnit * line.UnitCost
		bomLines = append(bomLines, line)
	}

	var labourLines []entity.OrderLabourLine
	var labourCostPerUnit float64
	for _, in := range req.LabourLines {
		labourCostPerUnit += in.CostPerPiece
		labourLines = append(labourLines, entity.OrderLabourLine{
			ID:           uuid.New().String(),
			OrderID:      orderID,
			WorkType:     in.WorkType,
			CostPerPiece: in.CostPerPiece,
			WorkerName:   in.WorkerName,
		})
	}

	var miscLines []entity.OrderMiscLine
	var otherCostPerUnit float64
	for _, in := range req.MiscLines {
		otherCostPerUnit += in.Amount
		miscLines = append(miscLines, entity.OrderMiscLine{
			ID:          uuid.New().String(),
			OrderID:     orderID,
			Description: in.Description,
			Amount:      in.Amount,
		})
	}

	order := &entity.Order{
		ID:                  orderID,
		OrderNo:             orderNo,
		Kind:                req.Kind,
		CustomerName:        req.CustomerName,
		CustomerPhone:       req.CustomerPhone,
		ProductName:         req.ProductName,
		SofaModelID:         req.SofaModelID,
		Quantity:            req.Quantity,
		UnitPrice:           req.UnitPrice,
		Status:              entity.OrderStatusPendingApproval,
		MaterialCostPerUnit: materialCostPerUnit,
		LabourCostPerUnit:   labourCostPerUnit,
		OtherCostPerUnit:    otherCostPerUnit,
		TotalProductionCost: (materialCostPerUnit + labourCostPerUnit + otherCostPerUnit) * float64(req.Quantity),
		Notes:               req.Notes,
		CreatedBy:           userID,
		BOMLines:            bomLines,
		LabourLines:         labourLines,
		MiscLines:           miscLines,
		History: []entity.OrderStatusLog{{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			Status:    entity.OrderStatusPendingApproval,
			Note:      "订单创建",
			CreatedBy: userID,
		}},
	}

	if req.DueDate != "" {
		if t, err := time.Parse("2006-01-02", req.DueDate); err == nil {
			order.DueDate = &t
		}
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("创建订单失败: %w", err)
	}
	return order, nil
}

func (s *OrderService) GetByID(id string) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("订单 %w", ErrNotFound)
		}
		return nil, fmt.Errorf("查询订单失败: %w", err)
	}
	return order, nil
}

func (s *OrderService) List(params repository.OrderListParams) ([]entity.Order, int64, error) {
	return s.orderRepo.List(params)
}

// Approve 审批通过
func (s *OrderService) Approve(orderID, note, userID string) (*entity.Order, error) {
	return s.transition(orderID, []string{entity.OrderStatusPendingApproval},
		entity.OrderStatusApproved, note, userID, nil)
}

// Cancel 取消订单，仅待审批和已审批可取消
func (s *OrderService) Cancel(orderID, note, userID string) (*entity.Order, error) {
	return s.transition(orderID,
		[]string{entity.OrderStatusPendingApproval, entity.OrderStatusApproved},
		entity.OrderStatusCancelled, note, userID, nil)
}

// StartProduction 投产
// 任一库存物料行不足则整单拒绝、不做任何扣减；外购行不阻断，随结果返回提醒
func (s *OrderService) StartProduction(orderID, userID string) (*entity.Order, []LineAvailability, error) {
	order, err := s.GetByID(orderID)
	if err != nil {
		return nil, nil, err
	}
	if order.Status != entity.OrderStatusApproved {
		return nil, nil, fmt.Errorf("%w: 订单当前状态为 %s", ErrInvalidTransition, order.Status)
	}

	avail, err := s.stockSvc.CheckAvailability(order.BOMLines, order.Quantity)
	if err != nil {
		return nil, nil, err
	}
	if !avail.Sufficient {
		stockErr := &InsufficientStockError{}
		for _, line := range avail.Lines {
			if line.NeedsPurchase || line.Shortage <= 0 {
				continue
			}
			stockErr.Shortages = append(stockErr.Shortages, StockShortage{
				MaterialID:   line.MaterialID,
				MaterialName: line.MaterialName,
				Required:     line.Required,
				Available:    line.Available,
				Shortage:     line.Shortage,
			})
		}
		return nil, avail.Warnings, stockErr
	}

	updated, err := s.transition(orderID, []string{entity.OrderStatusApproved},
		entity.OrderStatusInProduction, "投产领料", userID,
		func(tx *gorm.DB, o *entity.Order) error {
			return s.stockSvc.Deduct(tx, o.BOMLines, o.Quantity, o.ID, o.OrderNo, userID)
		})
	if err != nil {
		return nil, nil, err
	}
	return updated, avail.Warnings, nil
}

// CompleteStock 备货订单完工入库
// 生成成品记录并把数量计入沙发型号库存，同时按订单快照刷新型号成本
func (s *OrderService) CompleteStock(orderID string, sellingPrice float64, photoURL, userID string) (*entity.FinishedProduct, error) {
	if sellingPrice <= 0 {
		return nil, fmt.Errorf("%w: 售价必须大于0", ErrValidation)
	}
	order, err := s.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Kind != entity.OrderKindStock {
		return nil, fmt.Errorf("%w: 客户订单应走发货流程", ErrInvalidTransition)
	}

	var fp *entity.FinishedProduct
	_, err = s.transition(orderID, []string{entity.OrderStatusInProduction},
		entity.OrderStatusCompleted, "完工入库", userID,
		func(tx *gorm.DB, o *entity.Order) error {
			now := time.Now()
			costs := &ModelCostSnapshot{
				MaterialCost: o.MaterialCostPerUnit,
				LabourCost:   o.LabourCostPerUnit,
				OtherCost:    o.OtherCostPerUnit,
				SellingPrice: sellingPrice,
				PhotoURL:     photoURL,
			}
			if _, err := s.stockSvc.CreditModel(tx, o.ProductName, o.Quantity, costs, "ORDER", o.ID, o.OrderNo, userID); err != nil {
				return err
			}
			fp = BuildFinishedProduct(o, CompletionData{
				SellingPrice: sellingPrice,
				PhotoURL:     photoURL,
				CompletedAt:  now,
			})
			if err := tx.Create(fp).Error; err != nil {
				return fmt.Errorf("创建成品记录失败: %w", err)
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return fp, nil
}

// MarkReadyForDelivery 客户订单生产完成待发货
func (s *OrderService) MarkReadyForDelivery(orderID, userID string) (*entity.Order, error) {
	order, err := s.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Kind != entity.OrderKindCustomer {
		return nil, fmt.Errorf("%w: 备货订单应走完工入库流程", ErrInvalidTransition)
	}
	return s.transition(orderID, []string{entity.OrderStatusInProduction},
		entity.OrderStatusReadyForDelivery, "生产完成待发货", userID, nil)
}

// ConfirmDelivery 确认交付，自动生成待审批的销售记录
func (s *OrderService) ConfirmDelivery(orderID, deliveryDate, notes, photoURL, userID string) (*entity.Sale, error) {
	date := time.Now()
	if deliveryDate != "" {
		t, err := time.Parse("2006-01-02", deliveryDate)
		if err != nil {
			return nil, fmt.Errorf("%w: 交付日期格式应为 YYYY-MM-DD", ErrValidation)
		}
		date = t
	}

	var sale *entity.Sale
	_, err := s.transition(orderID, []string{entity.OrderStatusReadyForDelivery},
		entity.OrderStatusDelivered, "确认交付", userID,
		func(tx *gorm.DB, o *entity.Order) error {
			saleNo := fmt.Sprintf("SAL-%s%04d", time.Now().Format("20060102"), time.Now().UnixNano()%10000)
			sale = BuildSaleRecord(o, DeliveryData{
				SaleNo:       saleNo,
				DeliveryDate: date,
				Notes:        notes,
				PhotoURL:     photoURL,
			})
			sale.CreatedBy = userID
			if err := tx.Create(sale).Error; err != nil {
				return fmt.Errorf("创建销售记录失败: %w", err)
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// transition 执行一次状态流转
// 在单个事务内依次执行：副作用(fn) → 追加状态历史 → 更新订单状态
func (s *OrderService) transition(orderID string, from []string, to, note, userID string, fn func(tx *gorm.DB, order *entity.Order) error) (*entity.Order, error) {
	order, err := s.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, f := range from {
		if order.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: 订单当前状态为 %s，无法变更为 %s", ErrInvalidTransition, order.Status, to)
	}

	fromStatus := order.Status
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if fn != nil {
			if err := fn(tx, order); err != nil {
				return err
			}
		}

		log := &entity.OrderStatusLog{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			Status:    to,
			Note:      note,
			CreatedBy: userID,
		}
		if err := tx.Create(log).Error; err != nil {
			return fmt.Errorf("记录状态历史失败: %w", err)
		}

		// 订单状态最后落库
		if err := tx.Model(&entity.Order{}).Where("id = ?", order.ID).
			Update("status", to).Error; err != nil {
			return fmt.Errorf("更新订单状态失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = to
	s.notifyStatusChanged(order, fromStatus, to, userID)

	// 重新加载带历史的完整订单
	return s.GetByID(order.ID)
}

// notifyStatusChanged 异步推送状态变更，失败只记日志，不影响流转结果
func (s *OrderService) notifyStatusChanged(order *entity.Order, from, to, userID string) {
	if s.notifier == nil {
		return
	}
	evt := notify.StatusChangeEvent{
		OrderID:     order.ID,
		OrderNo:     order.OrderNo,
		ProductName: order.ProductName,
		FromStatus:  from,
		ToStatus:    to,
		Operator:    userID,
		ChangedAt:   time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.OrderStatusChanged(ctx, evt); err != nil {
			s.logger.Warn("订单状态变更通知失败",
				zap.String("order_no", order.OrderNo),
				zap.String("to_status", to),
				zap.Error(err),
			)
		}
	}()
}

func (s *OrderService) materialByID(id string) (*entity.RawMaterial, error) {
	var mat entity.RawMaterial
	if err := s.db.Where("id = ? AND deleted_at IS NULL", id).First(&mat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("物料 %w", ErrNotFound)
		}
		return nil, fmt.Errorf("查询物料失败: %w", err)
	}
	return &mat, nil
}
