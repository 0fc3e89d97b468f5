package service

import (
	"errors"
	"fmt"

	"github.com/craftwood/sofa-erp/internal/factory/entity"
	"github.com/craftwood/sofa-erp/internal/factory/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StockService 库存台账
// 原材料和成品的所有数量变动都必须走这里，每次变动落一条流水
type StockService struct {
	materialRepo *repository.MaterialRepository
	modelRepo    *repository.ModelRepository
	stockRepo    *repository.StockRepository
	db           *gorm.DB
	logger       *zap.Logger
}

func NewStockService(materialRepo *repository.MaterialRepository, modelRepo *repository.ModelRepository, stockRepo *repository.StockRepository, db *gorm.DB, logger *zap.Logger) *StockService {
	return &StockService{materialRepo: materialRepo, modelRepo: modelRepo, stockRepo: stockRepo, db: db, logger: logger}
}

// ListTransactions 库存流水查询
func (s *StockService) ListTransactions(params repository.StockTxListParams) ([]entity.StockTransaction, int64, error) {
	return s.stockRepo.ListTransactions(params)
}

// LineAvailability 单行可用性
type LineAvailability struct {
	MaterialID    string  `json:"material_id"`
	MaterialName  string  `json:"material_name"`
	Required      float64 `json:"required"`
	Available     float64 `json:"available"`
	Shortage      float64 `json:"shortage"`
	NeedsPurchase bool    `json:"needs_purchase"` // 自定义外购料，不占库存
}

// AvailabilityResult 可用性汇总
// Sufficient 只看库存物料行；外购行进 Warnings，不阻断投产
type AvailabilityResult struct {
	Sufficient bool               `json:"sufficient"`
	Lines      []LineAvailability `json:"lines"`
	Warnings   []LineAvailability `json:"warnings"`
}

// CheckAvailability 按订单数量核算BOM各行库存是否充足
func (s *StockService) CheckAvailability(lines []entity.OrderBOMLine, orderQty int) (*AvailabilityResult, error) {
	result := &AvailabilityResult{Sufficient: true}
	for _, line := range lines {
		required := line.QuantityPerUnit * float64(orderQty)
		if !line.IsInventoryBacked() {
			la := LineAvailability{
				MaterialName:  line.MaterialName,
				Required:      required,
				Shortage:      required,
				NeedsPurchase: true,
			}
			result.Lines = append(result.Lines, la)
			result.Warnings = append(result.Warnings, la)
			continue
		}

		mat, err := s.materialRepo.GetByID(line.MaterialID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("物料 %s %w", line.MaterialName, ErrNotFound)
			}
			return nil, fmt.Errorf("查询物料库存失败: %w", err)
		}

		la := LineAvailability{
			MaterialID:   mat.ID,
			MaterialName: mat.Name,
			Required:     required,
			Available:    mat.Quantity,
		}
		if mat.Quantity < required {
			la.Shortage = required - mat.Quantity
			result.Sufficient = false
		}
		result.Lines = append(result.Lines, la)
	}
	return result, nil
}

// Deduct 生产领料，按订单数量扣减库存物料行
// 扣减下限为零（与历史行为保持一致）；本方法不做幂等保护，靠订单状态机防止重复调用
func (s *StockService) Deduct(tx *gorm.DB, lines []entity.OrderBOMLine, orderQty int, refID, refNo, userID string) error {
	for _, line := range lines {
		if !line.IsInventoryBacked() {
			continue
		}
		required := line.QuantityPerUnit * float64(orderQty)

		var mat entity.RawMaterial
		if err := tx.Where("id = ? AND deleted_at IS NULL", line.MaterialID).First(&mat).Error; err != nil {
			return fmt.Errorf("物料 %s 不存在: %w", line.MaterialName, err)
		}

		deducted := required
		if deducted > mat.Quantity {
			deducted = mat.Quantity
		}
		mat.Quantity -= deducted
		if err := tx.Save(&mat).Error; err != nil {
			return fmt.Errorf("扣减物料 %s 库存失败: %w", mat.Name, err)
		}

		journal := &entity.StockTransaction{
			ID:            uuid.New().String(),
			ItemType:      entity.StockItemRaw,
			ItemID:        mat.ID,
			ItemName:      mat.Name,
			TxType:        entity.StockTxProductionOut,
			Quantity:      -deducted,
			ReferenceType: "ORDER",
			ReferenceID:   refID,
			ReferenceNo:   refNo,
			CreatedBy:     userID,
		}
		if err := tx.Create(journal).Error; err != nil {
			return fmt.Errorf("记录库存流水失败: %w", err)
		}
	}
	return nil
}

// ModelCostSnapshot 完工入库时回写到型号上的成本快照
type ModelCostSnapshot struct {
	MaterialCost float64
	LabourCost   float64
	OtherCost    float64
	SellingPrice float64
	PhotoURL     string
}

// CreditModel 成品入库，型号不存在则创建
// costs 非nil时刷新型号成本/售价字段
func (s *StockService) CreditModel(tx *gorm.DB, modelName string, qty int, costs *ModelCostSnapshot, refType, refID, refNo, userID string) (*entity.SofaModel, error) {
	var model entity.SofaModel
	err := tx.Where("name = ? AND deleted_at IS NULL", modelName).First(&model).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("查询沙发型号失败: %w", err)
		}
		model = entity.SofaModel{
			ID:        uuid.New().String(),
			Name:      modelName,
			CreatedBy: userID,
		}
	}

	model.StockQty += qty
	if costs != nil {
		model.MaterialCost = costs.MaterialCost
		model.LabourCost = costs.LabourCost
		model.OtherCost = costs.OtherCost
		model.SellingPrice = costs.SellingPrice
		if costs.PhotoURL != "" {
			model.PhotoURL = costs.PhotoURL
		}
	}
	if err := tx.Save(&model).Error; err != nil {
		return nil, fmt.Errorf("成品入库失败: %w", err)
	}

	journal := &entity.StockTransaction{
		ID:            uuid.New().String(),
		ItemType:      entity.StockItemFinished,
		ItemID:        model.ID,
		ItemName:      model.Name,
		TxType:        entity.StockTxProductionIn,
		Quantity:      float64(qty),
		ReferenceType: refType,
		ReferenceID:   refID,
		ReferenceNo:   refNo,
		CreatedBy:     userID,
	}
	if err := tx.Create(journal).Error; err != nil {
		return nil, fmt.Errorf("记录库存流水失败: %w", err)
	}
	return &model, nil
}

// DeductModel 销售出库，成品库存不足直接报错（不做负库存）
func (s *StockService) DeductModel(tx *gorm.DB, modelID string, qty int, refID, refNo, userID string) error {
	var model entity.SofaModel
	if err := tx.Where("id = ? AND deleted_at IS NULL", modelID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("沙发型号 %w", ErrNotFound)
		}
		return fmt.Errorf("查询沙发型号失败: %w", err)
	}
	if model.StockQty < qty {
		return &InsufficientStockError{Shortages: []StockShortage{{
			MaterialID:   model.ID,
			MaterialName: model.Name,
			Required:     float64(qty),
			Available:    float64(model.StockQty),
			Shortage:     float64(qty - model.StockQty),
		}}}
	}
	model.StockQty -= qty
	if err := tx.Save(&model).Error; err != nil {
		return fmt.Errorf("成品出库失败: %w", err)
	}

	journal := &entity.StockTransaction{
		ID:            uuid.New().String(),
		ItemType:      entity.StockItemFinished,
		ItemID:        model.ID,
		ItemName:      model.Name,
		TxType:        entity.StockTxSalesOut,
		Quantity:      -float64(qty),
		ReferenceType: "SALE",
		ReferenceID:   refID,
		ReferenceNo:   refNo,
		CreatedBy:     userID,
	}
	if err := tx.Create(journal).Error; err != nil {
		return fmt.Errorf("记录库存流水失败: %w", err)
	}
	return nil
}

// AdjustMaterial 盘点调整，直接设置为盘点数量并记录差额流水
func (s *StockService) AdjustMaterial(materialID string, countedQty float64, note, userID string) (*entity.RawMaterial, error) {
	if countedQty < 0 {
		return nil, fmt.Errorf("%w: 盘点数量不能为负", ErrValidation)
	}
	var updated *entity.RawMaterial
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var mat entity.RawMaterial
		if err := tx.Where("id = ? AND deleted_at IS NULL", materialID).First(&mat).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("物料 %w", ErrNotFound)
			}
			return fmt.Errorf("查询物料失败: %w", err)
		}
		delta := countedQty - mat.Quantity
		mat.Quantity = countedQty
		if err := tx.Save(&mat).Error; err != nil {
			return fmt.Errorf("更新物料库存失败: %w", err)
		}
		journal := &entity.StockTransaction{
			ID:            uuid.New().String(),
			ItemType:      entity.StockItemRaw,
			ItemID:        mat.ID,
			ItemName:      mat.Name,
			TxType:        entity.StockTxAdjust,
			Quantity:      delta,
			ReferenceType: "MANUAL",
			Notes:         note,
			CreatedBy:     userID,
		}
		if err := tx.Create(journal).Error; err != nil {
			return fmt.Errorf("记录库存流水失败: %w", err)
		}
		updated = &mat
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("库存盘点调整",
		zap.String("material_id", updated.ID),
		zap.Float64("quantity", updated.Quantity),
		zap.String("operator", userID),
	)
	return updated, nil
}

// InboundMaterial 采购入库，数量为正，可同时更新最新采购单价
func (s *StockService) InboundMaterial(materialID string, qty, unitCost float64, note, userID string) (*entity.RawMaterial, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: 入库数量必须大于0", ErrValidation)
	}
	var updated *entity.RawMaterial
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var mat entity.RawMaterial
		if err := tx.Where("id = ? AND deleted_at IS NULL", materialID).First(&mat).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("物料 %w", ErrNotFound)
			}
			return fmt.Errorf("查询物料失败: %w", err)
		}
		mat.Quantity += qty
		if unitCost > 0 {
			mat.UnitCost = unitCost
		}
		if err := tx.Save(&mat).Error; err != nil {
			return fmt.Errorf("更新物料库存失败: %w", err)
		}
		journal := &entity.StockTransaction{
			ID:            uuid.New().String(),
			ItemType:      entity.StockItemRaw,
			ItemID:        mat.ID,
			ItemName:      mat.Name,
			TxType:        entity.StockTxPurchaseIn,
			Quantity:      qty,
			ReferenceType: "MANUAL",
			Notes:         note,
			CreatedBy:     userID,
		}
		if err := tx.Create(journal).Error; err != nil {
			return fmt.Errorf("记录库存流水失败: %w", err)
		}
		updated = &mat
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
