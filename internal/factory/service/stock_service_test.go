package service

import (
	"errors"
	"testing"

	"github.com/craftwood/sofa-erp/internal/factory/entity"
	"github.com/craftwood/sofa-erp/internal/factory/repository"
	"github.com/craftwood/sofa-erp/internal/factory/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupStockTest(t *testing.T) (*StockService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewStockService(repos.Material, repos.Model, repos.Stock, db, zap.NewNop())
	return svc, db
}

func TestCheckAvailability(t *testing.T) {
	svc, db := setupStockTest(t)
	fabric := testutil.SeedMaterial(t, db, "Fabric", 20, 15)
	foam := testutil.SeedMaterial(t, db, "Foam", 8, 25)

	lines := []entity.OrderBOMLine{
		{MaterialID: fabric.ID, MaterialName: fabric.Name, QuantityPerUnit: 5},
		{MaterialID: foam.ID, MaterialName: foam.Name, QuantityPerUnit: 5},
	}

	// Foam: 需要 10，库存 8 → 不足
	result, err := svc.CheckAvailability(lines, 2)
	if err != nil {
		t.Fatalf("CheckAvailability failed: %v", err)
	}
	if result.Sufficient {
		t.Error("Expected insufficient stock")
	}
	var foamLine *LineAvailability
	for i := range result.Lines {
		if result.Lines[i].MaterialName == "Foam" {
			foamLine = &result.Lines[i]
		}
	}
	if foamLine == nil {
		t.Fatal("Expected Foam line in result")
	}
	if foamLine.Shortage != 2 {
		t.Errorf("Expected Foam shortage 2, got %v", foamLine.Shortage)
	}
}

func TestCheckAvailabilityCustomLineWarnsOnly(t *testing.T) {
	svc, db := setupStockTest(t)
	fabric := testutil.SeedMaterial(t, db, "Fabric", 20, 15)

	lines := []entity.OrderBOMLine{
		{MaterialID: fabric.ID, MaterialName: fabric.Name, QuantityPerUnit: 5},
		// 自定义外购料，不占库存
		{MaterialName: "Imported Leather", QuantityPerUnit: 3, ToPurchase: true},
	}

	result, err := svc.CheckAvailability(lines, 2)
	if err != nil {
		t.Fatalf("CheckAvailability failed: %v", err)
	}
	// 外购行不影响整体充足性判定
	if !result.Sufficient {
		t.Error("Expected sufficient: custom lines must not block")
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("Expected 1 purchase warning, got %d", len(result.Warnings))
	}
	if !result.Warnings[0].NeedsPurchase {
		t.Error("Expected warning flagged as needs_purchase")
	}
}

func TestDeductClampsToZero(t *testing.T) {
	svc, db := setupStockTest(t)
	// 库存 8，需要 10：扣到 0 为止，不出负数
	foam := testutil.SeedMaterial(t, db, "Foam", 8, 25)

	lines := []entity.OrderBOMLine{
		{MaterialID: foam.ID, MaterialName: foam.Name, QuantityPerUnit: 5},
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.Deduct(tx, lines, 2, "order-x", "ORD-X", "user-001")
	})
	if err != nil {
		t.Fatalf("Deduct failed: %v", err)
	}

	var mat entity.RawMaterial
	db.First(&mat, "id = ?", foam.ID)
	if mat.Quantity != 0 {
		t.Errorf("Expected quantity clamped to 0, got %v", mat.Quantity)
	}

	// 流水记录的是实际扣减量
	var journal entity.StockTransaction
	if err := db.First(&journal, "item_id = ?", foam.ID).Error; err != nil {
		t.Fatalf("Expected stock transaction: %v", err)
	}
	if journal.Quantity != -8 {
		t.Errorf("Expected journal quantity -8, got %v", journal.Quantity)
	}
	if journal.TxType != entity.StockTxProductionOut {
		t.Errorf("Expected tx type PRODUCTION_OUT, got %s", journal.TxType)
	}
}

func TestCreditModelUpsertsByName(t *testing.T) {
	svc, db := setupStockTest(t)

	// 型号不存在时自动创建
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.CreditModel(tx, "Oslo 3-Seater", 2, &ModelCostSnapshot{
			MaterialCost: 200, LabourCost: 100, OtherCost: 50, SellingPrice: 1000,
		}, "ORDER", "order-1", "ORD-1", "user-001")
		return err
	})
	if err != nil {
		t.Fatalf("CreditModel failed: %v", err)
	}

	var model entity.SofaModel
	if err := db.First(&model, "name = ?", "Oslo 3-Seater").Error; err != nil {
		t.Fatalf("Expected model created: %v", err)
	}
	if model.StockQty != 2 {
		t.Errorf("Expected stock 2, got %d", model.StockQty)
	}
	if model.SellingPrice != 1000 {
		t.Errorf("Expected selling price 1000, got %v", model.SellingPrice)
	}

	// 同名再次入库累加
	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.CreditModel(tx, "Oslo 3-Seater", 3, nil, "ORDER", "order-2", "ORD-2", "user-001")
		return err
	})
	if err != nil {
		t.Fatalf("Second CreditModel failed: %v", err)
	}
	db.First(&model, "name = ?", "Oslo 3-Seater")
	if model.StockQty != 5 {
		t.Errorf("Expected stock 5 after second credit, got %d", model.StockQty)
	}
}

func TestDeductModelInsufficient(t *testing.T) {
	svc, db := setupStockTest(t)
	model := testutil.SeedModel(t, db, "Oslo 3-Seater", 1, 1000)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.DeductModel(tx, model.ID, 3, "sale-1", "SAL-1", "user-001")
	})
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("Expected InsufficientStockError, got %v", err)
	}
	if len(stockErr.Shortages) != 1 || stockErr.Shortages[0].Shortage != 2 {
		t.Errorf("Expected shortage 2, got %+v", stockErr.Shortages)
	}

	// 出库失败不留痕
	var m entity.SofaModel
	db.First(&m, "id = ?", model.ID)
	if m.StockQty != 1 {
		t.Errorf("Expected stock unchanged at 1, got %d", m.StockQty)
	}
}

func TestAdjustMaterial(t *testing.T) {
	svc, db := setupStockTest(t)
	foam := testutil.SeedMaterial(t, db, "Foam", 10, 25)

	updated, err := svc.AdjustMaterial(foam.ID, 7, "月末盘点", "user-001")
	if err != nil {
		t.Fatalf("AdjustMaterial failed: %v", err)
	}
	if updated.Quantity != 7 {
		t.Errorf("Expected quantity 7, got %v", updated.Quantity)
	}

	var journal entity.StockTransaction
	if err := db.First(&journal, "item_id = ? AND tx_type = ?", foam.ID, entity.StockTxAdjust).Error; err != nil {
		t.Fatalf("Expected adjust transaction: %v", err)
	}
	if journal.Quantity != -3 {
		t.Errorf("Expected journal delta -3, got %v", journal.Quantity)
	}
}

func TestInboundMaterial(t *testing.T) {
	svc, db := setupStockTest(t)
	foam := testutil.SeedMaterial(t, db, "Foam", 10, 25)

	updated, err := svc.InboundMaterial(foam.ID, 5, 28, "补货", "user-001")
	if err != nil {
		t.Fatalf("InboundMaterial failed: %v", err)
	}
	if updated.Quantity != 15 {
		t.Errorf("Expected quantity 15, got %v", updated.Quantity)
	}
	if updated.UnitCost != 28 {
		t.Errorf("Expected unit cost refreshed to 28, got %v", updated.UnitCost)
	}

	if _, err := svc.InboundMaterial(foam.ID, -1, 0, "", "user-001"); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected validation error for negative quantity, got %v", err)
	}
}
