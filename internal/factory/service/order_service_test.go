package service

import (
	"errors"
	"testing"

	"github.com/craftwood/sofa-erp/internal/factory/entity"
	"github.com/craftwood/sofa-erp/internal/factory/repository"
	"github.com/craftwood/sofa-erp/internal/factory/testutil"
	"github.com/craftwood/sofa-erp/internal/shared/notify"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupOrderTest(t *testing.T) (*OrderService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	stockSvc := NewStockService(repos.Material, repos.Model, repos.Stock, db, zap.NewNop())
	svc := NewOrderService(repos.Order, repos.Model, stockSvc, db, notify.NopNotifier{}, zap.NewNop())
	return svc, db
}

// 标准测试订单：2件，每件用 Fabric 5m + Foam 5块，人工 100/件，杂项 50/件
func createTestOrder(t *testing.T, svc *OrderService, db *gorm.DB, kind string, fabricQty, foamQty float64) (*entity.Order, *entity.RawMaterial, *entity.RawMaterial) {
	t.Helper()
	fabric := testutil.SeedMaterial(t, db, "Fabric", fabricQty, 20)
	foam := testutil.SeedMaterial(t, db, "Foam", foamQty, 20)

	req := CreateOrderRequest{
		Kind:        kind,
		ProductName: "Oslo 3-Seater",
		Quantity:    2,
		UnitPrice:   1000,
		BOMLines: []BOMLineInput{
			{MaterialID: fabric.ID, QuantityPerUnit: 5},
			{MaterialID: foam.ID, QuantityPerUnit: 5},
		},
		LabourLines: []LabourLineInput{
			{WorkType: "木工", CostPerPiece: 60},
			{WorkType: "缝纫", CostPerPiece: 40},
		},
		MiscLines: []MiscLineInput{
			{Description: "运输", Amount: 50},
		},
	}
	if kind == entity.OrderKindCustomer {
		req.CustomerName = "张三"
	}
	order, err := svc.Create(req, "user-001")
	if err != nil {
		t.Fatalf("Create order failed: %v", err)
	}
	return order, fabric, foam
}

func TestCreateOrderCostSnapshot(t *testing.T) {
	svc, db := setupOrderTest(t)
	order, _, _ := createTestOrder(t, svc, db, entity.OrderKindStock, 20, 20)

	// 材料成本 = 5×20 + 5×20 = 200/件
	if order.MaterialCostPerUnit != 200 {
		t.Errorf("Expected material cost per unit 200, got %v", order.MaterialCostPerUnit)
	}
	if order.LabourCostPerUnit != 100 {
		t.Errorf("Expected labour cost per unit 100, got %v", order.LabourCostPerUnit)
	}
	if order.OtherCostPerUnit != 50 {
		t.Errorf("Expected other cost per unit 50, got %v", order.OtherCostPerUnit)
	}
	// 总成本 = (200+100+50) × 2 = 700
	if order.TotalProductionCost != 700 {
		t.Errorf("Expected total production cost 700, got %v", order.TotalProductionCost)
	}
	if order.Status != entity.OrderStatusPendingApproval {
		t.Errorf("Expected status PENDING_APPROVAL, got %s", order.Status)
	}
	if len(order.History) != 1 {
		t.Errorf("Expected 1 history entry on creation, got %d", len(order.History))
	}
}

func TestCreateOrderCostSnapshotNotBackfilled(t *testing.T) {
	svc, db := setupOrderTest(t)
	order, fabric, _ := createTestOrder(t, svc, db, entity.OrderKindStock, 20, 20)

	// 创建后涨价，订单成本不变
	db.Model(&entity.RawMaterial{}).Where("id = ?", fabric.ID).Update("unit_cost", 99)

	reloaded, err := svc.GetByID(order.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if reloaded.MaterialCostPerUnit != 200 {
		t.Errorf("Expected snapshot cost 200 unchanged, got %v", reloaded.MaterialCostPerUnit)
	}
}

func TestStartProductionInsufficientStock(t *testing.T) {
	svc, db := setupOrderTest(t)
	// Foam 库存 8，需要 10
	order, fabric, foam := createTestOrder(t, svc, db, entity.OrderKindStock, 20, 8)

	if _, err := svc.Approve(order.ID, "", "user-001"); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}

	_, _, err := svc.StartProduction(order.ID, "user-001")
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("Expected InsufficientStockError, got %v", err)
	}
	if len(stockErr.Shortages) != 1 {
		t.Fatalf("Expected 1 shortage line, got %d", len(stockErr.Shortages))
	}
	if stockErr.Shortages[0].MaterialName != "Foam" || stockErr.Shortages[0].Shortage != 2 {
		t.Errorf("Expected Foam shortage 2, got %+v", stockErr.Shortages[0])
	}

	// 整单拒绝：任何物料都不扣减
	var f entity.RawMaterial
	db.First(&f, "id = ?", fabric.ID)
	if f.Quantity != 20 {
		t.Errorf("Expected Fabric stock unchanged at 20, got %v", f.Quantity)
	}
	db.First(&f, "id = ?", foam.ID)
	if f.Quantity != 8 {
		t.Errorf("Expected Foam stock unchanged at 8, got %v", f.Quantity)
	}

	// 订单状态不变
	reloaded, _ := svc.GetByID(order.ID)
	if reloaded.Status != entity.OrderStatusApproved {
		t.Errorf("Expected status still APPROVED, got %s", reloaded.Status)
	}
}

func TestStartProductionDeductsStock(t *testing.T) {
	svc, db := setupOrderTest(t)
	// Foam 库存 12，需要 10 → 剩 2
	order, _, foam := createTestOrder(t, svc, db, entity.OrderKindStock, 20, 12)

	if _, err := svc.Approve(order.ID, "", "user-001"); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	updated, warnings, err := svc.StartProduction(order.ID, "user-001")
	if err != nil {
		t.Fatalf("StartProduction failed: %v", err)
	}
	if updated.Status != entity.OrderStatusInProduction {
		t.Errorf("Expected status IN_PRODUCTION, got %s", updated.Status)
	}
	if len(warnings) != 0 {
		t.Errorf("Expected no purchase warnings, got %d", len(warnings))
	}

	var f entity.RawMaterial
	db.First(&f, "id = ?", foam.ID)
	if f.Quantity != 2 {
		t.Errorf("Expected Foam stock 2, got %v", f.Quantity)
	}

	// 重复投产被状态机拒绝，不会二次扣料
	_, _, err = svc.StartProduction(order.ID, "user-001")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Expected invalid transition on second start, got %v", err)
	}
	db.First(&f, "id = ?", foam.ID)
	if f.Quantity != 2 {
		t.Errorf("Expected Foam stock still 2 after rejected restart, got %v", f.Quantity)
	}
}

func TestStockOrderCompleteFlow(t *testing.T) {
	svc, db := setupOrderTest(t)
	order, _, _ := createTestOrder(t, svc, db, entity.OrderKindStock, 20, 20)

	svc.Approve(order.ID, "", "user-001")
	if _, _, err := svc.StartProduction(order.ID, "user-001"); err != nil {
		t.Fatalf("StartProduction failed: %v", err)
	}

	fp, err := svc.CompleteStock(order.ID, 1000, "", "user-001")
	if err != nil {
		t.Fatalf("CompleteStock failed: %v", err)
	}
	if fp.TotalValue != 2000 {
		t.Errorf("Expected finished product total value 2000, got %v", fp.TotalValue)
	}
	// 单件成本 = 700 / 2
	if fp.UnitCost != 350 {
		t.Errorf("Expected unit cost 350, got %v", fp.UnitCost)
	}

	// 成品计入型号库存，成本快照回写
	var model entity.SofaModel
	if err := db.First(&model, "name = ?", "Oslo 3-Seater").Error; err != nil {
		t.Fatalf("Expected sofa model created: %v", err)
	}
	if model.StockQty != 2 {
		t.Errorf("Expected model stock 2, got %d", model.StockQty)
	}
	if model.MaterialCost != 200 {
		t.Errorf("Expected model material cost 200, got %v", model.MaterialCost)
	}

	reloaded, _ := svc.GetByID(order.ID)
	if reloaded.Status != entity.OrderStatusCompleted {
		t.Errorf("Expected status COMPLETED, got %s", reloaded.Status)
	}
	// 历史：创建 → 审批 → 投产 → 完工
	if len(reloaded.History) != 4 {
		t.Errorf("Expected 4 history entries, got %d", len(reloaded.History))
	}
}

func TestCustomerOrderDeliveryFlow(t *testing.T) {
	svc, db := setupOrderTest(t)
	order, _, _ := createTestOrder(t, svc, db, entity.OrderKindCustomer, 20, 20)

	svc.Approve(order.ID, "", "user-001")
	if _, _, err := svc.StartProduction(order.ID, "user-001"); err != nil {
		t.Fatalf("StartProduction failed: %v", err)
	}

	// 客户订单不能走完工入库
	if _, err := svc.CompleteStock(order.ID, 1000, "", "user-001"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected invalid transition for CompleteStock on customer order, got %v", err)
	}

	if _, err := svc.MarkReadyForDelivery(order.ID, "user-001"); err != nil {
		t.Fatalf("MarkReadyForDelivery failed: %v", err)
	}

	sale, err := svc.ConfirmDelivery(order.ID, "2026-02-01", "按期交付", "", "user-001")
	if err != nil {
		t.Fatalf("ConfirmDelivery failed: %v", err)
	}
	if sale.TotalAmount != 2000 {
		t.Errorf("Expected sale total 2000, got %v", sale.TotalAmount)
	}
	if sale.Profit != 1300 {
		t.Errorf("Expected profit 1300, got %v", sale.Profit)
	}
	if sale.ApprovalStatus != entity.SaleApprovalPending {
		t.Errorf("Expected sale pending approval, got %s", sale.ApprovalStatus)
	}

	reloaded, _ := svc.GetByID(order.ID)
	if reloaded.Status != entity.OrderStatusDelivered {
		t.Errorf("Expected status DELIVERED, got %s", reloaded.Status)
	}
	// 客户订单交付不增加成品库存
	var count int64
	db.Model(&entity.SofaModel{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no sofa model rows for customer order, got %d", count)
	}
}

func TestCancelOrder(t *testing.T) {
	svc, db := setupOrderTest(t)
	order, _, _ := createTestOrder(t, svc, db, entity.OrderKindStock, 20, 20)

	if _, err := svc.Cancel(order.ID, "客户取消", "user-001"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	// 已取消订单不能再审批
	if _, err := svc.Approve(order.ID, "", "user-001"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected invalid transition after cancel, got %v", err)
	}

	// 生产中订单不能取消
	order2, _, _ := createTestOrder(t, svc, db, entity.OrderKindStock, 200, 200)
	svc.Approve(order2.ID, "", "user-001")
	svc.StartProduction(order2.ID, "user-001")
	if _, err := svc.Cancel(order2.ID, "", "user-001"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected invalid transition cancelling in-production order, got %v", err)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	svc, _ := setupOrderTest(t)

	// 客户订单缺客户名
	_, err := svc.Create(CreateOrderRequest{
		Kind: entity.OrderKindCustomer, ProductName: "Oslo", Quantity: 1,
	}, "user-001")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected validation error for missing customer name, got %v", err)
	}

	// 自定义物料缺名称
	_, err = svc.Create(CreateOrderRequest{
		Kind: entity.OrderKindStock, ProductName: "Oslo", Quantity: 1,
		BOMLines: []BOMLineInput{{QuantityPerUnit: 2, EstimatedUnitCost: 10}},
	}, "user-001")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected validation error for unnamed custom line, got %v", err)
	}
}

func TestCustomBOMLineForcedToPurchase(t *testing.T) {
	svc, _ := setupOrderTest(t)

	order, err := svc.Create(CreateOrderRequest{
		Kind: entity.OrderKindStock, ProductName: "Oslo", Quantity: 2,
		BOMLines: []BOMLineInput{
			{MaterialName: "Imported Leather", QuantityPerUnit: 3, EstimatedUnitCost: 80},
		},
	}, "user-001")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(order.BOMLines) != 1 {
		t.Fatalf("Expected 1 BOM line, got %d", len(order.BOMLines))
	}
	line := order.BOMLines[0]
	if !line.ToPurchase {
		t.Error("Expected custom line marked to_purchase")
	}
	if line.IsInventoryBacked() {
		t.Error("Expected custom line not inventory backed")
	}
	// 估价进入成本快照
	if order.MaterialCostPerUnit != 240 {
		t.Errorf("Expected material cost per unit 240, got %v", order.MaterialCostPerUnit)
	}
}
