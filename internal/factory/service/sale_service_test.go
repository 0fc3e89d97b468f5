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

func setupSaleTest(t *testing.T) (*SaleService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	stockSvc := NewStockService(repos.Material, repos.Model, repos.Stock, db, zap.NewNop())
	svc := NewSaleService(repos.Sale, repos.Model, stockSvc, db)
	return svc, db
}

func TestManualSaleApproveDeductsModelStock(t *testing.T) {
	svc, db := setupSaleTest(t)
	model := testutil.SeedModel(t, db, "Oslo 3-Seater", 5, 1000)

	sale, err := svc.Create(CreateSaleRequest{
		SofaModelID:  model.ID,
		CustomerName: "李四",
		Quantity:     2,
	}, "user-001")
	if err != nil {
		t.Fatalf("Create sale failed: %v", err)
	}
	// 建档不动库存
	var m entity.SofaModel
	db.First(&m, "id = ?", model.ID)
	if m.StockQty != 5 {
		t.Errorf("Expected stock untouched at 5, got %d", m.StockQty)
	}

	approved, err := svc.Approve(sale.ID, "user-001")
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if approved.ApprovalStatus != entity.SaleApprovalApproved {
		t.Errorf("Expected APPROVED, got %s", approved.ApprovalStatus)
	}
	db.First(&m, "id = ?", model.ID)
	if m.StockQty != 3 {
		t.Errorf("Expected stock 3 after approval, got %d", m.StockQty)
	}

	// 出库流水
	var journal entity.StockTransaction
	if err := db.First(&journal, "item_id = ? AND tx_type = ?", model.ID, entity.StockTxSalesOut).Error; err != nil {
		t.Fatalf("Expected sales-out transaction: %v", err)
	}
	if journal.Quantity != -2 {
		t.Errorf("Expected journal quantity -2, got %v", journal.Quantity)
	}
}

func TestManualSaleApproveInsufficientStock(t *testing.T) {
	svc, db := setupSaleTest(t)
	model := testutil.SeedModel(t, db, "Oslo 3-Seater", 1, 1000)

	sale, err := svc.Create(CreateSaleRequest{
		SofaModelID:  model.ID,
		CustomerName: "李四",
		Quantity:     3,
	}, "user-001")
	if err != nil {
		t.Fatalf("Create sale failed: %v", err)
	}

	_, err = svc.Approve(sale.ID, "user-001")
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("Expected InsufficientStockError, got %v", err)
	}

	// 审批失败，状态和库存都回滚
	reloaded, _ := svc.GetByID(sale.ID)
	if reloaded.ApprovalStatus != entity.SaleApprovalPending {
		t.Errorf("Expected still PENDING, got %s", reloaded.ApprovalStatus)
	}
	var m entity.SofaModel
	db.First(&m, "id = ?", model.ID)
	if m.StockQty != 1 {
		t.Errorf("Expected stock unchanged at 1, got %d", m.StockQty)
	}
}

func TestOrderGeneratedSaleApproveSkipsStock(t *testing.T) {
	svc, db := setupSaleTest(t)
	model := testutil.SeedModel(t, db, "Oslo 3-Seater", 5, 1000)

	// 订单交付生成的销售记录带 OrderID，货已直接交付客户
	sale := &entity.Sale{
		ID:             "sale-order-1",
		SaleNo:         "SAL-TEST-0001",
		OrderID:        "order-001",
		SofaModelID:    model.ID,
		ProductName:    model.Name,
		Quantity:       2,
		UnitPrice:      1000,
		TotalAmount:    2000,
		DueAmount:      2000,
		ApprovalStatus: entity.SaleApprovalPending,
		PaymentStatus:  entity.PaymentStatusUnpaid,
	}
	if err := db.Create(sale).Error; err != nil {
		t.Fatalf("Seed sale failed: %v", err)
	}

	if _, err := svc.Approve(sale.ID, "user-001"); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	var m entity.SofaModel
	db.First(&m, "id = ?", model.ID)
	if m.StockQty != 5 {
		t.Errorf("Expected stock untouched for order-generated sale, got %d", m.StockQty)
	}
}

func TestRecordPaymentDerivesStatus(t *testing.T) {
	svc, db := setupSaleTest(t)
	model := testutil.SeedModel(t, db, "Oslo 3-Seater", 5, 1000)

	sale, _ := svc.Create(CreateSaleRequest{
		SofaModelID:  model.ID,
		CustomerName: "李四",
		Quantity:     2,
	}, "user-001")

	// 未审批不能收款
	_, err := svc.RecordPayment(sale.ID, RecordPaymentRequest{Amount: 500}, "user-001")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected invalid transition before approval, got %v", err)
	}

	svc.Approve(sale.ID, "user-001")

	// 部分收款
	updated, err := svc.RecordPayment(sale.ID, RecordPaymentRequest{Amount: 500, Method: "transfer"}, "user-001")
	if err != nil {
		t.Fatalf("RecordPayment failed: %v", err)
	}
	if updated.PaidAmount != 500 || updated.DueAmount != 1500 {
		t.Errorf("Expected paid 500 due 1500, got paid %v due %v", updated.PaidAmount, updated.DueAmount)
	}
	if updated.PaymentStatus != entity.PaymentStatusPartial {
		t.Errorf("Expected PARTIAL, got %s", updated.PaymentStatus)
	}

	// 超收被拒
	_, err = svc.RecordPayment(sale.ID, RecordPaymentRequest{Amount: 2000}, "user-001")
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected validation error for overpayment, got %v", err)
	}

	// 收齐
	updated, err = svc.RecordPayment(sale.ID, RecordPaymentRequest{Amount: 1500}, "user-001")
	if err != nil {
		t.Fatalf("Final RecordPayment failed: %v", err)
	}
	if updated.PaymentStatus != entity.PaymentStatusPaid {
		t.Errorf("Expected PAID, got %s", updated.PaymentStatus)
	}
	if updated.DueAmount != 0 {
		t.Errorf("Expected due 0, got %v", updated.DueAmount)
	}
	if len(updated.Payments) != 2 {
		t.Errorf("Expected 2 payment records, got %d", len(updated.Payments))
	}
}

func TestRejectSale(t *testing.T) {
	svc, db := setupSaleTest(t)
	model := testutil.SeedModel(t, db, "Oslo 3-Seater", 5, 1000)

	sale, _ := svc.Create(CreateSaleRequest{
		SofaModelID:  model.ID,
		CustomerName: "李四",
		Quantity:     1,
	}, "user-001")

	rejected, err := svc.Reject(sale.ID, "user-001")
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if rejected.ApprovalStatus != entity.SaleApprovalRejected {
		t.Errorf("Expected REJECTED, got %s", rejected.ApprovalStatus)
	}

	// 已拒绝不能再审批
	if _, err := svc.Approve(sale.ID, "user-001"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected invalid transition, got %v", err)
	}
}
