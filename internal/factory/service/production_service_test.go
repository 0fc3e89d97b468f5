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

func setupProductionTest(t *testing.T) (*ProductionService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	stockSvc := NewStockService(repos.Material, repos.Model, repos.Stock, db, zap.NewNop())
	svc := NewProductionService(repos.Production, repos.Model, stockSvc, db)
	return svc, db
}

func TestProductionLifecycle(t *testing.T) {
	svc, db := setupProductionTest(t)
	model := testutil.SeedModel(t, db, "Oslo 3-Seater", 2, 1000)

	p, err := svc.Create(CreateProductionRequest{
		SofaModelID: model.ID,
		Quantity:    3,
	}, "user-001")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Status != entity.ProductionStatusPending {
		t.Errorf("Expected PENDING, got %s", p.Status)
	}

	// 未开工不能完工
	if _, err := svc.Complete(p.ID, "user-001"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected invalid transition completing pending record, got %v", err)
	}

	started, err := svc.Start(p.ID, "user-001")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if started.StartedAt == nil {
		t.Error("Expected started_at set")
	}

	completed, err := svc.Complete(p.ID, "user-001")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if completed.CompletedAt == nil {
		t.Error("Expected completed_at set")
	}

	// 完工数量计入型号库存并落流水
	var m entity.SofaModel
	db.First(&m, "id = ?", model.ID)
	if m.StockQty != 5 {
		t.Errorf("Expected model stock 5, got %d", m.StockQty)
	}
	var journal entity.StockTransaction
	if err := db.First(&journal, "reference_type = ? AND reference_id = ?", "PRODUCTION", p.ID).Error; err != nil {
		t.Fatalf("Expected production-in transaction: %v", err)
	}
	if journal.Quantity != 3 {
		t.Errorf("Expected journal quantity 3, got %v", journal.Quantity)
	}

	// 已完工不能取消
	if _, err := svc.Cancel(p.ID, "user-001"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Expected invalid transition cancelling completed record, got %v", err)
	}
}

func TestProductionCancel(t *testing.T) {
	svc, db := setupProductionTest(t)
	model := testutil.SeedModel(t, db, "Oslo 3-Seater", 0, 1000)

	p, _ := svc.Create(CreateProductionRequest{SofaModelID: model.ID, Quantity: 2}, "user-001")
	cancelled, err := svc.Cancel(p.ID, "user-001")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.Status != entity.ProductionStatusCancelled {
		t.Errorf("Expected CANCELLED, got %s", cancelled.Status)
	}

	// 取消不动库存
	var m entity.SofaModel
	db.First(&m, "id = ?", model.ID)
	if m.StockQty != 0 {
		t.Errorf("Expected stock 0, got %d", m.StockQty)
	}
}
