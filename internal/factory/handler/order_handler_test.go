package handler

import (
	"net/http"
	"testing"

	"github.com/craftwood/sofa-erp/internal/factory/repository"
	"github.com/craftwood/sofa-erp/internal/factory/service"
	"github.com/craftwood/sofa-erp/internal/factory/testutil"
	"github.com/craftwood/sofa-erp/internal/shared/notify"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupOrderHandlerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	stockSvc := service.NewStockService(repos.Material, repos.Model, repos.Stock, db, zap.NewNop())
	orderSvc := service.NewOrderService(repos.Order, repos.Model, stockSvc, db, notify.NopNotifier{}, zap.NewNop())
	orderH := NewOrderHandler(orderSvc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1")

	orders := api.Group("/orders")
	orders.POST("", orderH.Create)
	orders.GET("", orderH.List)
	orders.GET("/:id", orderH.Get)
	orders.POST("/:id/approve", orderH.Approve)
	orders.POST("/:id/cancel", orderH.Cancel)
	orders.POST("/:id/start-production", orderH.StartProduction)
	orders.POST("/:id/complete", orderH.Complete)

	return router, db
}

func createOrderViaAPI(t *testing.T, router *gin.Engine, token string, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	w := testutil.DoRequest(router, "POST", "/api/v1/orders", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	return resp["data"].(map[string]interface{})
}

func TestOrderCreateAndGet(t *testing.T) {
	router, db := setupOrderHandlerTest(t)
	token := testutil.DefaultTestToken()
	fabric := testutil.SeedMaterial(t, db, "Fabric", 20, 20)

	order := createOrderViaAPI(t, router, token, map[string]interface{}{
		"kind":         "STOCK",
		"product_name": "Oslo 3-Seater",
		"quantity":     2,
		"unit_price":   1000,
		"bom_lines": []map[string]interface{}{
			{"material_id": fabric.ID, "quantity_per_unit": 5},
		},
		"labour_lines": []map[string]interface{}{
			{"work_type": "木工", "cost_per_piece": 100},
		},
	})

	if order["status"] != "PENDING_APPROVAL" {
		t.Errorf("Expected status PENDING_APPROVAL, got %v", order["status"])
	}
	// 材料 100 + 人工 100 = 200/件 × 2
	if order["total_production_cost"].(float64) != 400 {
		t.Errorf("Expected total cost 400, got %v", order["total_production_cost"])
	}
	// 操作人取自JWT
	if order["created_by"] != "test-user-001" {
		t.Errorf("Expected created_by test-user-001, got %v", order["created_by"])
	}

	orderID := order["id"].(string)
	w := testutil.DoRequest(router, "GET", "/api/v1/orders/"+orderID, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	history := data["history"].([]interface{})
	if len(history) != 1 {
		t.Errorf("Expected 1 history entry, got %d", len(history))
	}
}

func TestOrderRequiresAuth(t *testing.T) {
	router, _ := setupOrderHandlerTest(t)
	w := testutil.DoRequest(router, "GET", "/api/v1/orders", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}
}

func TestOrderStartProductionConflict(t *testing.T) {
	router, db := setupOrderHandlerTest(t)
	token := testutil.DefaultTestToken()
	// 库存 8，需要 10
	foam := testutil.SeedMaterial(t, db, "Foam", 8, 25)

	order := createOrderViaAPI(t, router, token, map[string]interface{}{
		"kind":         "STOCK",
		"product_name": "Oslo 3-Seater",
		"quantity":     2,
		"bom_lines": []map[string]interface{}{
			{"material_id": foam.ID, "quantity_per_unit": 5},
		},
	})
	orderID := order["id"].(string)

	w := testutil.DoRequest(router, "POST", "/api/v1/orders/"+orderID+"/approve", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("Approve expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// 库存不足 → 409 + 缺料明细
	w = testutil.DoRequest(router, "POST", "/api/v1/orders/"+orderID+"/start-production", nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	shortages := data["shortages"].([]interface{})
	if len(shortages) != 1 {
		t.Fatalf("Expected 1 shortage, got %d", len(shortages))
	}
	first := shortages[0].(map[string]interface{})
	if first["material_name"] != "Foam" {
		t.Errorf("Expected Foam shortage, got %v", first["material_name"])
	}
}

func TestOrderFullFlowViaAPI(t *testing.T) {
	router, db := setupOrderHandlerTest(t)
	token := testutil.DefaultTestToken()
	foam := testutil.SeedMaterial(t, db, "Foam", 12, 25)

	order := createOrderViaAPI(t, router, token, map[string]interface{}{
		"kind":         "STOCK",
		"product_name": "Oslo 3-Seater",
		"quantity":     2,
		"bom_lines": []map[string]interface{}{
			{"material_id": foam.ID, "quantity_per_unit": 5},
		},
	})
	orderID := order["id"].(string)

	for _, step := range []string{"approve", "start-production"} {
		w := testutil.DoRequest(router, "POST", "/api/v1/orders/"+orderID+"/"+step, nil, token)
		if w.Code != http.StatusOK {
			t.Fatalf("%s expected 200, got %d: %s", step, w.Code, w.Body.String())
		}
	}

	w := testutil.DoRequest(router, "POST", "/api/v1/orders/"+orderID+"/complete",
		map[string]interface{}{"selling_price": 1000}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("complete expected 200, got %d: %s", w.Code, w.Body.String())
	}
	fp := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if fp["total_value"].(float64) != 2000 {
		t.Errorf("Expected total value 2000, got %v", fp["total_value"])
	}

	// 完工后不能再取消
	w = testutil.DoRequest(router, "POST", "/api/v1/orders/"+orderID+"/cancel", nil, token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 cancelling completed order, got %d", w.Code)
	}
}

func TestOrderNotFound(t *testing.T) {
	router, _ := setupOrderHandlerTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(router, "GET", "/api/v1/orders/00000000-0000-0000-0000-000000000000", nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
