package handler

import (
	"github.com/craftwood/sofa-erp/internal/factory/repository"
	"github.com/craftwood/sofa-erp/internal/factory/service"
	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	stockSvc *service.StockService
}

func NewStockHandler(stockSvc *service.StockService) *StockHandler {
	return &StockHandler{stockSvc: stockSvc}
}

// Transactions 库存流水查询
func (h *StockHandler) Transactions(c *gin.Context) {
	page, size := PageParams(c)
	params := repository.StockTxListParams{
		ItemType: c.Query("item_type"),
		ItemID:   c.Query("item_id"),
		TxType:   c.Query("tx_type"),
		Page:     page,
		Size:     size,
	}
	items, total, err := h.stockSvc.ListTransactions(params)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, PagedData(items, total, page, size))
}
