package handler

import (
	"github.com/craftwood/sofa-erp/internal/factory/repository"
	"github.com/craftwood/sofa-erp/internal/factory/service"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderSvc *service.OrderService
}

func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// Create 创建订单
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数格式错误: "+err.Error())
		return
	}
	order, err := h.orderSvc.Create(req, GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, order)
}

// Get 订单详情（含BOM、人工、杂项和状态历史）
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.orderSvc.GetByID(c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, order)
}

// List 订单列表
func (h *OrderHandler) List(c *gin.Context) {
	page, size := PageParams(c)
	params := repository.OrderListParams{
		Status:  c.Query("status"),
		Kind:    c.Query("kind"),
		Keyword: c.Query("keyword"),
		Page:    page,
		Size:    size,
	}
	orders, total, err := h.orderSvc.List(params)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, PagedData(orders, total, page, size))
}

type orderNoteRequest struct {
	Note string `json:"note"`
}

// Approve 审批通过
func (h *OrderHandler) Approve(c *gin.Context) {
	var req orderNoteRequest
	c.ShouldBindJSON(&req)
	order, err := h.orderSvc.Approve(c.Param("id"), req.Note, GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, order)
}

// Cancel 取消订单
func (h *OrderHandler) Cancel(c *gin.Context) {
	var req orderNoteRequest
	c.ShouldBindJSON(&req)
	order, err := h.orderSvc.Cancel(c.Param("id"), req.Note, GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, order)
}

// StartProduction 投产，库存不足返回409和缺料明细
func (h *OrderHandler) StartProduction(c *gin.Context) {
	order, warnings, err := h.orderSvc.StartProduction(c.Param("id"), GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, gin.H{"order": order, "purchase_warnings": warnings})
}

type completeStockRequest struct {
	SellingPrice float64 `json:"selling_price" binding:"required,gt=0"`
	PhotoURL     string  `json:"photo_url"`
}

// Complete 备货订单完工入库
func (h *OrderHandler) Complete(c *gin.Context) {
	var req completeStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数格式错误: "+err.Error())
		return
	}
	fp, err := h.orderSvc.CompleteStock(c.Param("id"), req.SellingPrice, req.PhotoURL, GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, fp)
}

// MarkReady 客户订单生产完成待发货
func (h *OrderHandler) MarkReady(c *gin.Context) {
	order, err := h.orderSvc.MarkReadyForDelivery(c.Param("id"), GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, order)
}

type deliverRequest struct {
	DeliveryDate string `json:"delivery_date"` // YYYY-MM-DD
	Notes        string `json:"notes"`
	PhotoURL     string `json:"photo_url"`
}

// Deliver 确认交付，返回自动生成的销售记录
func (h *OrderHandler) Deliver(c *gin.Context) {
	var req deliverRequest
	c.ShouldBindJSON(&req)
	sale, err := h.orderSvc.ConfirmDelivery(c.Param("id"), req.DeliveryDate, req.Notes, req.PhotoURL, GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, sale)
}
