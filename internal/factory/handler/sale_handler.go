package handler

import (
	"github.com/craftwood/sofa-erp/internal/factory/repository"
	"github.com/craftwood/sofa-erp/internal/factory/service"
	"github.com/gin-gonic/gin"
)

type SaleHandler struct {
	saleSvc *service.SaleService
}

func NewSaleHandler(saleSvc *service.SaleService) *SaleHandler {
	return &SaleHandler{saleSvc: saleSvc}
}

// Create 手工录入现货销售
func (h *SaleHandler) Create(c *gin.Context) {
	var req service.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数格式错误: "+err.Error())
		return
	}
	sale, err := h.saleSvc.Create(req, GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, sale)
}

// Get 销售详情（含收款记录）
func (h *SaleHandler) Get(c *gin.Context) {
	sale, err := h.saleSvc.GetByID(c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, sale)
}

func (h *SaleHandler) List(c *gin.Context) {
	page, size := PageParams(c)
	params := repository.SaleListParams{
		ApprovalStatus: c.Query("approval_status"),
		PaymentStatus:  c.Query("payment_status"),
		Keyword:        c.Query("keyword"),
		Page:           page,
		Size:           size,
	}
	items, total, err := h.saleSvc.List(params)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, PagedData(items, total, page, size))
}

// Approve 审批通过，现货销售在此出库
func (h *SaleHandler) Approve(c *gin.Context) {
	sale, err := h.saleSvc.Approve(c.Param("id"), GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, sale)
}

// Reject 审批拒绝
func (h *SaleHandler) Reject(c *gin.Context) {
	sale, err := h.saleSvc.Reject(c.Param("id"), GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, sale)
}

// RecordPayment 登记收款
func (h *SaleHandler) RecordPayment(c *gin.Context) {
	var req service.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数格式错误: "+err.Error())
		return
	}
	sale, err := h.saleSvc.RecordPayment(c.Param("id"), req, GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, sale)
}
