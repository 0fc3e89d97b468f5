package handler

import (
	"github.com/craftwood/sofa-erp/internal/factory/repository"
	"github.com/craftwood/sofa-erp/internal/factory/service"
	"github.com/gin-gonic/gin"
)

type MaterialHandler struct {
	materialSvc *service.MaterialService
}

func NewMaterialHandler(materialSvc *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialSvc: materialSvc}
}

func (h *MaterialHandler) Create(c *gin.Context) {
	var req service.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数格式错误: "+err.Error())
		return
	}
	m, err := h.materialSvc.Create(req, GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, m)
}

func (h *MaterialHandler) Get(c *gin.Context) {
	m, err := h.materialSvc.GetByID(c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, m)
}

func (h *MaterialHandler) List(c *gin.Context) {
	page, size := PageParams(c)
	params := repository.MaterialListParams{
		Keyword:  c.Query("keyword"),
		LowStock: c.Query("low_stock") == "true",
		Page:     page,
		Size:     size,
	}
	items, total, err := h.materialSvc.List(params)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, PagedData(items, total, page, size))
}

func (h *MaterialHandler) Update(c *gin.Context) {
	var req service.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数格式错误: "+err.Error())
		return
	}
	m, err := h.materialSvc.Update(c.Param("id"), req)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, m)
}

func (h *MaterialHandler) Delete(c *gin.Context) {
	if err := h.materialSvc.Delete(c.Param("id")); err != nil {
		Error(c, err)
		return
	}
	Success(c, nil)
}

type adjustRequest struct {
	CountedQty float64 `json:"counted_qty" binding:"gte=0"`
	Note       string  `json:"note"`
}

// Adjust 盘点调整，库存直接设置为盘点数量
func (h *MaterialHandler) Adjust(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数格式错误: "+err.Error())
		return
	}
	m, err := h.materialSvc.Adjust(c.Param("id"), req.CountedQty, req.Note, GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, m)
}

type inboundRequest struct {
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
	UnitCost float64 `json:"unit_cost" binding:"gte=0"`
	Note     string  `json:"note"`
}

// Inbound 采购入库
func (h *MaterialHandler) Inbound(c *gin.Context) {
	var req inboundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数格式错误: "+err.Error())
		return
	}
	m, err := h.materialSvc.Inbound(c.Param("id"), req.Quantity, req.UnitCost, req.Note, GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, m)
}

// Alerts 低库存预警列表
func (h *MaterialHandler) Alerts(c *gin.Context) {
	alerts, err := h.materialSvc.Alerts()
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, alerts)
}
