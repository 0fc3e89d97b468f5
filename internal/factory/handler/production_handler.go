package handler

import (
	"github.com/craftwood/sofa-erp/internal/factory/repository"
	"github.com/craftwood/sofa-erp/internal/factory/service"
	"github.com/gin-gonic/gin"
)

type ProductionHandler struct {
	prodSvc *service.ProductionService
}

func NewProductionHandler(prodSvc *service.ProductionService) *ProductionHandler {
	return &ProductionHandler{prodSvc: prodSvc}
}

func (h *ProductionHandler) Create(c *gin.Context) {
	var req service.CreateProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数格式错误: "+err.Error())
		return
	}
	p, err := h.prodSvc.Create(req, GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, p)
}

func (h *ProductionHandler) Get(c *gin.Context) {
	p, err := h.prodSvc.GetByID(c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, p)
}

func (h *ProductionHandler) List(c *gin.Context) {
	page, size := PageParams(c)
	params := repository.ProductionListParams{
		Status:      c.Query("status"),
		SofaModelID: c.Query("sofa_model_id"),
		Page:        page,
		Size:        size,
	}
	items, total, err := h.prodSvc.List(params)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, PagedData(items, total, page, size))
}

func (h *ProductionHandler) Start(c *gin.Context) {
	p, err := h.prodSvc.Start(c.Param("id"), GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, p)
}

func (h *ProductionHandler) Complete(c *gin.Context) {
	p, err := h.prodSvc.Complete(c.Param("id"), GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, p)
}

func (h *ProductionHandler) Cancel(c *gin.Context) {
	p, err := h.prodSvc.Cancel(c.Param("id"), GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, p)
}
