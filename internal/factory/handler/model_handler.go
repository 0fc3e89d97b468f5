package handler

import (
	"github.com/craftwood/sofa-erp/internal/factory/repository"
	"github.com/craftwood/sofa-erp/internal/factory/service"
	"github.com/gin-gonic/gin"
)

type ModelHandler struct {
	modelSvc *service.ModelService
}

func NewModelHandler(modelSvc *service.ModelService) *ModelHandler {
	return &ModelHandler{modelSvc: modelSvc}
}

func (h *ModelHandler) Create(c *gin.Context) {
	var req service.CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数格式错误: "+err.Error())
		return
	}
	m, err := h.modelSvc.Create(req, GetUserID(c))
	if err != nil {
		Error(c, err)
		return
	}
	Created(c, m)
}

func (h *ModelHandler) Get(c *gin.Context) {
	m, err := h.modelSvc.GetByID(c.Param("id"))
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, m)
}

func (h *ModelHandler) List(c *gin.Context) {
	page, size := PageParams(c)
	params := repository.ModelListParams{
		Keyword: c.Query("keyword"),
		InStock: c.Query("in_stock") == "true",
		Page:    page,
		Size:    size,
	}
	items, total, err := h.modelSvc.List(params)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, PagedData(items, total, page, size))
}

func (h *ModelHandler) Update(c *gin.Context) {
	var req service.UpdateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数格式错误: "+err.Error())
		return
	}
	m, err := h.modelSvc.Update(c.Param("id"), req)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, m)
}

// FinishedProducts 完工成品记录列表
func (h *ModelHandler) FinishedProducts(c *gin.Context) {
	page, size := PageParams(c)
	items, total, err := h.modelSvc.ListFinishedProducts(page, size)
	if err != nil {
		Error(c, err)
		return
	}
	Success(c, PagedData(items, total, page, size))
}
