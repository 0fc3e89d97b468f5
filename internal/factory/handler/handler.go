package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/craftwood/sofa-erp/internal/factory/service"
	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "success", Data: data})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Code: 40000, Message: message})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Response{Code: 40100, Message: message})
}

func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, Response{Code: 40300, Message: message})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Response{Code: 40400, Message: message})
}

func Conflict(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusConflict, Response{Code: 40900, Message: message, Data: data})
}

func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, Response{Code: 50000, Message: message})
}

// Error 按业务错误类型映射HTTP状态码
func Error(c *gin.Context, err error) {
	var stockErr *service.InsufficientStockError
	switch {
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, err.Error())
	case errors.As(err, &stockErr):
		Conflict(c, stockErr.Error(), gin.H{"shortages": stockErr.Shortages})
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrValidation):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrUserDisabled):
		Forbidden(c, err.Error())
	default:
		InternalError(c, err.Error())
	}
}

// GetUserID 从请求上下文取当前操作人
func GetUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// PageParams 解析分页参数
func PageParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 200 {
		size = 20
	}
	return page, size
}

// PagedData 列表响应数据
func PagedData(items interface{}, total int64, page, size int) gin.H {
	return gin.H{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	}
}
