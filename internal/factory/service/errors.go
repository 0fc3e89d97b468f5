package service

import (
	"errors"
	"fmt"
	"strings"
)

// 业务错误哨兵，handler 层用 errors.Is/As 映射HTTP状态码
var (
	ErrNotFound          = errors.New("记录不存在")
	ErrInvalidTransition = errors.New("当前状态不允许该操作")
	ErrValidation        = errors.New("参数校验失败")
)

// StockShortage 单行缺料明细
type StockShortage struct {
	MaterialID   string  `json:"material_id"`
	MaterialName string  `json:"material_name"`
	Required     float64 `json:"required"`
	Available    float64 `json:"available"`
	Shortage     float64 `json:"shortage"`
}

// InsufficientStockError 缺料错误，带全部缺料行，调用方可直接渲染
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s 缺 %.4g", s.MaterialName, s.Shortage))
	}
	return "库存不足: " + strings.Join(parts, ", ")
}
