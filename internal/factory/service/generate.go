package service

import (
	"time"

	"github.com/craftwood/sofa-erp/internal/factory/entity"
	"github.com/google/uuid"
)

// CompletionData 备货订单完工数据
type CompletionData struct {
	SellingPrice float64
	PhotoURL     string
	CompletedAt  time.Time
}

// DeliveryData 客户订单交付数据
type DeliveryData struct {
	SaleNo       string
	DeliveryDate time.Time
	Notes        string
	PhotoURL     string
}

// BuildFinishedProduct 由订单和完工数据生成成品记录，不修改入参
func BuildFinishedProduct(order *entity.Order, data CompletionData) *entity.FinishedProduct {
	unitCost := 0.0
	if order.Quantity > 0 {
		unitCost = order.TotalProductionCost / float64(order.Quantity)
	}
	return &entity.FinishedProduct{
		ID:           uuid.New().String(),
		OrderID:      order.ID,
		OrderNo:      order.OrderNo,
		ProductName:  order.ProductName,
		Quantity:     order.Quantity,
		UnitCost:     unitCost,
		SellingPrice: data.SellingPrice,
		TotalValue:   data.SellingPrice * float64(order.Quantity),
		PhotoURL:     data.PhotoURL,
		ProducedAt:   data.CompletedAt,
		CreatedBy:    order.CreatedBy,
	}
}

// BuildSaleRecord 由订单和交付数据生成销售记录，不修改入参
// 销售初始为待审批、未回款，应收 = 总额
func BuildSaleRecord(order *entity.Order, data DeliveryData) *entity.Sale {
	totalAmount := order.UnitPrice * float64(order.Quantity)
	deliveryDate := data.DeliveryDate
	return &entity.Sale{
		ID:             uuid.New().String(),
		SaleNo:         data.SaleNo,
		OrderID:        order.ID,
		SofaModelID:    order.SofaModelID,
		CustomerName:   order.CustomerName,
		CustomerPhone:  order.CustomerPhone,
		ProductName:    order.ProductName,
		Quantity:       order.Quantity,
		UnitPrice:      order.UnitPrice,
		TotalAmount:    totalAmount,
		TotalCost:      order.TotalProductionCost,
		Profit:         totalAmount - order.TotalProductionCost,
		PaidAmount:     0,
		DueAmount:      totalAmount,
		ApprovalStatus: entity.SaleApprovalPending,
		PaymentStatus:  entity.PaymentStatusUnpaid,
		DeliveryDate:   &deliveryDate,
		PhotoURL:       data.PhotoURL,
		Notes:          data.Notes,
		CreatedBy:      order.CreatedBy,
	}
}
