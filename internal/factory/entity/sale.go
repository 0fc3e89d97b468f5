package entity

import (
	"time"
)

// SaleApprovalStatus 销售审批状态
const (
	SaleApprovalPending  = "PENDING"
	SaleApprovalApproved = "APPROVED"
	SaleApprovalRejected = "REJECTED"
)

// SalePaymentStatus 回款状态，由 paid/total 推导，不可直接设置
const (
	PaymentStatusUnpaid  = "UNPAID"
	PaymentStatusPartial = "PARTIAL"
	PaymentStatusPaid    = "PAID"
)

// Sale 销售记录
// 客户订单交付时自动生成，也可手工录入
// DueAmount = TotalAmount - PaidAmount 恒成立
type Sale struct {
	ID             string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SaleNo         string     `json:"sale_no" gorm:"size:50;not null;uniqueIndex"`
	OrderID        string     `json:"order_id" gorm:"type:uuid;index"`
	SofaModelID    string     `json:"sofa_model_id" gorm:"type:uuid"`
	CustomerName   string     `json:"customer_name" gorm:"size:128"`
	CustomerPhone  string     `json:"customer_phone" gorm:"size:32"`
	ProductName    string     `json:"product_name" gorm:"size:128;not null"`
	Quantity       int        `json:"quantity" gorm:"not null"`
	UnitPrice      float64    `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	TotalAmount    float64    `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	TotalCost      float64    `json:"total_cost" gorm:"type:decimal(12,2);default:0"`
	Profit         float64    `json:"profit" gorm:"type:decimal(12,2);default:0"`
	PaidAmount     float64    `json:"paid_amount" gorm:"type:decimal(12,2);default:0"`
	DueAmount      float64    `json:"due_amount" gorm:"type:decimal(12,2);default:0"`
	ApprovalStatus string     `json:"approval_status" gorm:"size:20;not null;default:PENDING"`
	PaymentStatus  string     `json:"payment_status" gorm:"size:20;not null;default:UNPAID"`
	DeliveryDate   *time.Time `json:"delivery_date"`
	PhotoURL       string     `json:"photo_url" gorm:"size:512"`
	Notes          string     `json:"notes" gorm:"type:text"`
	CreatedBy      string     `json:"created_by" gorm:"size:64"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at" gorm:"index"`

	Payments []SalePayment `json:"payments,omitempty" gorm:"foreignKey:SaleID"`
}

func (Sale) TableName() string {
	return "factory_sales"
}

// DerivePaymentStatus 按已收金额推导回款状态
func (s Sale) DerivePaymentStatus() string {
	switch {
	case s.PaidAmount <= 0:
		return PaymentStatusUnpaid
	case s.PaidAmount < s.TotalAmount:
		return PaymentStatusPartial
	default:
		return PaymentStatusPaid
	}
}

// SalePayment 收款记录，只追加
type SalePayment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SaleID    string    `json:"sale_id" gorm:"type:uuid;not null;index"`
	Amount    float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	Method    string    `json:"method" gorm:"size:32"`
	Note      string    `json:"note" gorm:"type:text"`
	PaidAt    time.Time `json:"paid_at"`
	CreatedBy string    `json:"created_by" gorm:"size:64"`
	CreatedAt time.Time `json:"created_at"`
}

func (SalePayment) TableName() string {
	return "factory_sale_payments"
}
