package entity

import (
	"time"
)

// ProductionStatus 生产跟踪状态（独立于订单工作流的简化看板）
const (
	ProductionStatusPending    = "PENDING"
	ProductionStatusInProgress = "IN_PROGRESS"
	ProductionStatusCompleted  = "COMPLETED"
	ProductionStatusCancelled  = "CANCELLED"
)

// Production 生产跟踪记录
type Production struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SofaModelID string     `json:"sofa_model_id" gorm:"type:uuid;not null;index"`
	ModelName   string     `json:"model_name" gorm:"size:128"`
	OrderID     string     `json:"order_id" gorm:"type:uuid;index"`
	Quantity    int        `json:"quantity" gorm:"not null"`
	Status      string     `json:"status" gorm:"size:20;not null;default:PENDING"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Notes       string     `json:"notes" gorm:"type:text"`
	CreatedBy   string     `json:"created_by" gorm:"size:64"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at" gorm:"index"`
}

func (Production) TableName() string {
	return "factory_productions"
}
