package entity

import (
	"time"
)

// OrderStatus 订单状态（唯一定义，所有界面/接口共用，避免多处枚举漂移）
const (
	OrderStatusPendingApproval  = "PENDING_APPROVAL"
	OrderStatusApproved         = "APPROVED"
	OrderStatusInProduction     = "IN_PRODUCTION"
	OrderStatusCompleted        = "COMPLETED"          // 备货订单终态
	OrderStatusReadyForDelivery = "READY_FOR_DELIVERY" // 仅客户订单
	OrderStatusDelivered        = "DELIVERED"          // 客户订单终态
	OrderStatusCancelled        = "CANCELLED"
)

// OrderKind 订单类型
const (
	OrderKindStock    = "STOCK"    // 备货生产
	OrderKindCustomer = "CUSTOMER" // 客户订单
)

// OrderStatusMeta 状态展示与流转元数据
type OrderStatusMeta struct {
	Label  string   `json:"label"`
	Color  string   `json:"color"`
	Events []string `json:"events"` // 当前状态允许的操作
}

// OrderStatusTable 状态查表，渲染标签/颜色/下一步操作统一走这里
var OrderStatusTable = map[string]OrderStatusMeta{
	OrderStatusPendingApproval:  {Label: "待审批", Color: "orange", Events: []string{"approve", "cancel"}},
	OrderStatusApproved:         {Label: "已审批", Color: "blue", Events: []string{"start-production", "cancel"}},
	OrderStatusInProduction:     {Label: "生产中", Color: "cyan", Events: []string{"complete", "ready"}},
	OrderStatusCompleted:        {Label: "已完工入库", Color: "green", Events: []string{}},
	OrderStatusReadyForDelivery: {Label: "待发货", Color: "purple", Events: []string{"deliver"}},
	OrderStatusDelivered:        {Label: "已交付", Color: "green", Events: []string{}},
	OrderStatusCancelled:        {Label: "已取消", Color: "red", Events: []string{}},
}

// IsValidOrderStatus 判断状态是否为已定义状态
func IsValidOrderStatus(status string) bool {
	_, ok := OrderStatusTable[status]
	return ok
}

// Order 生产订单
// 成本字段在创建时快照，后续原材料价格变动不回填
type Order struct {
	ID                  string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderNo             string     `json:"order_no" gorm:"size:50;not null;uniqueIndex"`
	Kind                string     `json:"kind" gorm:"size:20;not null;default:STOCK"`
	CustomerName        string     `json:"customer_name" gorm:"size:128"`
	CustomerPhone       string     `json:"customer_phone" gorm:"size:32"`
	ProductName         string     `json:"product_name" gorm:"size:128;not null"`
	SofaModelID         string     `json:"sofa_model_id" gorm:"type:uuid"`
	Quantity            int        `json:"quantity" gorm:"not null"`
	UnitPrice           float64    `json:"unit_price" gorm:"type:decimal(12,2);default:0"`
	DueDate             *time.Time `json:"due_date"`
	Status              string     `json:"status" gorm:"size:30;not null;default:PENDING_APPROVAL;index"`
	MaterialCostPerUnit float64    `json:"material_cost_per_unit" gorm:"type:decimal(12,2);default:0"`
	LabourCostPerUnit   float64    `json:"labour_cost_per_unit" gorm:"type:decimal(12,2);default:0"`
	OtherCostPerUnit    float64    `json:"other_cost_per_unit" gorm:"type:decimal(12,2);default:0"`
	TotalProductionCost float64    `json:"total_production_cost" gorm:"type:decimal(12,2);default:0"`
	Notes               string     `json:"notes" gorm:"type:text"`
	CreatedBy           string     `json:"created_by" gorm:"size:64;not null"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	DeletedAt           *time.Time `json:"deleted_at" gorm:"index"`

	BOMLines    []OrderBOMLine    `json:"bom_lines,omitempty" gorm:"foreignKey:OrderID"`
	LabourLines []OrderLabourLine `json:"labour_lines,omitempty" gorm:"foreignKey:OrderID"`
	MiscLines   []OrderMiscLine   `json:"misc_lines,omitempty" gorm:"foreignKey:OrderID"`
	History     []OrderStatusLog  `json:"history,omitempty" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "factory_orders"
}

// OrderBOMLine 订单物料清单行
// MaterialID 为空表示自定义外购物料，不参与库存校验，单价为人工估价
type OrderBOMLine struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderID         string    `json:"order_id" gorm:"type:uuid;not null;index"`
	MaterialID      string    `json:"material_id" gorm:"type:uuid;index"`
	MaterialName    string    `json:"material_name" gorm:"size:128;not null"`
	QuantityPerUnit float64   `json:"quantity_per_unit" gorm:"type:decimal(12,4);not null"`
	Unit            string    `json:"unit" gorm:"size:20;not null;default:pcs"`
	UnitCost        float64   `json:"unit_cost" gorm:"type:decimal(12,2);default:0"`
	TotalNeeded     float64   `json:"total_needed" gorm:"type:decimal(12,4);default:0"`
	ToPurchase      bool      `json:"to_purchase" gorm:"default:false"` // 标记为外购
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (OrderBOMLine) TableName() string {
	return "factory_order_bom_lines"
}

// IsInventoryBacked 是否为库存物料行
func (l OrderBOMLine) IsInventoryBacked() bool {
	return l.MaterialID != ""
}

// OrderLabourLine 订单人工成本行
type OrderLabourLine struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderID      string    `json:"order_id" gorm:"type:uuid;not null;index"`
	WorkType     string    `json:"work_type" gorm:"size:64;not null"`
	CostPerPiece float64   `json:"cost_per_piece" gorm:"type:decimal(12,2);not null"`
	WorkerName   string    `json:"worker_name" gorm:"size:64"`
	CreatedAt    time.Time `json:"created_at"`
}

func (OrderLabourLine) TableName() string {
	return "factory_order_labour_lines"
}

// OrderMiscLine 订单杂项成本行
type OrderMiscLine struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderID     string    `json:"order_id" gorm:"type:uuid;not null;index"`
	Description string    `json:"description" gorm:"size:128;not null"`
	Amount      float64   `json:"amount" gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time `json:"created_at"`
}

func (OrderMiscLine) TableName() string {
	return "factory_order_misc_lines"
}

// OrderStatusLog 订单状态历史，只追加不修改
type OrderStatusLog struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	OrderID   string    `json:"order_id" gorm:"type:uuid;not null;index"`
	Status    string    `json:"status" gorm:"size:30;not null"`
	Note      string    `json:"note" gorm:"type:text"`
	CreatedBy string    `json:"created_by" gorm:"size:64"`
	CreatedAt time.Time `json:"created_at"`
}

func (OrderStatusLog) TableName() string {
	return "factory_order_status_logs"
}
