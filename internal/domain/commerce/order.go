package commerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is an immutable historical fact once committed. TotalAmount equals the
// sum of its lines' Quantity*UnitPrice; the placement workflow enforces that.
type Order struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"order_id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_orders_user_date,priority:1;column:user_id" json:"user_id"`
	OrderDate   time.Time       `gorm:"not null;index:idx_orders_user_date,priority:2;index:idx_orders_date;column:order_date" json:"order_date"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;column:total_amount" json:"total_amount"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
}

func (Order) TableName() string { return "orders" }

type OrderLine struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index;column:order_id" json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index;column:product_id" json:"product_id"`
	Quantity  int             `gorm:"not null;column:quantity" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;column:unit_price" json:"unit_price"`
}

func (OrderLine) TableName() string { return "order_lines" }

// LineTotal is Quantity*UnitPrice.
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
