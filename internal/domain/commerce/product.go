package commerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"not null;column:name" json:"name"`
	Description string          `gorm:"column:description" json:"description,omitempty"`
	Category    string          `gorm:"index;column:category" json:"category,omitempty"`
	// Reference price; a line's transacted price may differ.
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null;column:price" json:"price"`
	Stock      int             `gorm:"not null;default:0;column:stock" json:"stock"`
	Attributes datatypes.JSON  `gorm:"column:attributes" json:"attributes,omitempty"`
	CreatedAt  time.Time       `gorm:"not null" json:"created_at"`
}

func (Product) TableName() string { return "products" }
