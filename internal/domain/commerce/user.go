package commerce

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	FirstName    string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName     string    `gorm:"not null;column:last_name" json:"last_name"`
	Phone        string    `gorm:"column:phone" json:"phone,omitempty"`
	Address      string    `gorm:"column:address" json:"address,omitempty"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

func (User) TableName() string { return "users" }
