package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/raja1702/computer-storage-solutions/internal/domain/commerce"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: "A",
		LastName:  "B",
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, name, price string) *types.Product {
	tb.Helper()
	p := &types.Product{
		ID:        uuid.New(),
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     10,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

// LineSpec is one seeded order line.
type LineSpec struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice string
}

// SeedOrder inserts an order with its lines; the total is the sum of the lines.
func SeedOrder(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, at time.Time, lines ...LineSpec) (*types.Order, []types.OrderLine) {
	tb.Helper()
	o := &types.Order{
		ID:          uuid.New(),
		UserID:      userID,
		OrderDate:   at.UTC(),
		TotalAmount: decimal.Zero,
		CreatedAt:   time.Now().UTC(),
	}
	rows := make([]types.OrderLine, 0, len(lines))
	for i, spec := range lines {
		l := types.OrderLine{
			ID:        uuid.NewSHA1(o.ID, []byte(fmt.Sprintf("line-%d", i))),
			OrderID:   o.ID,
			ProductID: spec.ProductID,
			Quantity:  spec.Quantity,
			UnitPrice: decimal.RequireFromString(spec.UnitPrice),
		}
		o.TotalAmount = o.TotalAmount.Add(l.LineTotal())
		rows = append(rows, l)
	}
	if err := tx.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed order: %v", err)
	}
	if len(rows) > 0 {
		if err := tx.WithContext(ctx).Create(&rows).Error; err != nil {
			tb.Fatalf("seed order lines: %v", err)
		}
	}
	return o, rows
}
