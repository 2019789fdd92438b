package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/raja1702/computer-storage-solutions/internal/analytics/pipeline"
	"github.com/raja1702/computer-storage-solutions/internal/domain/analytics"
	"github.com/raja1702/computer-storage-solutions/internal/domain/commerce"
)

type MonthlySales struct {
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	TotalSales decimal.Decimal `json:"totalSales"`
}

type MonthlyOrderCount struct {
	Year        int `json:"year"`
	Month       int `json:"month"`
	TotalOrders int `json:"totalOrders"`
}

type ProductUnits struct {
	ProductID   uuid.UUID `json:"productId"`
	ProductName string    `json:"productName"`
	UnitsSold   int64     `json:"unitsSold"`
}

type ProductPopularity struct {
	Product   commerce.Product `json:"product"`
	UnitsSold int64            `json:"unitsSold"`
}

type OrderProducts struct {
	OrderID   uuid.UUID          `json:"orderId"`
	OrderDate time.Time          `json:"orderDate"`
	Products  []commerce.Product `json:"products"`
}

type ProductOrderCustomer struct {
	OrderID   uuid.UUID     `json:"orderId"`
	OrderDate time.Time     `json:"orderDate"`
	ProductID uuid.UUID     `json:"productId"`
	Quantity  int           `json:"quantity"`
	Customer  commerce.User `json:"customer"`
}

func projectMonthlySales(groups []pipeline.Group[commerce.Order, pipeline.MonthKey]) []MonthlySales {
	out := make([]MonthlySales, 0, len(groups))
	for _, g := range groups {
		out = append(out, MonthlySales{Year: g.Key.Year, Month: g.Key.Month, TotalSales: g.Value.Round(2)})
	}
	return out
}

func projectMonthlyCounts(groups []pipeline.Group[commerce.Order, pipeline.MonthKey]) []MonthlyOrderCount {
	out := make([]MonthlyOrderCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, MonthlyOrderCount{Year: g.Key.Year, Month: g.Key.Month, TotalOrders: int(g.Value.IntPart())})
	}
	return out
}

func projectProductUnits(groups []pipeline.Group[lineFact, uuid.UUID], products map[uuid.UUID]commerce.Product) []ProductUnits {
	out := make([]ProductUnits, 0, len(groups))
	for _, g := range groups {
		out = append(out, ProductUnits{ProductID: g.Key, ProductName: products[g.Key].Name, UnitsSold: g.Value.IntPart()})
	}
	return out
}

func projectPopularity(groups []pipeline.Group[lineFact, uuid.UUID], products map[uuid.UUID]commerce.Product) []ProductPopularity {
	out := make([]ProductPopularity, 0, len(groups))
	for _, g := range groups {
		out = append(out, ProductPopularity{Product: products[g.Key], UnitsSold: g.Value.IntPart()})
	}
	return out
}

// projectOrderProducts lists each order's line products in line order. A
// product bought on two lines appears twice.
func projectOrderProducts(op string, orders []commerce.Order, lines []commerce.OrderLine, products map[uuid.UUID]commerce.Product) ([]OrderProducts, error) {
	byOrder := make(map[uuid.UUID][]commerce.Product, len(orders))
	for _, l := range lines {
		p, ok := products[l.ProductID]
		if !ok {
			return nil, analytics.DataIntegrity(op, "order line %s references missing product %s", l.ID, l.ProductID)
		}
		byOrder[l.OrderID] = append(byOrder[l.OrderID], p)
	}
	out := make([]OrderProducts, 0, len(orders))
	for _, o := range orders {
		items := byOrder[o.ID]
		if items == nil {
			items = []commerce.Product{}
		}
		out = append(out, OrderProducts{OrderID: o.ID, OrderDate: o.OrderDate, Products: items})
	}
	return out, nil
}

func projectProductOrderCustomers(facts []lineFact, users map[uuid.UUID]commerce.User) []ProductOrderCustomer {
	out := make([]ProductOrderCustomer, 0, len(facts))
	for _, f := range facts {
		out = append(out, ProductOrderCustomer{
			OrderID:   f.Order.ID,
			OrderDate: f.Order.OrderDate,
			ProductID: f.Line.ProductID,
			Quantity:  f.Line.Quantity,
			Customer:  users[f.Order.UserID],
		})
	}
	return out
}
