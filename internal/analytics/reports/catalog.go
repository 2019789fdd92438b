package reports

import (
	"cmp"
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/raja1702/computer-storage-solutions/internal/analytics/pipeline"
	"github.com/raja1702/computer-storage-solutions/internal/analytics/window"
	"github.com/raja1702/computer-storage-solutions/internal/domain/commerce"
)

// Name identifies a report in the catalog.
type Name string

const (
	TotalSalesMonthWise            Name = "total-sales-month-wise"
	TotalOrdersByCustomerMonthWise Name = "total-orders-by-customer-month-wise"
	OrdersByCustomerInMonth        Name = "orders-by-customer-in-month"
	CustomersWithNoRecentOrders    Name = "customers-with-no-orders-in-last-3-months"
	UnitsSoldInPriceRange          Name = "units-sold-in-price-range"
	MostPopularProduct             Name = "most-popular-product"
	LeastPopularProduct            Name = "least-popular-product"
	CustomerProductsInQuarter      Name = "customer-products-in-quarter"
	OrderAndCustomerForTopSeller   Name = "order-and-customer-for-highest-selling-product"
)

// Definition is one catalog entry: the parameters it takes and the plan that
// computes it.
type Definition struct {
	Name     Name    `json:"name"`
	Summary  string  `json:"summary"`
	Required []Param `json:"required"`
	Optional []Param `json:"optional,omitempty"`

	plan   plan
	decode func([]byte) (any, error)
}

func (d *Definition) params() []Param {
	out := make([]Param, 0, len(d.Required)+len(d.Optional))
	out = append(out, d.Required...)
	return append(out, d.Optional...)
}

func (d *Definition) declares(name Param) bool {
	for _, p := range d.params() {
		if p == name {
			return true
		}
	}
	return false
}

// env is what a plan sees during one invocation.
type env struct {
	ctx     context.Context
	ledger  commerce.Ledger
	windows window.Resolver
	params  Params
	op      string
}

type plan interface {
	execute(e env) (rows any, count int, err error)
}

func catalog() []*Definition {
	unitsSold := pipeline.Sum(pipeline.IntMeasure(func(f lineFact) int { return f.Line.Quantity }))
	return []*Definition{
		{
			Name:    TotalSalesMonthWise,
			Summary: "Sum of order totals per calendar month.",
			plan: monthlyOrdersPlan{
				scope:     func(env) (commerce.OrderQuery, error) { return commerce.OrderQuery{}, nil },
				aggregate: pipeline.Sum(func(o commerce.Order) decimal.Decimal { return o.TotalAmount }),
				project: func(g []pipeline.Group[commerce.Order, pipeline.MonthKey]) any {
					return projectMonthlySales(g)
				},
			},
			decode: decodeRows[MonthlySales],
		},
		{
			Name:     TotalOrdersByCustomerMonthWise,
			Summary:  "Number of orders a customer placed per calendar month.",
			Required: []Param{ParamCustomerID},
			plan: monthlyOrdersPlan{
				scope: func(e env) (commerce.OrderQuery, error) {
					return commerce.OrderQuery{UserID: e.params.CustomerID}, nil
				},
				aggregate: pipeline.Count[commerce.Order](),
				project: func(g []pipeline.Group[commerce.Order, pipeline.MonthKey]) any {
					return projectMonthlyCounts(g)
				},
			},
			decode: decodeRows[MonthlyOrderCount],
		},
		{
			Name:     OrdersByCustomerInMonth,
			Summary:  "Orders a customer placed in one calendar month.",
			Required: []Param{ParamCustomerID, ParamYear, ParamMonth},
			plan: orderListPlan{
				scope: func(e env) (commerce.OrderQuery, error) {
					rng, err := e.windows.Month(e.params.Year, e.params.Month)
					if err != nil {
						return commerce.OrderQuery{}, err
					}
					return commerce.OrderQuery{UserID: e.params.CustomerID, From: rng.Start, To: rng.End}, nil
				},
				project: func(_ env, orders []commerce.Order) (any, int, error) {
					return orders, len(orders), nil
				},
			},
			decode: decodeRows[commerce.Order],
		},
		{
			Name:     CustomersWithNoRecentOrders,
			Summary:  "Customers without any order in the last N months (default 3).",
			Optional: []Param{ParamMonths},
			plan:     quietCustomersPlan{},
			decode:   decodeRows[commerce.User],
		},
		{
			Name:     UnitsSoldInPriceRange,
			Summary:  "Units sold per product over lines whose unit price lies in [minPrice, maxPrice].",
			Required: []Param{ParamMinPrice, ParamMaxPrice},
			plan: productRankPlan{
				scope: func(e env) (commerce.LineQuery, error) {
					return commerce.LineQuery{MinUnitPrice: e.params.MinPrice, MaxUnitPrice: e.params.MaxPrice}, nil
				},
				aggregate: unitsSold,
				order:     pipeline.ByKey,
				project: func(g []pipeline.Group[lineFact, uuid.UUID], products map[uuid.UUID]commerce.Product) any {
					return projectProductUnits(g, products)
				},
			},
			decode: decodeRows[ProductUnits],
		},
		{
			Name:     MostPopularProduct,
			Summary:  "Product with the most units sold in a month; ties go to the lowest product id.",
			Required: []Param{ParamYear, ParamMonth},
			plan: productRankPlan{
				scope:     monthLines,
				aggregate: unitsSold,
				order:     pipeline.ByValueDesc,
				limit:     1,
				project: func(g []pipeline.Group[lineFact, uuid.UUID], products map[uuid.UUID]commerce.Product) any {
					return projectPopularity(g, products)
				},
			},
			decode: decodeRows[ProductPopularity],
		},
		{
			Name:     LeastPopularProduct,
			Summary:  "Product with the fewest units sold in a month among products that sold; ties go to the lowest product id.",
			Required: []Param{ParamYear, ParamMonth},
			plan: productRankPlan{
				scope:     monthLines,
				aggregate: unitsSold,
				order:     pipeline.ByValueAsc,
				limit:     1,
				project: func(g []pipeline.Group[lineFact, uuid.UUID], products map[uuid.UUID]commerce.Product) any {
					return projectPopularity(g, products)
				},
			},
			decode: decodeRows[ProductPopularity],
		},
		{
			Name:     CustomerProductsInQuarter,
			Summary:  "Each order a customer placed in a quarter with the products on its lines.",
			Required: []Param{ParamCustomerID, ParamYear, ParamQuarter},
			plan: orderListPlan{
				scope: func(e env) (commerce.OrderQuery, error) {
					rng, err := e.windows.Quarter(e.params.Year, e.params.Quarter)
					if err != nil {
						return commerce.OrderQuery{}, err
					}
					return commerce.OrderQuery{UserID: e.params.CustomerID, From: rng.Start, To: rng.End}, nil
				},
				project: orderProducts,
			},
			decode: decodeRows[OrderProducts],
		},
		{
			Name:    OrderAndCustomerForTopSeller,
			Summary: "Every order line of the all-time best-selling product with its order and customer.",
			plan: topSellerPlan{
				rank: productRankPlan{
					scope:     func(env) (commerce.LineQuery, error) { return commerce.LineQuery{}, nil },
					aggregate: unitsSold,
					order:     pipeline.ByValueDesc,
					limit:     1,
				},
			},
			decode: decodeRows[ProductOrderCustomer],
		},
	}
}

func monthLines(e env) (commerce.LineQuery, error) {
	rng, err := e.windows.Month(e.params.Year, e.params.Month)
	if err != nil {
		return commerce.LineQuery{}, err
	}
	return commerce.LineQuery{OrderedFrom: rng.Start, OrderedTo: rng.End}, nil
}

func orderProducts(e env, orders []commerce.Order) (any, int, error) {
	if len(orders) == 0 {
		return []OrderProducts{}, 0, nil
	}
	ids := uniqueIDs(orders, func(o commerce.Order) uuid.UUID { return o.ID })
	lines, err := e.ledger.OrderLines(e.ctx, commerce.LineQuery{OrderIDs: ids})
	if err != nil {
		return nil, 0, err
	}
	products, err := loadProducts(e, uniqueIDs(lines, func(l commerce.OrderLine) uuid.UUID { return l.ProductID }))
	if err != nil {
		return nil, 0, err
	}
	rows, err := projectOrderProducts(e.op, orders, lines, products)
	if err != nil {
		return nil, 0, err
	}
	return rows, len(rows), nil
}

func decodeRows[T any](raw []byte) (any, error) {
	rows := make([]T, 0)
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// orderKey orders rows chronologically, then by id.
type orderKey struct {
	At int64
	ID uuid.UUID
}

func keyOfOrder(o commerce.Order) orderKey {
	return orderKey{At: o.OrderDate.UnixNano(), ID: o.ID}
}

func compareOrderKey(a, b orderKey) int {
	if c := cmp.Compare(a.At, b.At); c != 0 {
		return c
	}
	return pipeline.CompareUUID(a.ID, b.ID)
}
