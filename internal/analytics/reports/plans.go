package reports

import (
	"cmp"

	"github.com/google/uuid"

	"github.com/raja1702/computer-storage-solutions/internal/analytics/pipeline"
	"github.com/raja1702/computer-storage-solutions/internal/domain/commerce"
)

// monthlyOrdersPlan groups orders by calendar month.
type monthlyOrdersPlan struct {
	scope     func(env) (commerce.OrderQuery, error)
	aggregate pipeline.Aggregator[commerce.Order]
	project   func([]pipeline.Group[commerce.Order, pipeline.MonthKey]) any
}

func (p monthlyOrdersPlan) execute(e env) (any, int, error) {
	q, err := p.scope(e)
	if err != nil {
		return nil, 0, err
	}
	orders, err := e.ledger.Orders(e.ctx, q)
	if err != nil {
		return nil, 0, err
	}
	loc := e.windows.Loc()
	groups, err := pipeline.Run(orders, pipeline.Spec[commerce.Order, pipeline.MonthKey]{
		Filter:    q.Matches,
		Key:       func(o commerce.Order) pipeline.MonthKey { return pipeline.MonthOf(o.OrderDate, loc) },
		Aggregate: p.aggregate,
		Order:     pipeline.ByKey,
		Compare:   pipeline.CompareMonth,
	})
	if err != nil {
		return nil, 0, err
	}
	return p.project(groups), len(groups), nil
}

// orderListPlan is a row-level listing: one group per order, in date order.
type orderListPlan struct {
	scope   func(env) (commerce.OrderQuery, error)
	project func(env, []commerce.Order) (any, int, error)
}

func (p orderListPlan) execute(e env) (any, int, error) {
	q, err := p.scope(e)
	if err != nil {
		return nil, 0, err
	}
	orders, err := e.ledger.Orders(e.ctx, q)
	if err != nil {
		return nil, 0, err
	}
	groups, err := pipeline.Run(orders, pipeline.Spec[commerce.Order, orderKey]{
		Filter:    q.Matches,
		Key:       keyOfOrder,
		Aggregate: pipeline.Count[commerce.Order](),
		Order:     pipeline.ByKey,
		Compare:   compareOrderKey,
	})
	if err != nil {
		return nil, 0, err
	}
	rows := make([]commerce.Order, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, g.Sample)
	}
	return p.project(e, rows)
}

// productRankPlan sums units per product over lines joined to their orders.
type productRankPlan struct {
	scope     func(env) (commerce.LineQuery, error)
	aggregate pipeline.Aggregator[lineFact]
	order     pipeline.Order
	limit     int
	project   func([]pipeline.Group[lineFact, uuid.UUID], map[uuid.UUID]commerce.Product) any
}

// rank scopes the facts, resolves every product they reference and only then
// orders and truncates, so a dangling product fails the report whether or not
// it would have made the cut.
func (p productRankPlan) rank(e env) ([]pipeline.Group[lineFact, uuid.UUID], map[uuid.UUID]commerce.Product, error) {
	q, err := p.scope(e)
	if err != nil {
		return nil, nil, err
	}
	lines, err := e.ledger.OrderLines(e.ctx, q)
	if err != nil {
		return nil, nil, err
	}
	facts, err := joinOrders(e, lines)
	if err != nil {
		return nil, nil, err
	}
	scoped := make([]lineFact, 0, len(facts))
	for _, f := range facts {
		if q.MatchesLine(f.Line) && q.MatchesOrderDate(f.Order.OrderDate) {
			scoped = append(scoped, f)
		}
	}
	products, err := loadProducts(e, uniqueIDs(scoped, func(f lineFact) uuid.UUID { return f.Line.ProductID }))
	if err != nil {
		return nil, nil, err
	}
	groups, err := pipeline.Run(scoped, pipeline.Spec[lineFact, uuid.UUID]{
		Key:       func(f lineFact) uuid.UUID { return f.Line.ProductID },
		Aggregate: p.aggregate,
		Order:     p.order,
		Compare:   pipeline.CompareUUID,
		Limit:     p.limit,
	})
	if err != nil {
		return nil, nil, err
	}
	return groups, products, nil
}

func (p productRankPlan) execute(e env) (any, int, error) {
	groups, products, err := p.rank(e)
	if err != nil {
		return nil, 0, err
	}
	return p.project(groups, products), len(groups), nil
}

// quietCustomersPlan is the anti-join: customers with no order on or after
// now minus the lookback. The existence check runs in the store.
type quietCustomersPlan struct{}

func (quietCustomersPlan) execute(e env) (any, int, error) {
	rng, err := e.windows.LastMonths(*e.params.Months)
	if err != nil {
		return nil, 0, err
	}
	users, err := e.ledger.UsersWithoutOrdersSince(e.ctx, rng.Start)
	if err != nil {
		return nil, 0, err
	}
	return users, len(users), nil
}

// topSellerPlan runs two passes: rank products over all history and take the
// winner, then list every line of the winner with its order and customer.
// No winner means an empty result.
type topSellerPlan struct {
	rank productRankPlan
}

// saleKey orders pass-two rows by order date, order id, then line id.
type saleKey struct {
	Order  orderKey
	LineID uuid.UUID
}

func (p topSellerPlan) execute(e env) (any, int, error) {
	ranked, _, err := p.rank.rank(e)
	if err != nil {
		return nil, 0, err
	}
	if len(ranked) == 0 {
		return []ProductOrderCustomer{}, 0, nil
	}
	winner := ranked[0].Key

	lines, err := e.ledger.OrderLines(e.ctx, commerce.LineQuery{ProductID: winner})
	if err != nil {
		return nil, 0, err
	}
	facts, err := joinOrders(e, lines)
	if err != nil {
		return nil, 0, err
	}
	groups, err := pipeline.Run(facts, pipeline.Spec[lineFact, saleKey]{
		Filter: func(f lineFact) bool { return f.Line.ProductID == winner },
		Key: func(f lineFact) saleKey {
			return saleKey{Order: keyOfOrder(f.Order), LineID: f.Line.ID}
		},
		Aggregate: pipeline.Count[lineFact](),
		Order:     pipeline.ByKey,
		Compare: func(a, b saleKey) int {
			return cmp.Or(compareOrderKey(a.Order, b.Order), pipeline.CompareUUID(a.LineID, b.LineID))
		},
	})
	if err != nil {
		return nil, 0, err
	}
	sales := make([]lineFact, 0, len(groups))
	for _, g := range groups {
		sales = append(sales, g.Sample)
	}
	users, err := loadUsers(e, uniqueIDs(sales, func(f lineFact) uuid.UUID { return f.Order.UserID }))
	if err != nil {
		return nil, 0, err
	}
	rows := projectProductOrderCustomers(sales, users)
	return rows, len(rows), nil
}
