package reports

import (
	"github.com/google/uuid"

	"github.com/raja1702/computer-storage-solutions/internal/domain/analytics"
	"github.com/raja1702/computer-storage-solutions/internal/domain/commerce"
)

// lineFact is an order line joined to its parent order.
type lineFact struct {
	Line  commerce.OrderLine
	Order commerce.Order
}

// joinOrders attaches each line's order. A line whose order cannot be found
// is a data integrity failure, not a skipped row.
func joinOrders(e env, lines []commerce.OrderLine) ([]lineFact, error) {
	if len(lines) == 0 {
		return []lineFact{}, nil
	}
	ids := uniqueIDs(lines, func(l commerce.OrderLine) uuid.UUID { return l.OrderID })
	orders, err := e.ledger.Orders(e.ctx, commerce.OrderQuery{IDs: ids})
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]commerce.Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}
	facts := make([]lineFact, 0, len(lines))
	for _, l := range lines {
		o, ok := byID[l.OrderID]
		if !ok {
			return nil, analytics.DataIntegrity(e.op, "order line %s references missing order %s", l.ID, l.OrderID)
		}
		facts = append(facts, lineFact{Line: l, Order: o})
	}
	return facts, nil
}

func loadProducts(e env, ids []uuid.UUID) (map[uuid.UUID]commerce.Product, error) {
	out := make(map[uuid.UUID]commerce.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	products, err := e.ledger.Products(e.ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			return nil, analytics.DataIntegrity(e.op, "product %s referenced by order lines does not exist", id)
		}
	}
	return out, nil
}

func loadUsers(e env, ids []uuid.UUID) (map[uuid.UUID]commerce.User, error) {
	out := make(map[uuid.UUID]commerce.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := e.ledger.Users(e.ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			return nil, analytics.DataIntegrity(e.op, "customer %s referenced by orders does not exist", id)
		}
	}
	return out, nil
}

func uniqueIDs[T any](rows []T, id func(T) uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(rows))
	out := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		v := id(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
