package commerce

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderQuery selects orders. Zero-valued fields do not constrain;
// the date window is half-open [From, To).
type OrderQuery struct {
	IDs    []uuid.UUID
	UserID uuid.UUID
	From   time.Time
	To     time.Time
}

func (q OrderQuery) Matches(o Order) bool {
	if len(q.IDs) > 0 && !containsID(q.IDs, o.ID) {
		return false
	}
	if q.UserID != uuid.Nil && o.UserID != q.UserID {
		return false
	}
	return inWindow(o.OrderDate, q.From, q.To)
}

// LineQuery selects order lines. Price bounds are inclusive. The ordered
// window constrains the parent order's date and is half-open.
type LineQuery struct {
	OrderIDs     []uuid.UUID
	ProductID    uuid.UUID
	MinUnitPrice *decimal.Decimal
	MaxUnitPrice *decimal.Decimal
	OrderedFrom  time.Time
	OrderedTo    time.Time
}

// MatchesLine checks the constraints that live on the line itself.
func (q LineQuery) MatchesLine(l OrderLine) bool {
	if len(q.OrderIDs) > 0 && !containsID(q.OrderIDs, l.OrderID) {
		return false
	}
	if q.ProductID != uuid.Nil && l.ProductID != q.ProductID {
		return false
	}
	if q.MinUnitPrice != nil && l.UnitPrice.LessThan(*q.MinUnitPrice) {
		return false
	}
	if q.MaxUnitPrice != nil && l.UnitPrice.GreaterThan(*q.MaxUnitPrice) {
		return false
	}
	return true
}

// MatchesOrderDate checks the parent-order window.
func (q LineQuery) MatchesOrderDate(t time.Time) bool {
	return inWindow(t, q.OrderedFrom, q.OrderedTo)
}

func (q LineQuery) HasOrderWindow() bool {
	return !q.OrderedFrom.IsZero() || !q.OrderedTo.IsZero()
}

func inWindow(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
