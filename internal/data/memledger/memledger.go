// Package memledger is an in-memory commerce.Ledger. It backs engine tests
// and fixture-driven demos; the gorm store is the production implementation.
package memledger

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raja1702/computer-storage-solutions/internal/domain/analytics"
	"github.com/raja1702/computer-storage-solutions/internal/domain/commerce"
)

type Store struct {
	mu       sync.RWMutex
	users    []commerce.User
	products []commerce.Product
	orders   []commerce.Order
	lines    []commerce.OrderLine
}

var _ commerce.Ledger = (*Store)(nil)

func New() *Store { return &Store{} }

func (s *Store) AddUsers(users ...commerce.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, users...)
}

func (s *Store) AddProducts(products ...commerce.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, products...)
}

// AddOrder records an order and its lines. Lines get the order's id.
func (s *Store) AddOrder(o commerce.Order, lines ...commerce.OrderLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append(s.orders, o)
	for _, l := range lines {
		l.OrderID = o.ID
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		s.lines = append(s.lines, l)
	}
}

// AddLines records lines as given, without touching their order id.
func (s *Store) AddLines(lines ...commerce.OrderLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, lines...)
}

func (s *Store) Orders(ctx context.Context, q commerce.OrderQuery) ([]commerce.Order, error) {
	if err := alive(ctx, "memledger.orders"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]commerce.Order, 0)
	for _, o := range s.orders {
		if q.Matches(o) {
			out = append(out, o)
		}
	}
	slices.SortFunc(out, func(a, b commerce.Order) int {
		if c := a.OrderDate.Compare(b.OrderDate); c != 0 {
			return c
		}
		return compareID(a.ID, b.ID)
	})
	return out, nil
}

func (s *Store) OrderLines(ctx context.Context, q commerce.LineQuery) ([]commerce.OrderLine, error) {
	if err := alive(ctx, "memledger.order_lines"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var orderDates map[uuid.UUID]time.Time
	if q.HasOrderWindow() {
		orderDates = make(map[uuid.UUID]time.Time, len(s.orders))
		for _, o := range s.orders {
			orderDates[o.ID] = o.OrderDate
		}
	}
	out := make([]commerce.OrderLine, 0)
	for _, l := range s.lines {
		if !q.MatchesLine(l) {
			continue
		}
		if orderDates != nil {
			// Same as the SQL sub-select: a line without an order cannot be in a window.
			date, ok := orderDates[l.OrderID]
			if !ok || !q.MatchesOrderDate(date) {
				continue
			}
		}
		out = append(out, l)
	}
	slices.SortFunc(out, func(a, b commerce.OrderLine) int { return compareID(a.ID, b.ID) })
	return out, nil
}

func (s *Store) Products(ctx context.Context, ids []uuid.UUID) ([]commerce.Product, error) {
	if err := alive(ctx, "memledger.products"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]commerce.Product, 0, len(ids))
	for _, p := range s.products {
		if slices.Contains(ids, p.ID) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b commerce.Product) int { return compareID(a.ID, b.ID) })
	return out, nil
}

func (s *Store) Users(ctx context.Context, ids []uuid.UUID) ([]commerce.User, error) {
	if err := alive(ctx, "memledger.users"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]commerce.User, 0, len(ids))
	for _, u := range s.users {
		if slices.Contains(ids, u.ID) {
			out = append(out, u)
		}
	}
	sortUsers(out)
	return out, nil
}

func (s *Store) UsersWithoutOrdersSince(ctx context.Context, since time.Time) ([]commerce.User, error) {
	if err := alive(ctx, "memledger.users_without_orders"); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	recent := make(map[uuid.UUID]struct{})
	for _, o := range s.orders {
		if !o.OrderDate.Before(since) {
			recent[o.UserID] = struct{}{}
		}
	}
	out := make([]commerce.User, 0)
	for _, u := range s.users {
		if _, ok := recent[u.ID]; !ok {
			out = append(out, u)
		}
	}
	sortUsers(out)
	return out, nil
}

// ReadSnapshot hands fn a frozen copy so concurrent writers cannot be observed
// mid-report.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(commerce.Ledger) error) error {
	if err := alive(ctx, "memledger.snapshot"); err != nil {
		return err
	}
	s.mu.RLock()
	frozen := &Store{
		users:    slices.Clone(s.users),
		products: slices.Clone(s.products),
		orders:   slices.Clone(s.orders),
		lines:    slices.Clone(s.lines),
	}
	s.mu.RUnlock()
	return fn(frozen)
}

func sortUsers(users []commerce.User) {
	slices.SortFunc(users, func(a, b commerce.User) int {
		return compareID(a.ID, b.ID)
	})
}

func compareID(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) }

func alive(ctx context.Context, op string) error {
	if ctx == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.Canceled) {
			return analytics.NewError(analytics.CodeCanceled, op, "canceled", err)
		}
		return analytics.NewError(analytics.CodeUnavailable, op, "deadline exceeded", err)
	}
	return nil
}
