package commerce

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Ledger is read-only access to the order ledger. Implementations return rows
// in a stable order (orders by date then id, everything else by id) and must
// honour ctx cancellation.
type Ledger interface {
	Orders(ctx context.Context, q OrderQuery) ([]Order, error)
	OrderLines(ctx context.Context, q LineQuery) ([]OrderLine, error)
	Products(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	Users(ctx context.Context, ids []uuid.UUID) ([]User, error)
	// UsersWithoutOrdersSince is an anti-join: users with no order dated at or after since.
	UsersWithoutOrdersSince(ctx context.Context, since time.Time) ([]User, error)
	// ReadSnapshot runs fn against a consistent read view. fn must not retain
	// the view after it returns.
	ReadSnapshot(ctx context.Context, fn func(Ledger) error) error
}
