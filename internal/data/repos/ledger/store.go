// Package ledger is the relational commerce.Ledger backed by gorm. It runs
// against Postgres in production and SQLite for local runs and tests.
package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/raja1702/computer-storage-solutions/internal/data/aggregates"
	types "github.com/raja1702/computer-storage-solutions/internal/domain/commerce"
	"github.com/raja1702/computer-storage-solutions/internal/platform/dbctx"
	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

type Store struct {
	db       *gorm.DB
	tx       *gorm.DB
	log      *logger.Logger
	users    UserRepo
	products ProductRepo
	orders   OrderRepo
	lines    OrderLineRepo
}

var _ types.Ledger = (*Store)(nil)

func NewStore(db *gorm.DB, baseLog *logger.Logger) *Store {
	return &Store{
		db:       db,
		log:      baseLog.With("service", "LedgerStore"),
		users:    NewUserRepo(db, baseLog),
		products: NewProductRepo(db, baseLog),
		orders:   NewOrderRepo(db, baseLog),
		lines:    NewOrderLineRepo(db, baseLog),
	}
}

func (s *Store) dbc(ctx context.Context) dbctx.Context {
	return dbctx.Context{Ctx: ctx, Tx: s.tx}
}

func (s *Store) Orders(ctx context.Context, q types.OrderQuery) ([]types.Order, error) {
	rows, err := s.orders.List(s.dbc(ctx), q)
	return rows, aggregates.MapError("ledger.orders", err)
}

func (s *Store) OrderLines(ctx context.Context, q types.LineQuery) ([]types.OrderLine, error) {
	rows, err := s.lines.List(s.dbc(ctx), q)
	return rows, aggregates.MapError("ledger.order_lines", err)
}

func (s *Store) Products(ctx context.Context, ids []uuid.UUID) ([]types.Product, error) {
	rows, err := s.products.GetByIDs(s.dbc(ctx), ids)
	return rows, aggregates.MapError("ledger.products", err)
}

func (s *Store) Users(ctx context.Context, ids []uuid.UUID) ([]types.User, error) {
	rows, err := s.users.GetByIDs(s.dbc(ctx), ids)
	return rows, aggregates.MapError("ledger.users", err)
}

func (s *Store) UsersWithoutOrdersSince(ctx context.Context, since time.Time) ([]types.User, error) {
	rows, err := s.users.ListWithoutOrdersSince(s.dbc(ctx), since)
	return rows, aggregates.MapError("ledger.users_without_orders", err)
}

// ReadSnapshot runs fn inside one read transaction. On Postgres the
// transaction is READ ONLY at REPEATABLE READ so every query in fn sees the
// same snapshot; SQLite transactions are already serializable.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(types.Ledger) error) error {
	if s.tx != nil {
		return fn(s)
	}
	var opts []*sql.TxOptions
	if s.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead})
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		view := *s
		view.tx = tx
		return fn(&view)
	}, opts...)
	if err != nil {
		s.log.Debug("read snapshot ended with error", "error", err)
	}
	return aggregates.MapError("ledger.snapshot", err)
}
