package ledger

import (
	"bytes"
	"slices"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/raja1702/computer-storage-solutions/internal/domain/commerce"
	"github.com/raja1702/computer-storage-solutions/internal/platform/dbctx"
	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

type OrderRepo interface {
	List(dbc dbctx.Context, q types.OrderQuery) ([]types.Order, error)
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{db: db, log: baseLog.With("repo", "OrderRepo")}
}

func (r *orderRepo) List(dbc dbctx.Context, q types.OrderQuery) ([]types.Order, error) {
	scoped := func() *gorm.DB {
		t := dbc.Conn(r.db).Model(&types.Order{})
		if q.UserID != uuid.Nil {
			t = t.Where("user_id = ?", q.UserID)
		}
		if !q.From.IsZero() {
			t = t.Where("order_date >= ?", q.From.UTC())
		}
		if !q.To.IsZero() {
			t = t.Where("order_date < ?", q.To.UTC())
		}
		return t
	}

	var out []types.Order
	if len(q.IDs) == 0 {
		if err := scoped().Find(&out).Error; err != nil {
			return nil, err
		}
	} else {
		for _, chunk := range chunkIDs(q.IDs) {
			var rows []types.Order
			if err := scoped().Where("id IN ?", chunk).Find(&rows).Error; err != nil {
				return nil, err
			}
			out = append(out, rows...)
		}
	}
	if out == nil {
		out = []types.Order{}
	}
	// Sorted here rather than in SQL: uuid columns order differently per dialect.
	slices.SortFunc(out, func(a, b types.Order) int {
		if c := a.OrderDate.Compare(b.OrderDate); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})
	return out, nil
}
