package ledger

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/raja1702/computer-storage-solutions/internal/domain/commerce"
	"github.com/raja1702/computer-storage-solutions/internal/platform/dbctx"
	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

type OrderLineRepo interface {
	List(dbc dbctx.Context, q types.LineQuery) ([]types.OrderLine, error)
}

type orderLineRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderLineRepo(db *gorm.DB, baseLog *logger.Logger) OrderLineRepo {
	return &orderLineRepo{db: db, log: baseLog.With("repo", "OrderLineRepo")}
}

func (r *orderLineRepo) List(dbc dbctx.Context, q types.LineQuery) ([]types.OrderLine, error) {
	scoped := func() *gorm.DB {
		t := dbc.Conn(r.db).Model(&types.OrderLine{})
		if q.ProductID != uuid.Nil {
			t = t.Where("product_id = ?", q.ProductID)
		}
		if q.MinUnitPrice != nil {
			t = t.Where("unit_price >= ?", *q.MinUnitPrice)
		}
		if q.MaxUnitPrice != nil {
			t = t.Where("unit_price <= ?", *q.MaxUnitPrice)
		}
		if q.HasOrderWindow() {
			sub := dbc.Conn(r.db).Model(&types.Order{}).Select("id")
			if !q.OrderedFrom.IsZero() {
				sub = sub.Where("order_date >= ?", q.OrderedFrom.UTC())
			}
			if !q.OrderedTo.IsZero() {
				sub = sub.Where("order_date < ?", q.OrderedTo.UTC())
			}
			t = t.Where("order_id IN (?)", sub)
		}
		return t
	}

	var out []types.OrderLine
	if len(q.OrderIDs) == 0 {
		if err := scoped().Find(&out).Error; err != nil {
			return nil, err
		}
	} else {
		for _, chunk := range chunkIDs(q.OrderIDs) {
			var rows []types.OrderLine
			if err := scoped().Where("order_id IN ?", chunk).Find(&rows).Error; err != nil {
				return nil, err
			}
			out = append(out, rows...)
		}
	}
	if out == nil {
		out = []types.OrderLine{}
	}
	sortByID(out, func(l types.OrderLine) uuid.UUID { return l.ID })
	return out, nil
}
