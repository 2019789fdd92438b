package ledger

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/raja1702/computer-storage-solutions/internal/domain/commerce"
	"github.com/raja1702/computer-storage-solutions/internal/platform/dbctx"
	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

type ProductRepo interface {
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]types.Product, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{db: db, log: baseLog.With("repo", "ProductRepo")}
}

func (r *productRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]types.Product, error) {
	out := make([]types.Product, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	for _, chunk := range chunkIDs(ids) {
		var rows []types.Product
		if err := dbc.Conn(r.db).Where("id IN ?", chunk).Find(&rows).Error; err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	sortByID(out, func(p types.Product) uuid.UUID { return p.ID })
	return out, nil
}
