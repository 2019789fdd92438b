package ledger

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/raja1702/computer-storage-solutions/internal/domain/commerce"
	"github.com/raja1702/computer-storage-solutions/internal/platform/dbctx"
	"github.com/raja1702/computer-storage-solutions/internal/platform/logger"
)

type UserRepo interface {
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]types.User, error)
	// ListWithoutOrdersSince returns users with no order dated at or after since.
	ListWithoutOrdersSince(dbc dbctx.Context, since time.Time) ([]types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]types.User, error) {
	out := make([]types.User, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	for _, chunk := range chunkIDs(ids) {
		var rows []types.User
		if err := dbc.Conn(r.db).Where("id IN ?", chunk).Find(&rows).Error; err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	sortByID(out, func(u types.User) uuid.UUID { return u.ID })
	return out, nil
}

func (r *userRepo) ListWithoutOrdersSince(dbc dbctx.Context, since time.Time) ([]types.User, error) {
	var rows []types.User
	err := dbc.Conn(r.db).
		Where("NOT EXISTS (SELECT 1 FROM orders WHERE orders.user_id = users.id AND orders.order_date >= ?)", since.UTC()).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	sortByID(rows, func(u types.User) uuid.UUID { return u.ID })
	return rows, nil
}
