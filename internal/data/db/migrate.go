package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/raja1702/computer-storage-solutions/internal/domain/commerce"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&commerce.User{},
		&commerce.Product{},
		&commerce.Order{},
		&commerce.OrderLine{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureReportIndexes(db)
}

// EnsureReportIndexes adds the access paths the reports rely on beyond the
// ones declared in struct tags. Both dialects accept IF NOT EXISTS.
func EnsureReportIndexes(db *gorm.DB) error {
	stmts := []struct{ name, sql string }{
		{"idx_order_lines_product_order", `CREATE INDEX IF NOT EXISTS idx_order_lines_product_order ON order_lines(product_id, order_id);`},
		{"idx_order_lines_unit_price", `CREATE INDEX IF NOT EXISTS idx_order_lines_unit_price ON order_lines(unit_price);`},
	}
	for _, s := range stmts {
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}
