package infra

import (
	"fmt"

	"wfgpos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the Postgres connection, runs AutoMigrate for every
// table the back office owns, then applies the idempotent SQL patches GORM
// cannot express (partial indexes).
//
// TranslateError is on so unique violations surface as gorm.ErrDuplicatedKey.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates all tables and applies schema patches.
// Integration tests call it directly against a throwaway database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Business{},
		&model.Employee{},
		&model.Account{},
		&model.RegisterSession{},
		&model.Order{},
		&model.OrderItem{},
		&model.DeletedOrder{},
		&model.Expense{},
		&model.Report{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is guarded so re-running on a patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one open register session per cashier.
		{"partial unique index on open sessions", `
CREATE UNIQUE INDEX IF NOT EXISTS ux_register_sessions_open_cashier
    ON register_sessions (cashier_id)
    WHERE is_open`},
		{"non-negative expense amounts", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_expenses_amount_non_negative') THEN
    ALTER TABLE expenses ADD CONSTRAINT chk_expenses_amount_non_negative CHECK (amount >= 0);
  END IF;
END $$`},
		{"order payment bounds", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_orders_amount_paid_bounds') THEN
    ALTER TABLE orders ADD CONSTRAINT chk_orders_amount_paid_bounds
        CHECK (amount_paid >= 0 AND amount_paid <= final_price);
  END IF;
END $$`},
		{"order item quantity", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_order_items_quantity') THEN
    ALTER TABLE order_items ADD CONSTRAINT chk_order_items_quantity CHECK (quantity >= 1);
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
