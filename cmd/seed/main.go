// cmd/seed/main.go seeds a demo business with a manager and a cashier,
// then prints a bearer token for each account.
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"wfgpos/internal/access"
	"wfgpos/internal/config"
	"wfgpos/internal/infra"
	"wfgpos/internal/middleware"
	"wfgpos/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const demoPassword = "1234"

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required to mint demo tokens")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	ctx := context.Background()
	email := "owner@wfgpos.local"
	biz := model.Business{
		ID:    uuid.MustParse("00000000-0000-0000-0000-0000000000b1"),
		Name:  "Demo Cafe",
		Email: &email,
		Preferences: model.BusinessPreferences{
			TrackServers:         true,
			SendDaySummaryReport: true,
		},
	}
	manager := model.Employee{ID: uuid.MustParse("00000000-0000-0000-0000-0000000000e1"), Name: "Demo Manager", Role: model.RoleManager}
	cashier := model.Employee{ID: uuid.MustParse("00000000-0000-0000-0000-0000000000e2"), Name: "Demo Cashier", Role: model.RoleCashier}

	managerCaps := access.NewSet(access.IsManager, access.CanGenReport, access.CanDeleteOrders,
		access.CanAddExpenses, access.CanViewOrders)
	cashierCaps := access.NewSet(access.IsCashier, access.CanAddExpenses)

	accounts := []model.Account{
		{ID: uuid.MustParse("00000000-0000-0000-0000-0000000000a1"), Username: "manager", PasswordHash: string(hash),
			EmployeeID: manager.ID, BusinessID: &biz.ID, Capabilities: managerCaps.Names()},
		{ID: uuid.MustParse("00000000-0000-0000-0000-0000000000a2"), Username: "cashier", PasswordHash: string(hash),
			EmployeeID: cashier.ID, BusinessID: &biz.ID, Capabilities: cashierCaps.Names()},
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := clause.OnConflict{UpdateAll: true}
		if err := tx.Clauses(upsert).Create(&biz).Error; err != nil {
			return err
		}
		if err := tx.Clauses(upsert).Create(&[]model.Employee{manager, cashier}).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			UpdateAll: true,
		}).Create(&accounts).Error
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}

	ttl := time.Duration(cfg.JWTExpirationHours) * time.Hour
	for _, acc := range accounts {
		caps, err := access.Parse(acc.Capabilities)
		if err != nil {
			log.Fatal().Err(err).Str("account", acc.Username).Msg("bad capabilities")
		}
		token, err := middleware.NewToken(cfg.JWTSecret, access.Principal{
			AccountID:  acc.ID,
			EmployeeID: acc.EmployeeID,
			BusinessID: acc.BusinessID,
			Username:   acc.Username,
			Caps:       caps,
		}, ttl)
		if err != nil {
			log.Fatal().Err(err).Msg("sign token")
		}
		fmt.Printf("%s (password %q, employee %s)\n  Bearer %s\n", acc.Username, demoPassword, acc.EmployeeID, token)
	}
	fmt.Printf("manager_id for /v1/register/open: %s\n", manager.ID)
}
