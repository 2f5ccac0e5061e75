package main

import (
	"context"
	"log"

	"subtracker-be/internal/config"
	"subtracker-be/internal/model"
	"subtracker-be/internal/pkg/logger"
	"subtracker-be/internal/repository/unitofwork"
	"subtracker-be/pkg/database"
	"subtracker-be/pkg/provisioner"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, true)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: Extensions & Enums (Things GORM AutoMigrate doesn't do)
	log.Println("Step 1: Setting up Extensions and Enums...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'billing_interval') THEN CREATE TYPE billing_interval AS ENUM ('weekly', 'monthly', 'quarterly', 'yearly'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'subscription_status') THEN CREATE TYPE subscription_status AS ENUM ('active', 'paused', 'cancelled', 'expired'); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'user_role') THEN CREATE TYPE user_role AS ENUM ('end_user', 'support', 'admin', 'super_admin'); END IF; END $$;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.Plan{},
		&model.Price{},
		&model.PriceHistory{},
		&model.Subscription{},
		&model.AuditLog{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: triggers and reserved rows
	log.Println("Step 3: Creating Functions and Reserved Rows...")

	postMigrationSQL := []string{
		`CREATE OR REPLACE FUNCTION set_current_timestamp_updated_at() RETURNS trigger LANGUAGE plpgsql AS $$
		DECLARE _new_value TIMESTAMP WITH TIME ZONE;
		BEGIN
		  _new_value := now();
		  IF NEW.updated_at IS DISTINCT FROM _new_value THEN NEW.updated_at = _new_value; END IF;
		  RETURN NEW;
		END; $$;`,
	}
	for _, table := range []string{"users", "categories", "products", "plans", "prices", "subscriptions"} {
		postMigrationSQL = append(postMigrationSQL,
			`DROP TRIGGER IF EXISTS set_`+table+`_updated_at ON `+table+`;`,
			`CREATE TRIGGER set_`+table+`_updated_at BEFORE UPDATE ON `+table+` FOR EACH ROW EXECUTE FUNCTION set_current_timestamp_updated_at();`,
		)
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)
	if _, err := provisioner.NewProvisioner(logger.NewNopLogger()).EnsureCustomCategory(ctx, uow); err != nil {
		log.Fatalf("Error: Failed to create the custom category: %v", err)
	}

	log.Println("Success: Database migration completed.")
}
