package main

import (
	"log"

	"subscription-webhook-be/internal/config"
	"subscription-webhook-be/internal/model"
	"subscription-webhook-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, !cfg.App.IsProduction())
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Setting up extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to enable pgcrypto: %v. Continuing...", err)
	}

	log.Println("Step 2: Running AutoMigrate...")
	if err := db.AutoMigrate(&model.Subscription{}, &model.RazorpayWebhookEvent{}); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// Enum columns are plain varchar; the checks keep stray values out.
	log.Println("Step 3: Adding enum constraints...")
	constraints := []string{
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'subscriptions_plan_duration_check') THEN
			ALTER TABLE subscriptions ADD CONSTRAINT subscriptions_plan_duration_check CHECK (plan_duration IN ('monthly', 'yearly')); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'subscriptions_status_check') THEN
			ALTER TABLE subscriptions ADD CONSTRAINT subscriptions_status_check CHECK (status IN ('pending', 'active', 'cancelled')); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'subscriptions_superadmin_status_check') THEN
			ALTER TABLE subscriptions ADD CONSTRAINT subscriptions_superadmin_status_check CHECK (superadmin_status IN ('activated', 'deactivated')); END IF; END $$;`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'razorpay_webhook_events_outcome_check') THEN
			ALTER TABLE razorpay_webhook_events ADD CONSTRAINT razorpay_webhook_events_outcome_check CHECK (outcome IS NULL OR outcome IN ('processed', 'ignored', 'not_found', 'failed')); END IF; END $$;`,
	}

	for _, sql := range constraints {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to add constraint: %v", err)
		}
	}

	log.Println("Success: Database migration completed.")
}
