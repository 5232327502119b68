package main

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/gatewarden/gatewarden/internal/config"
	"github.com/gatewarden/gatewarden/internal/database"
	"github.com/gatewarden/gatewarden/internal/models"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Requester{},
		&models.Action{},
		&models.PendingApproval{},
		&models.ApprovalRule{},
		&models.Setting{},
		&models.User{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	// Seed default policy rules. Low-risk reads auto-approve; critical
	// actions always go to a human; everything else falls through to the
	// engine default (manual review).
	minTrust := 80
	rules := []models.ApprovalRule{
		{
			UUID:         uuid.NewString(),
			Name:         "auto-approve low-risk queries",
			Priority:     10,
			Enabled:      true,
			Outcome:      models.RuleOutcomeApprove,
			Reason:       "low-risk read-only action from trusted requester",
			ActionTypes:  "query,message",
			MaxRiskLevel: models.RiskLevelLow,
			MinTrust:     &minTrust,
		},
		{
			UUID:         uuid.NewString(),
			Name:         "critical actions require review",
			Priority:     20,
			Enabled:      true,
			Outcome:      models.RuleOutcomeManual,
			Reason:       "critical risk requires a human decision",
			MinRiskLevel: models.RiskLevelCritical,
		},
	}
	for _, rule := range rules {
		if err := db.Where("name = ?", rule.Name).FirstOrCreate(&rule).Error; err != nil {
			log.Fatal("Failed to seed rule:", err)
		}
	}
	fmt.Printf("✓ Seeded %d approval rules\n", len(rules))

	demo := models.Requester{
		UUID:       uuid.NewString(),
		Name:       "demo-agent",
		TrustLevel: 60,
		Enabled:    true,
	}
	if err := db.Where("name = ?", demo.Name).FirstOrCreate(&demo).Error; err != nil {
		log.Fatal("Failed to seed requester:", err)
	}
	fmt.Println("✓ Seeded demo requester:", demo.UUID)
}
