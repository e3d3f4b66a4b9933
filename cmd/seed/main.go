package main

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aloraops/alora-site/internal/models"
)

func main() {
	db, err := gorm.Open(sqlite.Open("./data/alora.db"), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Setting{},
		&models.Notification{},
		&models.BlogPost{},
		&models.FAQEntry{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	settings := []models.Setting{
		{Key: "site_title", Value: "Alora", Type: "string", Category: "site"},
		{Key: "contact_cta", Value: "Request a pilot", Type: "string", Category: "site"},
		{Key: "linkedin_url", Value: "https://www.linkedin.com/company/aloraops", Type: "string", Category: "site"},
		{Key: "show_banner", Value: "false", Type: "bool", Category: "site"},
	}
	for _, s := range settings {
		if err := db.Where(models.Setting{Key: s.Key}).FirstOrCreate(&s).Error; err != nil {
			log.Fatal("Failed to seed setting:", err)
		}
	}
	fmt.Printf("✓ Seeded %d settings\n", len(settings))

	faqs := []models.FAQEntry{
		{
			Category:  "Product",
			Question:  "What does Alora do?",
			Answer:    "Alora automates back-office operations for healthcare providers, from intake to claims.",
			Position:  1,
			Published: true,
		},
		{
			Category:  "Product",
			Question:  "How long does onboarding take?",
			Answer:    "Most pilot teams are live within two weeks, including data import and staff training.",
			Position:  2,
			Published: true,
		},
		{
			Category:  "Security",
			Question:  "Is my data secure?",
			Answer:    "All data is encrypted in transit and at rest, and we never share it with third parties.",
			Position:  1,
			Published: true,
		},
		{
			Category:  "Pricing",
			Question:  "How is the pilot priced?",
			Answer:    "Pilots are free for the first 60 days. Reach out through the contact form for volume pricing.",
			Position:  1,
			Published: true,
		},
	}
	for _, f := range faqs {
		if err := db.Where(models.FAQEntry{Question: f.Question}).FirstOrCreate(&f).Error; err != nil {
			log.Fatal("Failed to seed FAQ entry:", err)
		}
	}
	fmt.Printf("✓ Seeded %d FAQ entries\n", len(faqs))
}
