package main

import (
	"log"
	"os"
	"time"

	"ai-crm-be/internal/model"
	"ai-crm-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// Seeds a small demo pipeline: three contacts, four deals across stages and a
// few logged activities so the dashboard is not empty on first run.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding demo CRM data...")

	var count int64
	db.Model(&model.Contact{}).Count(&count)
	if count > 0 {
		color.Yellow("Contacts already present (%d), skipping seed.", count)
		return
	}

	contacts := []model.Contact{
		{
			Id:        uuid.New(),
			FirstName: "Sarah",
			LastName:  "Chen",
			Email:     "sarah.chen@acmecloud.io",
			Company:   ptr("Acme Cloud"),
			Position:  ptr("VP Engineering"),
			Status:    "active",
			Tags:      []byte(`["enterprise","champion"]`),
		},
		{
			Id:        uuid.New(),
			FirstName: "Marcus",
			LastName:  "Webb",
			Email:     "m.webb@northline.com",
			Company:   ptr("Northline Logistics"),
			Position:  ptr("Head of Operations"),
			Status:    "active",
			Tags:      []byte(`["mid-market"]`),
		},
		{
			Id:        uuid.New(),
			FirstName: "Priya",
			LastName:  "Nair",
			Email:     "priya@ferrostart.dev",
			Company:   ptr("Ferrostart"),
			Position:  ptr("CTO"),
			Status:    "active",
			Tags:      []byte(`["startup","technical"]`),
		},
	}

	for i := range contacts {
		mustCreate(db, &contacts[i], "contact "+contacts[i].Email)
	}

	deals := []model.Deal{
		{
			Id:          uuid.New(),
			ContactId:   &contacts[0].Id,
			Name:        "Acme Cloud platform rollout",
			UseCase:     "Internal developer platform",
			Stage:       "negotiating",
			Signal:      "positive",
			Description: "Company-wide rollout after a successful 50-seat pilot.",
			Notes:       []byte(`[]`),
			Attachments: []byte(`[]`),
			SortOrder:   0,
		},
		{
			Id:          uuid.New(),
			ContactId:   &contacts[1].Id,
			Name:        "Northline fleet tracking",
			UseCase:     "Real-time shipment visibility",
			Stage:       "qualified",
			Signal:      "neutral",
			Description: "Evaluating against an incumbent vendor.",
			Notes:       []byte(`[]`),
			Attachments: []byte(`[]`),
			SortOrder:   0,
		},
		{
			Id:          uuid.New(),
			ContactId:   &contacts[2].Id,
			Name:        "Ferrostart starter plan",
			UseCase:     "CI pipeline acceleration",
			Stage:       "new",
			Signal:      "neutral",
			Description: "",
			Notes:       []byte(`[]`),
			Attachments: []byte(`[]`),
			SortOrder:   0,
		},
		{
			Id:          uuid.New(),
			ContactId:   &contacts[1].Id,
			Name:        "Northline warehouse audit",
			UseCase:     "Compliance reporting",
			Stage:       "closed_lost",
			Signal:      "negative",
			Description: "Lost to budget freeze in Q2.",
			Notes:       []byte(`[]`),
			Attachments: []byte(`[]`),
			SortOrder:   1,
		},
	}

	for i := range deals {
		mustCreate(db, &deals[i], "deal "+deals[i].Name)
	}

	now := time.Now()
	activities := []model.Activity{
		{
			Id:          uuid.New(),
			ContactId:   &contacts[0].Id,
			DealId:      &deals[0].Id,
			Type:        "call",
			Title:       "Pricing review call",
			Description: ptr("Walked through volume discount tiers. Sarah wants legal review by Friday."),
			CreatedAt:   now.AddDate(0, 0, -2),
		},
		{
			Id:        uuid.New(),
			ContactId: &contacts[0].Id,
			DealId:    &deals[0].Id,
			Type:      "email",
			Title:     "Sent revised proposal",
			CreatedAt: now.AddDate(0, 0, -5),
		},
		{
			Id:          uuid.New(),
			ContactId:   &contacts[1].Id,
			DealId:      &deals[1].Id,
			Type:        "meeting",
			Title:       "Discovery workshop",
			Description: ptr("Mapped current tracking workflow. Incumbent contract ends in November."),
			CreatedAt:   now.AddDate(0, 0, -9),
		},
	}

	for i := range activities {
		mustCreate(db, &activities[i], "activity "+activities[i].Title)
	}

	color.Green("Seeding completed: %d contacts, %d deals, %d activities.",
		len(contacts), len(deals), len(activities))
}

func mustCreate(db *gorm.DB, value interface{}, label string) {
	if err := db.Create(value).Error; err != nil {
		color.Red("Failed to create %s: %v", label, err)
		os.Exit(1)
	}
	color.Green("Created %s", label)
}

func ptr(s string) *string {
	return &s
}
