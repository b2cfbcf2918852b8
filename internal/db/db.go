package db

import (
	"log"
	"os"

	"tuitionmap/internal/catalog"
	"tuitionmap/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB is the user-facing connection. AdminDB is the elevated connection used
// by the moderation surface only; it may point at the same database under a
// role that bypasses row filters. Authorization happens at the HTTP layer,
// never here.
var DB *gorm.DB
var AdminDB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=tuitionmap port=5432 sslmode=disable TimeZone=Asia/Singapore"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	adminDSN := os.Getenv("ADMIN_DATABASE_URL")
	if adminDSN == "" || adminDSN == dsn {
		AdminDB = DB
	} else {
		AdminDB, err = gorm.Open(postgres.Open(adminDSN), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to admin database: %v", err)
		}
	}

	log.Println("Database connection established")

	// Auto Migrate
	err = DB.AutoMigrate(
		&models.Centre{},
		&models.Offering{},
		&models.Comment{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedCentres()
}

// seedCentres loads the read-only centre reference data on an empty table.
// Ids are slugs of the names, so re-running the seed is a no-op.
func seedCentres() {
	var count int64
	DB.Model(&models.Centre{}).Count(&count)
	if count > 0 {
		log.Println("Centres already seeded, skipping")
		return
	}

	centres := []models.Centre{
		{
			Name:          "Bright Minds Learning Centre",
			Address:       "Blk 201 Tampines Street 21 #02-1043",
			PostalCode:    "520201",
			ContactType:   models.ContactWhatsApp,
			ContactNumber: "+65 8123 4567",
			WebsiteURL:    "https://brightminds.example.sg",
			Blurb:         "Small-group tuition for primary and lower secondary, **max 6 per class**.",
			Offerings: []models.Offering{
				{Level: "P1", Subject: "Mathematics"},
				{Level: "P1", Subject: "English"},
				{Level: "P2", Subject: "Mathematics"},
				{Level: "S1", Subject: "Science"},
			},
		},
		{
			Name:          "Ace Scholars Tuition",
			Address:       "Blk 88 Bedok North Avenue 4 #01-12",
			PostalCode:    "460088",
			ContactType:   models.ContactCall,
			ContactNumber: "6245 1122",
			Blurb:         "PSLE intensive classes since 2009.",
			Offerings: []models.Offering{
				{Level: "P5", Subject: "Mathematics"},
				{Level: "P5", Subject: "Science"},
				{Level: "P6", Subject: "Mathematics"},
				{Level: "P6", Subject: "Science"},
				{Level: "P6", Subject: "English"},
			},
		},
		{
			Name:          "The Study Loft",
			Address:       "1 Marine Parade Central #03-05",
			PostalCode:    "449408",
			ContactType:   models.ContactUnknown,
			ContactNumber: "9011 2233",
			WebsiteURL:    "https://studyloft.example.sg",
			Blurb:         "O-Level sciences and humanities.",
			Offerings: []models.Offering{
				{Level: "S3", Subject: "Physics"},
				{Level: "S3", Subject: "Chemistry"},
				{Level: "S4", Subject: "Physics"},
				{Level: "S4", Subject: "Chemistry"},
				{Level: "S4", Subject: "Geography"},
			},
		},
	}

	for _, centre := range centres {
		centre.ID = catalog.CentreID(centre.Name)
		for i := range centre.Offerings {
			centre.Offerings[i].CentreID = centre.ID
		}
		if err := DB.Create(&centre).Error; err != nil {
			log.Printf("Failed to create centre %s: %v", centre.Name, err)
		}
	}
	log.Println("Initial centres created successfully")
}
