package boot

import (
	"ets/src/db"
	"ets/src/models"
	"ets/src/types"
	"ets/src/utils"
	"log"
	"os"
	"strconv"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.Organizer{},
		&models.Event{},
		&models.Registration{},
		&models.Ticket{},
		&models.Notification{},
		&models.Session{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	if seed, err := strconv.ParseBool(os.Getenv("DB_SEED")); err == nil && seed {
		SeedDemoData(db)
	}

	return db
}

// SeedDemoData creates a demo organizer and an event when the tables are
// empty. Safe to call repeatedly.
func SeedDemoData(gdb *gorm.DB) {
	var count int64
	if err := gdb.Model(&models.Organizer{}).Count(&count).Error; err != nil || count > 0 {
		return
	}
	hash, err := utils.HashPassword("organizer123")
	if err != nil {
		log.Printf("Error seeding demo data: %s\n", err.Error())
		return
	}
	err = gdb.Transaction(func(tx *gorm.DB) error {
		organizer := models.Organizer{
			Name:         "Demo Organizer",
			Email:        "organizer@example.com",
			PasswordHash: hash,
			Company:      "Demo Events Co",
			IsActive:     true,
			IsVerified:   true,
		}
		if err := tx.Create(&organizer).Error; err != nil {
			return err
		}
		event := models.Event{
			Title:            "Launch Party",
			Slug:             "launch-party",
			Description:      "Demo event created by the seeder",
			Date:             "2030-01-01",
			Time:             "19:00",
			Location:         "Main Hall",
			Category:         "music",
			Status:           types.EVENT_ACTIVE,
			OrganizerID:      organizer.ID,
			GeneralPrice:     25,
			GeneralCapacity:  100,
			GeneralRemaining: 100,
			VIPPrice:         120,
			VIPCapacity:      10,
			VIPRemaining:     10,
		}
		return tx.Create(&event).Error
	})
	if err != nil {
		log.Printf("Error seeding demo data: %s\n", err.Error())
		return
	}
	log.Println("Seeded demo organizer and event")
}
