package migration

import (
	"ahaar-backend/entities"
	"fmt"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";").Error; err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}

	models := []struct {
		name  string
		model interface{}
	}{
		{"user", &entities.User{}},
		{"donation", &entities.Donation{}},
		{"donation like", &entities.DonationLike{}},
		{"ngo profile", &entities.NGOProfile{}},
		{"ngo need", &entities.NGONeed{}},
		{"money donation", &entities.MoneyDonation{}},
		{"notification", &entities.Notification{}},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", m.name, err)
		}
	}

	fmt.Println("Database migration complete")
	return nil
}
