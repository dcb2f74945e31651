package database

import (
	"log"
	"opta/config"
	"opta/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedData creates the demo user named by DEMO_PHONE/DEMO_PASSWORD when both are set.
func SeedData(db *gorm.DB) {
	phone := config.Config("DEMO_PHONE")
	password := config.Config("DEMO_PASSWORD")
	if phone == "" || password == "" {
		return
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Println("failed to hash demo password:", err)
		return
	}

	user := model.User{
		UserName:    config.ConfigOr("DEMO_USER_NAME", "Demo"),
		PhoneNumber: phone,
		Password:    string(bytes),
	}
	if err := db.Where(model.User{PhoneNumber: phone}).FirstOrCreate(&user).Error; err != nil {
		log.Println("failed to seed demo user:", phone, "error:", err)
		return
	}
	log.Printf("Demo user ready: id=%d phone=%s", user.ID, user.PhoneNumber)
}
