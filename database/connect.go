package database

import (
	"fmt"
	"opta/config"
	"opta/model"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	p := config.Config("DB_PORT")
	port, err := strconv.ParseUint(p, 10, 32)

	if err != nil {
		panic("failed to parse database port")
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", config.Config("DB_HOST"), port, config.Config("DB_USER"), config.Config("DB_PASSWORD"), config.Config("DB_NAME"))
	DB, err = Open(postgres.Open(dsn))

	if err != nil {
		panic("failed to connect database: " + err.Error())
	}

	fmt.Println("Connection Opened to Database")

	SeedData(DB)
}

// Open connects with the given dialector and migrates the schema.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	// TranslateError maps driver constraint errors onto gorm.ErrDuplicatedKey.
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Address{},
		&model.IdempotencyKey{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	fmt.Println("Database Migrated")

	return db, nil
}
