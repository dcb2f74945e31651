package helper

import (
	"errors"
	"opta/database"
	"opta/model"

	"gorm.io/gorm"
)

// GetUserByPhone returns nil, nil when no user has the number.
func GetUserByPhone(phone string) (*model.User, error) {
	db := database.DB
	var user model.User
	if err := db.Where(&model.User{PhoneNumber: phone}).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func CheckByPhoneNumber(phone string) (bool, error) {
	var count int64
	if err := database.DB.Model(&model.User{}).Where("phone_number = ?", phone).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
