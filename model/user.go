package model

type User struct {
	DTO
	UserName    string `gorm:"not null" json:"user_name"`
	PhoneNumber string `gorm:"uniqueIndex;not null" json:"phone_number"`
	Password    string `gorm:"not null" json:"-"`
}

type Users []User

type RegisterInput struct {
	UserName    string `validate:"required,max=100" json:"user_name"`
	PhoneNumber string `validate:"required,max=20" json:"phone_number"`
	Password    string `validate:"required,max=72" json:"password"`
}

type LoginInput struct {
	PhoneNumber string `validate:"required" json:"phone_number"`
	Password    string `validate:"required" json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserId      uint   `json:"user_id"`
	UserName    string `json:"user_name"`
	PhoneNumber string `json:"phone_number"`
}
