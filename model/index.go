package model

import "time"

type TokenClaim struct {
	UserId   uint   `json:"userId"`
	UserName string `json:"userName"`
}

type DTO struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	DeletedAt time.Time `json:"deletedAt,omitempty"`
}

// ErrorBody is the failure payload every endpoint returns.
type ErrorBody struct {
	Detail string `json:"detail"`
	Error  any    `json:"error,omitempty"`
}

type MessageBody struct {
	Message string `json:"message"`
}
