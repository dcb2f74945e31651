package model

import "time"

// Tag is the category attached to a saved address.
type Tag string

const (
	TagHome   Tag = "home"
	TagWork   Tag = "work"
	TagUsers  Tag = "users"
	TagMarker Tag = "marker"
)

var Tags = []Tag{TagHome, TagWork, TagUsers, TagMarker}

func (t Tag) Valid() bool {
	for _, v := range Tags {
		if t == v {
			return true
		}
	}
	return false
}

type Address struct {
	DTO
	UserId  uint   `gorm:"index;not null" json:"user_id"`
	Address string `gorm:"not null" json:"address"`
	Tag     string `gorm:"size:20;not null" json:"tag"`
	User    *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:UserId" json:"-"`
}

// AddressRecord is the body of POST /address.
type AddressRecord struct {
	UserId  uint   `validate:"required" json:"user_id"`
	Address string `validate:"required,max=500" json:"address"`
	Tag     string `validate:"required,oneof=home work users marker" json:"tag"`
}

// SavedAddress is the read model returned by GET /get-address.
type SavedAddress struct {
	Address string `json:"address"`
	Tag     string `json:"tag"`
}

type AddressList struct {
	Addresses []SavedAddress `json:"addresses"`
}

// IdempotencyKey remembers an address submission so a retried request is not stored twice.
type IdempotencyKey struct {
	DTO
	Key       string    `gorm:"column:idem_key;uniqueIndex;size:64;not null" json:"key"`
	UserId    uint      `gorm:"not null" json:"user_id"`
	AddressId uint      `json:"address_id"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
}
