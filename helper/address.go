package helper

import (
	"context"
	"errors"
	"fmt"
	"opta/database"
	"opta/model"
	"time"

	"gorm.io/gorm"
)

const (
	AddressCacheTTL   = 10 * time.Minute
	IdempotencyKeyTTL = 24 * time.Hour
)

func addressCacheKey(userId uint) string {
	return fmt.Sprintf("addresses:%d", userId)
}

// CreateAddress stores the record. When idemKey was already used by the same
// user the earlier address is kept and created is false.
func CreateAddress(ctx context.Context, record model.AddressRecord, idemKey string) (created bool, err error) {
	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if idemKey != "" {
			var existing model.IdempotencyKey
			err := tx.Where("idem_key = ? AND expires_at > ?", idemKey, time.Now()).First(&existing).Error
			if err == nil {
				if existing.UserId != record.UserId {
					return ErrIdempotencyKeyConflict
				}
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			// an expired row with the same key blocks the unique index
			if err := tx.Where("idem_key = ?", idemKey).Delete(&model.IdempotencyKey{}).Error; err != nil {
				return err
			}
		}

		address := model.Address{
			UserId:  record.UserId,
			Address: record.Address,
			Tag:     record.Tag,
		}
		if err := tx.Create(&address).Error; err != nil {
			return err
		}
		created = true

		if idemKey == "" {
			return nil
		}
		return tx.Create(&model.IdempotencyKey{
			Key:       idemKey,
			UserId:    record.UserId,
			AddressId: address.ID,
			ExpiresAt: time.Now().Add(IdempotencyKeyTTL),
		}).Error
	})
	if err != nil {
		return false, err
	}

	if created {
		cacheDel(ctx, addressCacheKey(record.UserId))
	}
	return created, nil
}

func GetUserAddresses(ctx context.Context, userId uint) ([]model.SavedAddress, error) {
	key := addressCacheKey(userId)

	var addresses []model.SavedAddress
	if cacheGet(ctx, key, &addresses) {
		return addresses, nil
	}

	addresses = []model.SavedAddress{}
	if err := database.DB.WithContext(ctx).
		Model(&model.Address{}).
		Select("address", "tag").
		Where("user_id = ?", userId).
		Order("id").
		Find(&addresses).Error; err != nil {
		return nil, err
	}

	cacheSet(ctx, key, addresses, AddressCacheTTL)
	return addresses, nil
}
