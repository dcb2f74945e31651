package helper

import (
	"errors"
	"log"
	"opta/database"
	"opta/model"
	"time"

	"github.com/go-co-op/gocron/v2"
)

var ErrIdempotencyKeyConflict = errors.New("idempotency key already used by another user")

var purgeScheduler gocron.Scheduler

// PurgeExpiredIdempotencyKeys deletes keys that expired before now.
func PurgeExpiredIdempotencyKeys(now time.Time) (int64, error) {
	result := database.DB.Where("expires_at <= ?", now).Delete(&model.IdempotencyKey{})
	return result.RowsAffected, result.Error
}

func purgeIdempotencyKeys() {
	n, err := PurgeExpiredIdempotencyKeys(time.Now())
	if err != nil {
		log.Printf("Failed to purge idempotency keys: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Purged %d expired idempotency keys", n)
	}
}

func StartIdempotencyPurgeScheduler(every time.Duration) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = s.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(purgeIdempotencyKeys),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return err
	}

	purgeScheduler = s
	s.Start()
	log.Printf("Idempotency key purge scheduler started (every %s)", every)
	return nil
}

func StopIdempotencyPurgeScheduler() {
	if purgeScheduler != nil {
		if err := purgeScheduler.Shutdown(); err != nil {
			log.Printf("Failed to stop purge scheduler: %v", err)
		}
	}
}
