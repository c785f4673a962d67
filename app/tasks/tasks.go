// Package tasks registers the recurring maintenance jobs.
package tasks

import (
	"time"

	"github.com/storelane/storelane/app/models"
	"github.com/storelane/storelane/pkg/database"
	"github.com/storelane/storelane/pkg/logger"
	"github.com/storelane/storelane/pkg/schedule"
)

// staleCartAge is how long an untouched cart line survives before cleanup.
const staleCartAge = 30 * 24 * time.Hour

// Register adds every recurring task to the scheduler. Call once at boot,
// after the database is connected.
func Register() {
	schedule.Daily().Name("carts:purge-stale").WithoutOverlapping().Run(purgeStaleCartItems)
}

func purgeStaleCartItems() {
	cutoff := time.Now().Add(-staleCartAge)
	res := database.DB.Where("updated_at < ?", cutoff).Delete(&models.CartItem{})
	if res.Error != nil {
		logger.Error("purge stale cart items", "error", res.Error)
		return
	}
	if res.RowsAffected > 0 {
		logger.Info("purged stale cart items", "count", res.RowsAffected)
	}
}
