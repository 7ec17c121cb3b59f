package queue

import (
	"time"

	"gorm.io/gorm"

	"github.com/dlatelier/storefront/pkg/logger"
)

// FailedJobRecord is the database row written when a job exhausts retries.
// Persisting failures lets operators inspect and replay them later.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	JobType  string    `json:"job_type"`
	Payload  string    `json:"payload"`
	Error    string    `json:"error"`
	Attempts int       `json:"attempts"`
	FailedAt time.Time `json:"failed_at"`
}

func (FailedJobRecord) TableName() string { return "storefront_failed_jobs" }

var failedDB *gorm.DB

// UseDB enables database persistence of failed jobs.
func UseDB(db *gorm.DB) { failedDB = db }

func persistFailed(typeName, payload string, err error, attempts int) {
	if failedDB == nil {
		return
	}

	rec := FailedJobRecord{
		JobType:  typeName,
		Payload:  payload,
		Error:    err.Error(),
		Attempts: attempts,
		FailedAt: time.Now(),
	}
	if dbErr := failedDB.Create(&rec).Error; dbErr != nil {
		logger.Error("queue: persist failed job", "type", typeName, "error", dbErr)
	}
}
