package repository

import (
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/gorm"
)

type AccessLogRepository struct {
	db *gorm.DB
}

func NewAccessLogRepository(db *gorm.DB) *AccessLogRepository {
	return &AccessLogRepository{db: db}
}

// Log 记录一条访问日志
func (r *AccessLogRepository) Log(entry *model.AccessLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return r.db.Create(entry).Error
}

// DeleteOldLogs 清理超过指定天数的访问日志
func (r *AccessLogRepository) DeleteOldLogs(days int) (int64, error) {
	result := r.db.Exec(`
		DELETE FROM access_logs
		WHERE created_at < NOW() - INTERVAL '1 day' * $1
	`, days)
	return result.RowsAffected, result.Error
}
