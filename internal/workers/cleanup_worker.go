package workers

import (
	"context"
	"time"

	"prowork_backend/internal/logger"
	"prowork_backend/internal/services"
)

// CleanupWorker физически удаляет давно прочитанные уведомления.
// In-app лента показывает хвост истории, но чистит таблицу только он.
type CleanupWorker struct {
	service   services.NotificationService
	retention time.Duration
}

func NewCleanupWorker(service services.NotificationService, retention time.Duration) *CleanupWorker {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	return &CleanupWorker{service: service, retention: retention}
}

// Start запускает периодическую чистку прочитанных уведомлений
func (w *CleanupWorker) Start(ctx context.Context) {
	go w.deleteReadNotifications(ctx)
}

func (w *CleanupWorker) deleteReadNotifications(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.WorkerLog("cleanup", "stopped")
			return
		case <-ticker.C:
			removed, err := w.service.SweepReadNotifications(time.Now().Add(-w.retention))
			if err != nil {
				logger.WithError(err).Error("read notifications cleanup failed")
			} else if removed > 0 {
				logger.WorkerLog("cleanup", "deleted read notifications", "count", removed)
			}
		}
	}
}
