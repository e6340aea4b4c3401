package workers

import (
	"context"
	"time"

	"prowork_backend/internal/logger"
	"prowork_backend/internal/services"
)

// ThrottleWorker чистит давно неактивные записи троттлинга email,
// чтобы карта ключей тредов не росла бесконечно.
type ThrottleWorker struct {
	service  services.NotificationService
	interval time.Duration
}

func NewThrottleWorker(service services.NotificationService, interval time.Duration) *ThrottleWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ThrottleWorker{service: service, interval: interval}
}

// Start запускает периодическую уборку троттлинга
func (w *ThrottleWorker) Start(ctx context.Context) {
	go w.sweepThrottle(ctx)
}

func (w *ThrottleWorker) sweepThrottle(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.WorkerLog("throttle", "stopped")
			return
		case <-ticker.C:
			removed := w.service.SweepThrottle(time.Now())
			if removed > 0 {
				logger.WorkerLog("throttle", "swept stale entries", "count", removed)
			}
		}
	}
}
