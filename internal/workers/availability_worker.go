package workers

import (
	"context"
	"time"

	"prowork_backend/internal/logger"
	"prowork_backend/internal/services"
)

// AvailabilityWorker переводит исполнителей с истёкшим окном отсутствия
// обратно в available. Статус вычисляется лениво при чтении, воркер лишь
// подтягивает хранимое состояние к эффективному.
type AvailabilityWorker struct {
	service  services.AvailabilityService
	interval time.Duration
}

func NewAvailabilityWorker(service services.AvailabilityService, interval time.Duration) *AvailabilityWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &AvailabilityWorker{service: service, interval: interval}
}

// Start запускает фоновую сверку окон отсутствия
func (w *AvailabilityWorker) Start(ctx context.Context) {
	go w.expireLapsedWindows(ctx)
}

func (w *AvailabilityWorker) expireLapsedWindows(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.WorkerLog("availability", "stopped")
			return
		case <-ticker.C:
			expired, err := w.service.ExpireLapsed(time.Now())
			if err != nil {
				logger.WithError(err).Error("availability sweep failed")
			} else if expired > 0 {
				logger.WorkerLog("availability", "expired away windows", "count", expired)
			}
		}
	}
}
