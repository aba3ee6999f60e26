package worker

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// BaseWorker - общая часть воркеров: имя, consumer group, логгер и сигнал остановки
type BaseWorker struct {
	name          string
	consumerGroup string
	logger        *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	stopped  atomic.Bool
}

// NewBaseWorker создает новый BaseWorker; логгер получает поле worker
func NewBaseWorker(name, consumerGroup string, logger *zap.Logger) *BaseWorker {
	return &BaseWorker{
		name:          name,
		consumerGroup: consumerGroup,
		logger:        logger.With(zap.String("worker", name)),
		stopChan:      make(chan struct{}),
	}
}

func (w *BaseWorker) Name() string {
	return w.name
}

// Stop останавливает воркер; повторные вызовы ничего не делают
func (w *BaseWorker) Stop() error {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping worker")
		w.stopped.Store(true)
		close(w.stopChan)
	})
	return nil
}

func (w *BaseWorker) IsStopped() bool {
	return w.stopped.Load()
}

// StopChan закрывается при Stop
func (w *BaseWorker) StopChan() <-chan struct{} {
	return w.stopChan
}

func (w *BaseWorker) ConsumerGroup() string {
	return w.consumerGroup
}

func (w *BaseWorker) Logger() *zap.Logger {
	return w.logger
}
