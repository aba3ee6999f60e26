package worker

import (
	"context"
)

// Worker - фоновый обработчик, которым управляет WorkerManager
type Worker interface {
	// Start блокирует до Stop, отмены ctx или фатальной ошибки
	Start(ctx context.Context) error

	// Stop сигнализирует о завершении; повторный вызов безопасен
	Stop() error

	// Name используется в логах и метриках
	Name() string
}
