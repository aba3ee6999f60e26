// Package resilient оборачивает чтение каталога в circuit breaker,
// чтобы недоступное хранилище не держало каждый запрос до таймаута.
package resilient

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/charger-microservice/internal/pkg/metrics"
)

// ErrCircuitOpen возвращается, пока breaker открыт
var ErrCircuitOpen = errors.New("catalog circuit breaker is open")

// CircuitBreakerConfig - настройки breaker'а
type CircuitBreakerConfig struct {
	Name string

	// MaxRequests - сколько пробных запросов пропускается в half-open
	MaxRequests uint32

	// Interval - период сброса счётчиков в closed; 0 - не сбрасывать
	Interval time.Duration

	// Timeout - сколько breaker остаётся open перед half-open
	Timeout time.Duration

	ReadyToTrip func(counts gobreaker.Counts) bool

	// IsSuccessful - какие ошибки не считаются отказом хранилища
	IsSuccessful func(err error) bool
}

// DefaultCircuitBreakerConfig возвращает настройки по умолчанию
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: DefaultReadyToTrip,
	}
}

// DefaultReadyToTrip открывает breaker после 5+ запросов с долей ошибок от 50%
func DefaultReadyToTrip(counts gobreaker.Counts) bool {
	if counts.Requests == 0 {
		return false
	}
	failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
	return counts.Requests >= 5 && failureRatio >= 0.5
}

// NewCircuitBreaker создаёт breaker, который логирует смену состояния и пишет её в метрики
func NewCircuitBreaker[T any](cfg CircuitBreakerConfig, logger *zap.Logger) *gobreaker.CircuitBreaker[T] {
	if cfg.ReadyToTrip == nil {
		cfg.ReadyToTrip = DefaultReadyToTrip
	}

	settings := gobreaker.Settings{
		Name:         cfg.Name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		ReadyToTrip:  cfg.ReadyToTrip,
		IsSuccessful: cfg.IsSuccessful,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			metrics.ObserveBreakerState(name, int(to))
		},
	}

	metrics.ObserveBreakerState(cfg.Name, int(gobreaker.StateClosed))
	return gobreaker.NewCircuitBreaker[T](settings)
}
