package charger

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/charger-microservice/internal/domain"
	"github.com/charger-microservice/internal/domain/repository"
	"github.com/charger-microservice/internal/pkg/errors"
	"github.com/charger-microservice/internal/pkg/metrics"
	"github.com/charger-microservice/internal/worker"
)

const (
	// WorkerName - имя воркера в логах и метриках
	WorkerName = "charger-nearest"

	maxBatchSize      = 20                     // максимум сообщений за раз
	defaultEmptySleep = 100 * time.Millisecond // пауза если очередь пуста
	errorSleep        = time.Second
)

// NearestFinder - поиск ближайшей станции (реализуется StationUseCase)
type NearestFinder interface {
	NearestStation(ctx context.Context, criteria domain.FilterCriteria) (*domain.StationMatch, error)
}

// NearestChargerWorker обрабатывает асинхронные запросы ближайшей станции
type NearestChargerWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	finder       NearestFinder
	consumerName string
	maxRetries   int
	emptySleep   time.Duration
}

// NewNearestChargerWorker создает новый NearestChargerWorker.
// maxRetries - число повторов публикации результата, emptySleep - пауза при пустой очереди.
func NewNearestChargerWorker(
	streamRepo repository.StreamRepository,
	finder NearestFinder,
	consumerGroup string,
	maxRetries int,
	emptySleep time.Duration,
	logger *zap.Logger,
) *NearestChargerWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	if emptySleep <= 0 {
		emptySleep = defaultEmptySleep
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &NearestChargerWorker{
		BaseWorker:   worker.NewBaseWorker(WorkerName, consumerGroup, logger),
		streamRepo:   streamRepo,
		finder:       finder,
		consumerName: consumerName,
		maxRetries:   maxRetries,
		emptySleep:   emptySleep,
	}
}

// Start запускает воркер
func (w *NearestChargerWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting NearestChargerWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("max_batch_size", maxBatchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamChargerNearest, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.ProcessBatch(ctx)
			if err != nil {
				logger.Error("Failed to process batch", zap.Error(err))
				w.sleep(ctx, errorSleep)
				continue
			}

			if processed == 0 {
				w.sleep(ctx, w.emptySleep)
			}
		}
	}
}

// ProcessBatch читает и обрабатывает batch сообщений.
// Возвращает количество прочитанных сообщений, включая битые.
func (w *NearestChargerWorker) ProcessBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamChargerNearest,
		w.ConsumerGroup(),
		w.consumerName,
		maxBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}

	if len(messages) == 0 {
		return 0, nil
	}

	logger.Debug("Processing batch", zap.Int("message_count", len(messages)))

	ackIDs := make([]string, 0, len(messages))
	for _, msg := range messages {
		event, err := parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			metrics.CountWorkerMessage(WorkerName, "malformed")
			// битое сообщение подтверждаем, чтобы оно не застревало в PEL
			ackIDs = append(ackIDs, msg.ID)
			continue
		}

		done := w.handle(ctx, event)
		if err := w.publish(ctx, done); err != nil {
			logger.Error("Failed to publish done event",
				zap.String("request_id", event.RequestID),
				zap.Error(err))
			metrics.CountWorkerMessage(WorkerName, "publish_error")
		}
		ackIDs = append(ackIDs, msg.ID)
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamChargerNearest, w.ConsumerGroup(), ackIDs); err != nil {
		// Не критично - сообщения будут переобработаны
		logger.Error("Failed to ack messages", zap.Error(err))
	}

	return len(messages), nil
}

// handle выполняет поиск и формирует ответ; ошибка поиска попадает в поле Error
func (w *NearestChargerWorker) handle(ctx context.Context, event *domain.NearestChargerEvent) *domain.NearestChargerDoneEvent {
	done := &domain.NearestChargerDoneEvent{RequestID: event.RequestID}

	match, err := w.finder.NearestStation(ctx, event.Criteria())
	if err != nil {
		done.Error = errorCode(err)
		outcome := "failed"
		if stderrors.Is(err, errors.ErrStationNotFound) {
			outcome = "not_found"
		}
		w.Logger().Debug("Nearest charger lookup failed",
			zap.String("request_id", event.RequestID),
			zap.Error(err))
		metrics.CountWorkerMessage(WorkerName, outcome)
		return done
	}

	done.Station = match.Station
	done.DistanceKm = match.DistanceKm
	metrics.CountWorkerMessage(WorkerName, "ok")
	return done
}

func (w *NearestChargerWorker) publish(ctx context.Context, done *domain.NearestChargerDoneEvent) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(w.maxRetries)),
		ctx,
	)
	return backoff.Retry(func() error {
		return w.streamRepo.PublishToStream(ctx, domain.StreamChargerNearestDone, done)
	}, policy)
}

func (w *NearestChargerWorker) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	case <-w.StopChan():
	}
}

// parseMessage парсит сообщение из стрима в NearestChargerEvent
func parseMessage(msg domain.StreamMessage) (*domain.NearestChargerEvent, error) {
	if strings.TrimSpace(msg.Data) == "" {
		return nil, fmt.Errorf("missing 'data' field")
	}

	var event domain.NearestChargerEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if strings.TrimSpace(event.RequestID) == "" {
		return nil, fmt.Errorf("missing request_id")
	}

	return &event, nil
}

// errorCode - код AppError для потребителя результата
func errorCode(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return errors.ErrInternalServer.Code
}
