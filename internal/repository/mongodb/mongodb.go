package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/charger-microservice/internal/config"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second
)

// DB - подключение к MongoDB с выбранной базой каталога
type DB struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *zap.Logger
}

// New подключается к MongoDB и проверяет соединение.
// Ping повторяется с экспоненциальной паузой до cfg.ConnectRetries раз.
func New(ctx context.Context, uri string, cfg *config.MongoConfig, logger *zap.Logger) (*DB, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(connectTimeout).
		SetAppName("charger-microservice")

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = 0

	retries := cfg.ConnectRetries
	if retries < 0 {
		retries = 0
	}

	attempt := 0
	ping := func() error {
		attempt++
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			logger.Warn("MongoDB ping failed",
				zap.Int("attempt", attempt),
				zap.Error(err))
			return err
		}
		return nil
	}

	if err := backoff.Retry(ping, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(retries)), ctx)); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info("MongoDB connected",
		zap.String("database", cfg.Database),
		zap.Int("attempts", attempt),
	)

	return &DB{
		client:   client,
		database: client.Database(cfg.Database),
		logger:   logger,
	}, nil
}

// Collection возвращает коллекцию выбранной базы
func (db *DB) Collection(name string) *mongo.Collection {
	return db.database.Collection(name)
}

func (db *DB) Health(ctx context.Context) error {
	return db.client.Ping(ctx, nil)
}

func (db *DB) Close(ctx context.Context) error {
	db.logger.Info("Closing MongoDB connection")
	return db.client.Disconnect(ctx)
}
