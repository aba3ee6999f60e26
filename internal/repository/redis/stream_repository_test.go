package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/charger-microservice/internal/domain"
	redisRepo "github.com/charger-microservice/internal/repository/redis"
)

const (
	testStream     = "test:stream:charger:nearest"
	testDoneStream = "test:stream:charger:nearest:done"
)

// getTestRedisClient creates a Redis client for testing
func getTestRedisClient(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use DB 1 for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}

	client.Del(ctx, testStream, testDoneStream)
	t.Cleanup(func() {
		client.Del(context.Background(), testStream, testDoneStream)
		client.Close()
	})

	return client
}

func TestStreamRepository_CreateConsumerGroup(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, "test-group"))

	groups, err := client.XInfoGroups(ctx, testStream).Result()
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "test-group", groups[0].Name)

	// BUSYGROUP не ошибка
	assert.NoError(t, repo.CreateConsumerGroup(ctx, testStream, "test-group"))
}

func TestStreamRepository_PublishToStream(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	dist := 1.25
	event := &domain.NearestChargerDoneEvent{
		RequestID:  "req-1",
		Station:    &domain.Station{ID: "st-1", Operator: "Evie"},
		DistanceKm: &dist,
	}
	require.NoError(t, repo.PublishToStream(ctx, testDoneStream, event))

	messages, err := client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{testDoneStream, "0"},
		Count:   1,
	}).Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Len(t, messages[0].Messages, 1)

	dataStr, ok := messages[0].Messages[0].Values["data"].(string)
	require.True(t, ok)

	var received domain.NearestChargerDoneEvent
	require.NoError(t, json.Unmarshal([]byte(dataStr), &received))
	assert.Equal(t, "req-1", received.RequestID)
	require.NotNil(t, received.Station)
	assert.Equal(t, "st-1", received.Station.ID)
	assert.Equal(t, 1.25, *received.DistanceKm)
}

func TestStreamRepository_ConsumeBatchAndAck(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testStream, "test-group"))

	empty, err := repo.ConsumeBatch(ctx, testStream, "test-group", "consumer-1", 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.PublishToStream(ctx, testStream, domain.NearestChargerEvent{RequestID: id}))
	}

	batch, err := repo.ConsumeBatch(ctx, testStream, "test-group", "consumer-1", 2)
	require.NoError(t, err)
	require.Len(t, batch, 2)

	var first domain.NearestChargerEvent
	require.NoError(t, json.Unmarshal([]byte(batch[0].Data), &first))
	assert.Equal(t, "a", first.RequestID)

	ids := []string{batch[0].ID, batch[1].ID}
	require.NoError(t, repo.AckMessages(ctx, testStream, "test-group", ids))

	pending, err := client.XPending(ctx, testStream, "test-group").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)

	rest, err := repo.ConsumeBatch(ctx, testStream, "test-group", "consumer-1", 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.NoError(t, repo.AckMessage(ctx, testStream, "test-group", rest[0].ID))
}

func TestStreamRepository_AckMessagesEmpty(t *testing.T) {
	repo := redisRepo.NewStreamRepository(redis.NewClient(&redis.Options{Addr: "localhost:0"}), zap.NewNop())

	assert.NoError(t, repo.AckMessages(context.Background(), testStream, "group", nil))
}
