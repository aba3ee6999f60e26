//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/charger-microservice/internal/domain"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	lat := flag.Float64("lat", -37.8136, "reference latitude")
	lon := flag.Float64("lon", 144.9631, "reference longitude")
	connector := flag.String("connector", "", "connector filter, comma separated")
	current := flag.String("current", "", "current filter: AC, AC3, DC")
	operator := flag.String("operator", "", "operator filter")
	radius := flag.Float64("radius", 0, "radius in km, 0 = unlimited")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := domain.NearestChargerEvent{
		RequestID: uuid.NewString(),
		Latitude:  lat,
		Longitude: lon,
		Connector: *connector,
		Current:   *current,
		Operator:  *operator,
	}
	if *radius > 0 {
		event.RadiusKm = radius
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// последний ID до публикации, чтобы читать только новые ответы
	startID := "$"
	if last, err := client.XRevRangeN(ctx, domain.StreamChargerNearestDone, "+", "-", 1).Result(); err == nil && len(last) > 0 {
		startID = last[0].ID
	}

	msgID, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamChargerNearest,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: %s\n", domain.StreamChargerNearest)
	fmt.Printf("   Message ID: %s\n", msgID)
	fmt.Printf("   Request ID: %s\n", event.RequestID)
	fmt.Printf("   Coordinates: %.6f, %.6f\n", *lat, *lon)
	fmt.Printf("\nWaiting for response in %s...\n", domain.StreamChargerNearestDone)

	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		results, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{domain.StreamChargerNearestDone, startID},
			Count:   10,
			Block:   time.Second,
		}).Result()
		if err != nil && err != redis.Nil {
			log.Fatalf("Failed to read responses: %v", err)
		}

		for _, stream := range results {
			for _, msg := range stream.Messages {
				startID = msg.ID

				raw, ok := msg.Values["data"].(string)
				if !ok {
					continue
				}
				var done domain.NearestChargerDoneEvent
				if err := json.Unmarshal([]byte(raw), &done); err != nil || done.RequestID != event.RequestID {
					continue
				}

				fmt.Printf("\nResponse received\n")
				pretty, _ := json.MarshalIndent(done, "", "  ")
				fmt.Printf("%s\n", pretty)
				return
			}
		}
	}

	fmt.Println("Timeout waiting for response")
}
