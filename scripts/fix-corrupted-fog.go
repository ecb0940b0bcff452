package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-perception/internal/fog"
	"github.com/KirkDiggler/rpg-perception/internal/schema"
)

const (
	explorationPattern = "fog_exploration:*"
	sceneIndexPrefix   = "fog_exploration_index:"
)

// Simple representation to check the raster
type explorationData struct {
	Explored *string `json:"explored"`
}

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	validator, err := schema.NewFogExplorationValidator()
	if err != nil {
		log.Fatal("Failed to load fog exploration schema:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning for corrupted fog explorations...")

	iter := client.Scan(ctx, 0, explorationPattern, 0).Iterator()

	var corruptedKeys []string
	var checkedCount int

	for iter.Next(ctx) {
		key := iter.Val()
		checkedCount++

		data, err := client.Get(ctx, key).Bytes()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		if err := validator.ValidateBytes(data); err != nil {
			fmt.Printf("✗ Schema violation in %s: %v\n", key, err)
			corruptedKeys = append(corruptedKeys, key)
			continue
		}

		// A raster that no longer decodes is treated as corrupted; the
		// server would discard it on load anyway
		var doc explorationData
		if err := json.Unmarshal(data, &doc); err == nil && doc.Explored != nil {
			if _, err := fog.DecodeRaster(*doc.Explored); err != nil {
				fmt.Printf("✗ Unreadable raster in %s: %v\n", key, err)
				corruptedKeys = append(corruptedKeys, key)
			}
		}
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d keys, found %d corrupted entries\n", checkedCount, len(corruptedKeys))

	if len(corruptedKeys) == 0 {
		fmt.Println("No corrupted data found!")
		return
	}

	fmt.Println("\nCorrupted keys:")
	for _, key := range corruptedKeys {
		fmt.Printf("  - %s\n", key)
	}

	fmt.Print("\nDo you want to DELETE these corrupted entries? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	for _, key := range corruptedKeys {
		// fog_exploration:{scene_id}:{user_id}
		parts := strings.SplitN(strings.TrimPrefix(key, "fog_exploration:"), ":", 2)
		pipe := client.TxPipeline()
		pipe.Del(ctx, key)
		if len(parts) == 2 {
			pipe.SRem(ctx, sceneIndexPrefix+parts[0], parts[1])
		}
		if _, err := pipe.Exec(ctx); err != nil {
			fmt.Printf("Failed to delete %s: %v\n", key, err)
		} else {
			fmt.Printf("Deleted %s\n", key)
		}
	}
	fmt.Println("\nCleanup complete!")
}
