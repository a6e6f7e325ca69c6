package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"coin-admin/internal/config"
	"coin-admin/internal/database"
	"coin-admin/internal/features/session"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// cleanup purges persisted console sessions written by another schema
// version and sessions past their expiry.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var repo session.SessionRepository
	switch cfg.SessionStore {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		repo = session.NewRedisRepository(client)
	case "memory":
		fmt.Println("SESSION_STORE=memory keeps nothing to clean up.")
		return
	default:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer client.Disconnect(ctx)
		repo = session.NewMongoRepository(&database.MongodbDB{DB: client.Database(cfg.DBName)})
	}

	dropped, err := repo.DeleteOtherVersions(ctx, cfg.SessionSchemaVersion)
	if err != nil {
		log.Fatalf("Failed to delete sessions of other schema versions: %v", err)
	}
	fmt.Printf("Deleted %d sessions not at schema version %d\n", dropped, cfg.SessionSchemaVersion)

	expired, err := repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		log.Fatalf("Failed to delete expired sessions: %v", err)
	}
	fmt.Printf("Deleted %d expired sessions\n", expired)

	fmt.Println("Cleanup complete.")
}
