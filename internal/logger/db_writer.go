package logger

import (
	"context"
	"fmt"
	"time"

	common_models "coin-admin/internal/common/models"
	"coin-admin/internal/config"
	"coin-admin/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
)

// DBLogWriter persists log entries to Mongo from a background goroutine.
type DBLogWriter struct {
	collection *mongo.Collection
	logChan    chan LogEntry
	appId      string
	done       chan struct{}
}

// NewDBLogWriter starts the worker and drains it on shutdown.
func NewDBLogWriter(lc fx.Lifecycle, mongodb *database.MongodbDB, cfg *config.Config) *DBLogWriter {
	writer := &DBLogWriter{
		collection: mongodb.DB.Collection("console_logs"),
		logChan:    make(chan LogEntry, 1000),
		appId:      cfg.AppId,
		done:       make(chan struct{}),
	}

	go writer.processLogs()

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			close(writer.logChan)
			select {
			case <-writer.done:
			case <-ctx.Done():
			}
			return nil
		},
	})

	return writer
}

// AddLog never blocks the caller; entries are dropped when the buffer is full.
func (w *DBLogWriter) AddLog(entry LogEntry) {
	defer func() {
		// Sending after shutdown closed the channel.
		_ = recover()
	}()
	select {
	case w.logChan <- entry:
	default:
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

func (w *DBLogWriter) processLogs() {
	defer close(w.done)
	for entry := range w.logChan {
		record := common_models.Log{
			AppID:     w.appId,
			Level:     entry.Level.String(),
			Message:   entry.Message,
			Caller:    entry.Caller,
			SessionID: entry.SessionID,
			IpAddress: entry.IpAddress,
			AdminID:   entry.AdminID,
			CreatedAt: time.Now().UTC(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		// Insert errors are ignored.
		_, _ = w.collection.InsertOne(ctx, record)
		cancel()
	}
}
