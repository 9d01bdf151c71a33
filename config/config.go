package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Config owns the process-wide clients. The Mongo client is connected once
// here and disconnected once by main; requests share it through the driver's
// connection pool.
type Config struct {
	Env      string
	HTTPAddr string
	DBName   string

	MongoClient *mongo.Client

	QueueURL  string
	SQSClient *sqs.Client

	DispatcherBuffer int

	// Notifier settings.
	NotifyEmailTo  string
	ReceiptBaseURL string
}

// Load reads the environment (plus a .env file when present), connects to
// MongoDB and, when a queue URL is configured, builds the SQS client.
func Load(ctx context.Context, log zerolog.Logger) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:              getenv("APP_ENV", "development"),
		HTTPAddr:         getenv("HTTP_ADDR", ":8080"),
		DBName:           getenv("DB_NAME", "donations"),
		QueueURL:         os.Getenv("SQS_QUEUE_URL"),
		DispatcherBuffer: getenvInt("DISPATCHER_BUFFER", 256),
		NotifyEmailTo:    os.Getenv("NOTIFY_EMAIL_TO"),
		ReceiptBaseURL:   getenv("RECEIPT_BASE_URL", "https://api.donations.com"),
	}

	uri := getenv("MONGODB_URI", "mongodb://localhost:27017")

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	cfg.MongoClient = client

	if cfg.QueueURL != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		cfg.SQSClient = sqs.NewFromConfig(awsCfg)
	} else {
		log.Warn().Msg("SQS_QUEUE_URL not configured, donation notifications disabled")
	}

	return cfg, nil
}

// Database returns the application database handle.
func (c *Config) Database() *mongo.Database {
	return c.MongoClient.Database(c.DBName)
}

// Close disconnects the Mongo client.
func (c *Config) Close(ctx context.Context) error {
	return c.MongoClient.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the ledger relies on: campaigns are
// keyed uniquely by campaign_id, and donations are indexed by campaign_id
// for the reconciliation query.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("campaigns").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "campaign_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create campaigns index: %w", err)
	}

	_, err = db.Collection("donations").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "campaign_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create donations index: %w", err)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
