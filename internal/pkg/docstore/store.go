package docstore

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Get when no document exists at the path.
	ErrNotFound = errors.New("document not found")

	// ErrNotObject is returned by Update when the stored document is not a JSON object.
	ErrNotObject = errors.New("document is not an object")
)

// Store is a key-value document store addressed by slash-separated paths.
// Set is last-write-wins at document granularity.
type Store interface {
	// Get decodes the document at path into dst. Returns ErrNotFound when absent.
	Get(ctx context.Context, path string, dst interface{}) error

	// Set replaces the document at path.
	Set(ctx context.Context, path string, value interface{}) error

	// Update merges patch into the top-level keys of the object at path, creating it when absent.
	Update(ctx context.Context, path string, patch map[string]interface{}) error

	Close() error
}

// Driver names accepted by Open.
const (
	DriverBunt     = "buntdb"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
)

// Config selects and configures a Store driver.
type Config struct {
	Driver string

	// buntdb: file path or ":memory:"
	BuntPath string

	PostgresDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Open connects the configured driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverBunt, "":
		return NewBuntStore(cfg.BuntPath)
	case DriverPostgres:
		return NewPostgresStore(ctx, cfg.PostgresDSN)
	case DriverRedis:
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisPrefix)
	case DriverMongo:
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	default:
		return nil, fmt.Errorf("unsupported store driver: %q", cfg.Driver)
	}
}
