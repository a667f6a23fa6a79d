package deduper

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "postguard/internal/pkg/config"
    "postguard/internal/pkg/logger"
    "postguard/internal/pkg/models"
)

// Implements Store on Redis. Each record lives under its own key so SetNX
// provides the conditional-put that makes Insert atomic insert-or-fail.
type redisStore struct {
    client    *redis.Client
    keyPrefix string
}

// Creates a Store backed by Redis using the connection settings from config.
func NewRedisStore(config *config.Config) (Store, error) {
    rdb := redis.NewClient(&redis.Options{
        Addr:     fmt.Sprintf("%s:%s", config.RedisHost, config.RedisPort),
        Password: config.RedisPassword, // "" if no auth
        DB:       config.RedisDB,
    })

    // Test connection
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := rdb.Ping(ctx).Err(); err != nil {
        logger.Log.Error("Failed to connect to Redis", zap.Error(err))
        return nil, err
    }

    logger.Log.Info("Connected to Redis successfully",
        zap.String("host", config.RedisHost),
        zap.String("port", config.RedisPort),
    )

    return &redisStore{
        client:    rdb,
        keyPrefix: "postguard:post:",
    }, nil
}

func (store *redisStore) key(fingerprint string) string {
    return store.keyPrefix + fingerprint
}

func (store *redisStore) Insert(ctx context.Context, record models.PostRecord) error {
    payload, err := json.Marshal(record)
    if err != nil {
        return err
    }

    created, err := store.client.SetNX(ctx, store.key(record.Fingerprint), payload, 0).Result()
    if err != nil {
        return err
    }
    if !created {
        return ErrDuplicateFingerprint
    }
    return nil
}

func (store *redisStore) Exists(ctx context.Context, fingerprint string) (bool, error) {
    count, err := store.client.Exists(ctx, store.key(fingerprint)).Result()
    if err != nil {
        return false, err
    }
    return count > 0, nil
}

func (store *redisStore) Delete(ctx context.Context, fingerprint string) (bool, error) {
    deleted, err := store.client.Del(ctx, store.key(fingerprint)).Result()
    if err != nil {
        return false, err
    }
    return deleted > 0, nil
}

func (store *redisStore) DeleteAll(ctx context.Context) error {
    iter := store.client.Scan(ctx, 0, store.keyPrefix+"*", 0).Iterator()
    for iter.Next(ctx) {
        if err := store.client.Del(ctx, iter.Val()).Err(); err != nil {
            return err
        }
    }
    return iter.Err()
}

func (store *redisStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
    var purged int64
    iter := store.client.Scan(ctx, 0, store.keyPrefix+"*", 0).Iterator()
    for iter.Next(ctx) {
        payload, err := store.client.Get(ctx, iter.Val()).Result()
        if err == redis.Nil {
            continue
        }
        if err != nil {
            return purged, err
        }

        var record models.PostRecord
        if err := json.Unmarshal([]byte(payload), &record); err != nil {
            logger.Log.Warn("Skipping malformed post record", zap.String("key", iter.Val()), zap.Error(err))
            continue
        }
        if record.CreatedAt.Before(cutoff) {
            if err := store.client.Del(ctx, iter.Val()).Err(); err != nil {
                return purged, err
            }
            purged++
        }
    }
    return purged, iter.Err()
}

func (store *redisStore) Close() error {
    return store.client.Close()
}
