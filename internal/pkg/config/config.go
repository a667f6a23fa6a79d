package config

import (
    "fmt"

    "github.com/joho/godotenv"
    "github.com/spf13/viper"
)

type Config struct {
    ServerPort    string `mapstructure:"SERVER_PORT"`
    QueueCapacity int    `mapstructure:"QUEUE_CAPACITY"`
    NumWorkers    int    `mapstructure:"NUM_WORKERS"`

    // Post store config. Backend is "sqlite" or "redis".
    StoreBackend string `mapstructure:"STORE_BACKEND"`
    SQLitePath   string `mapstructure:"SQLITE_PATH"`

    RedisHost     string `mapstructure:"REDIS_HOST"`
    RedisPort     string `mapstructure:"REDIS_PORT"`
    RedisPassword string `mapstructure:"REDIS_PASSWORD"`
    RedisDB       int    `mapstructure:"REDIS_DB"`

    // Question/answer source config
    QAFile  string `mapstructure:"QA_FILE"`
    QAWatch bool   `mapstructure:"QA_WATCH"`

    // Publisher config. An empty webhook URL means outbound posts are only logged.
    WebhookURL        string `mapstructure:"WEBHOOK_URL"`
    PublishMaxRetries int    `mapstructure:"PUBLISH_MAX_RETRIES"`

    // Retention sweep config. RetentionDays <= 0 disables the sweep.
    RetentionDays   int    `mapstructure:"RETENTION_DAYS"`
    CleanupSchedule string `mapstructure:"CLEANUP_SCHEDULE"`

    LogLevel string `mapstructure:"LOG_LEVEL"`
}

func LoadConfig() (*Config, error) {
    // Load a .env file if one is present; real environment variables win.
    _ = godotenv.Load()

    // Set defaults for configuration values
    viper.SetDefault("SERVER_PORT", "8080")
    viper.SetDefault("QUEUE_CAPACITY", 1000)
    viper.SetDefault("NUM_WORKERS", 4)

    viper.SetDefault("STORE_BACKEND", "sqlite")
    viper.SetDefault("SQLITE_PATH", "data/posts.db")

    // Redis defaults
    viper.SetDefault("REDIS_HOST", "localhost")
    viper.SetDefault("REDIS_PORT", "6379")
    viper.SetDefault("REDIS_PASSWORD", "")
    viper.SetDefault("REDIS_DB", 0)

    viper.SetDefault("QA_FILE", "data/qa.yaml")
    viper.SetDefault("QA_WATCH", true)

    viper.SetDefault("WEBHOOK_URL", "")
    viper.SetDefault("PUBLISH_MAX_RETRIES", 3)

    viper.SetDefault("RETENTION_DAYS", 0)
    viper.SetDefault("CLEANUP_SCHEDULE", "0 4 * * *")

    viper.SetDefault("LOG_LEVEL", "info")

    viper.AutomaticEnv()

    var config Config
    if err := viper.Unmarshal(&config); err != nil {
        return nil, fmt.Errorf("failed to unmarshal config: %w", err)
    }
    return &config, nil
}
