package configuration

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var ctx = context.Background()

// Client can be used to save key value pairs in redis
var Client *redis.Client

// InitRedis initializes the redis connection, retrying a few times so
// the service survives redis coming up after it.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	var err error
	maxRetries := 5
	retryDelay := time.Second * 5
	for i := 0; i < maxRetries; i++ {
		Client = redis.NewClient(&redis.Options{
			Network:  "tcp",
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		})

		_, err = Client.Ping(ctx).Result()
		if err == nil {
			break
		}

		log.Warn().Err(err).Int("attempt", i+1).Int("max", maxRetries).Msg("failed to connect to redis")
		time.Sleep(retryDelay)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis after multiple attempts")
	}
}

// SetRedis sets a key value pair with an expiry
func SetRedis(key string, value any, expirationTime time.Duration) error {
	return Client.Set(context.Background(), key, value, expirationTime).Err()
}

// GetRedis gets the value stored under key
func GetRedis(key string) (string, error) {
	return Client.Get(context.Background(), key).Result()
}
