package config

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

var RedisClient *redis.Client

// InitRedis inicializa o cache opcional. Quem usa precisa tolerar cliente nulo.
func InitRedis(config Config) error {
	if config.RedisHost == "" {
		Logger.Warnw("Redis não configurado, cache de resumo desativado")
		return nil
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     config.GetRedisConnString(),
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	// Testa a conexão
	if _, err := RedisClient.Ping(context.Background()).Result(); err != nil {
		return fmt.Errorf("falha no teste de conexão com Redis: %v", err)
	}

	return nil
}
