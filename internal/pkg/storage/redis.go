package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisBackend persiste snapshots como chaves no Redis, sem expiração.
// Útil quando várias instâncias do sistema compartilham o mesmo estado.
type RedisBackend struct {
	rdb *redis.Client
}

// NewRedisBackend cria e retorna o backend Redis.
// Esta função é chamada no main.go.
func NewRedisBackend(addr string) (*RedisBackend, error) {
	// Cria um novo cliente Redis
	rdb := redis.NewClient(&redis.Options{
		Addr: addr, // Endereço do Redis (e.g., "localhost:6379")
	})

	// Teste de conexão: PING para garantir que o Redis está disponível.
	// Snapshots são o único meio de persistência, então aqui a falha é erro,
	// não aviso.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("falha ao conectar ao Redis em %s: %w", addr, err)
	}

	return &RedisBackend{rdb: rdb}, nil
}

// Read recupera o snapshot associado a uma chave.
func (b *RedisBackend) Read(ctx context.Context, key string) ([]byte, error) {
	val, err := b.rdb.Get(ctx, key).Bytes()

	// Se a chave não existir no Redis, traduzimos para o erro do contrato
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao ler a chave '%s' do Redis: %w", key, err)
	}
	return val, nil
}

// Write grava o snapshot de uma chave. Expiração zero: o snapshot é estado,
// não cache.
func (b *RedisBackend) Write(ctx context.Context, key string, data []byte) error {
	if err := b.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("falha ao gravar a chave '%s' no Redis: %w", key, err)
	}
	return nil
}

// Close encerra a conexão com o Redis.
func (b *RedisBackend) Close() error {
	return b.rdb.Close()
}
