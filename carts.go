package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCartNotFound indica que a sessão ainda não tem carrinho armazenado
var ErrCartNotFound = errors.New("cart not found")

// CartStore armazena o carrinho de cada sessão, isolado por chave. O chamador
// sempre passa a chave da sessão explicitamente; não há estado ambiente.
// Leitura-modificação-escrita concorrente na mesma sessão é last-write-wins.
type CartStore interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	Set(ctx context.Context, sessionID string, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}

// RedisCartStore implementa CartStore sobre Redis, com payload JSON e TTL
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartStore cria uma nova instância de RedisCartStore
func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func (s *RedisCartStore) Get(ctx context.Context, sessionID string) (*Cart, error) {
	data, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &cart, nil
}

func (s *RedisCartStore) Set(ctx context.Context, sessionID string, cart *Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	if err := s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (s *RedisCartStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// MemoryCartStore implementa CartStore em memória, para desenvolvimento e
// testes
type MemoryCartStore struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

// NewMemoryCartStore cria uma nova instância de MemoryCartStore
func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[string]*Cart)}
}

func (s *MemoryCartStore) Get(_ context.Context, sessionID string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, ok := s.carts[sessionID]
	if !ok {
		return nil, ErrCartNotFound
	}

	// copy so callers cannot mutate the stored cart without Set
	lines := make([]CartLine, len(cart.Lines))
	copy(lines, cart.Lines)
	return &Cart{Lines: lines}, nil
}

func (s *MemoryCartStore) Set(_ context.Context, sessionID string, cart *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]CartLine, len(cart.Lines))
	copy(lines, cart.Lines)
	s.carts[sessionID] = &Cart{Lines: lines}
	return nil
}

func (s *MemoryCartStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}

func (s *MemoryCartStore) Ping(_ context.Context) error {
	return nil
}
