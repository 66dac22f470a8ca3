package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arielalcuri/doslidias/internal/model"

	"github.com/redis/go-redis/v9"
)

const carritoKeyPrefix = "carrito:"

// ErrCarritoNoEncontrado is returned for unknown or expired carts.
var ErrCarritoNoEncontrado = errors.New("carrito no encontrado")

// CarritoRepository keeps shopper carts outside the relational store.
type CarritoRepository interface {
	Get(ctx context.Context, id string) (*model.Carrito, error)
	Save(ctx context.Context, c *model.Carrito) error
	Delete(ctx context.Context, id string) error
}

type carritoRedisRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCarritoRepository stores carts as JSON values that expire after ttl of
// inactivity.
func NewCarritoRepository(rdb *redis.Client, ttl time.Duration) CarritoRepository {
	return &carritoRedisRepo{rdb: rdb, ttl: ttl}
}

func (r *carritoRedisRepo) Get(ctx context.Context, id string) (*model.Carrito, error) {
	raw, err := r.rdb.Get(ctx, carritoKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCarritoNoEncontrado
	}
	if err != nil {
		return nil, err
	}
	var c model.Carrito
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("carrito %s corrupto: %w", id, err)
	}
	return &c, nil
}

func (r *carritoRedisRepo) Save(ctx context.Context, c *model.Carrito) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, carritoKeyPrefix+c.ID, data, r.ttl).Err()
}

func (r *carritoRedisRepo) Delete(ctx context.Context, id string) error {
	return r.rdb.Del(ctx, carritoKeyPrefix+id).Err()
}
