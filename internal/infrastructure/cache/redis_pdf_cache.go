// Package cache guarda los PDFs generados para no redibujar documentos que no han cambiado.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/impresos/internal/application/export"
)

const (
	// DefaultTTL vigencia de un PDF en caché.
	DefaultTTL = 30 * time.Minute
	// keyPrefix espacio de nombres de las claves en Redis.
	keyPrefix = "impresos:"
	// pingTimeout tiempo máximo de la comprobación de conexión.
	pingTimeout = 5 * time.Second
)

// RedisConfig parámetros de conexión.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisPDFCache implementa export.PDFCache sobre Redis.
type RedisPDFCache struct {
	client     *redis.Client
	ownsClient bool
	ttl        time.Duration
	log        zerolog.Logger
}

var _ export.PDFCache = (*RedisPDFCache)(nil)

// RedisPDFCacheOption configura la caché.
type RedisPDFCacheOption func(*RedisPDFCache)

// WithTTL fija la vigencia de las entradas (0 = DefaultTTL).
func WithTTL(ttl time.Duration) RedisPDFCacheOption {
	return func(c *RedisPDFCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger fija el logger.
func WithLogger(l zerolog.Logger) RedisPDFCacheOption {
	return func(c *RedisPDFCache) { c.log = l }
}

// NewRedisPDFCache abre la conexión y comprueba que Redis responde.
func NewRedisPDFCache(ctx context.Context, cfg RedisConfig, opts ...RedisPDFCacheOption) (*RedisPDFCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("cache: conectar a redis %s: %w", cfg.Addr, err)
	}

	c := NewRedisPDFCacheWithClient(client, opts...)
	c.ownsClient = true
	return c, nil
}

// NewRedisPDFCacheWithClient usa un cliente existente; quien llama lo cierra.
func NewRedisPDFCacheWithClient(client *redis.Client, opts ...RedisPDFCacheOption) *RedisPDFCache {
	c := &RedisPDFCache{client: client, ttl: DefaultTTL, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get devuelve (nil, nil) si la clave no existe o ha caducado.
func (c *RedisPDFCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug().Str("key", key).Msg("cache: fallo")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: leer %s: %w", key, err)
	}
	c.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("cache: acierto")
	return data, nil
}

// Set guarda el PDF con la vigencia configurada.
func (c *RedisPDFCache) Set(ctx context.Context, key string, pdf []byte) error {
	if len(pdf) == 0 {
		return nil
	}
	if err := c.client.Set(ctx, keyPrefix+key, pdf, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: guardar %s: %w", key, err)
	}
	return nil
}

// TTL vigencia configurada.
func (c *RedisPDFCache) TTL() time.Duration { return c.ttl }

// Close cierra el cliente si lo abrió la caché.
func (c *RedisPDFCache) Close() error {
	if !c.ownsClient {
		return nil
	}
	return c.client.Close()
}

// NoopPDFCache caché desactivada: nunca acierta.
type NoopPDFCache struct{}

var _ export.PDFCache = NoopPDFCache{}

// Get siempre falla.
func (NoopPDFCache) Get(context.Context, string) ([]byte, error) { return nil, nil }

// Set no guarda nada.
func (NoopPDFCache) Set(context.Context, string, []byte) error { return nil }
