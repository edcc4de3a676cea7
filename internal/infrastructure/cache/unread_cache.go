// Package cache guarda en Redis el contador de notificaciones no leídas por usuario.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix     = "ventas:notif:unread:"
	versionPrefix = "ventas:notif:unread-ver:"
)

// versionTTL vida de la clave de versión; muy superior a lo que dura un request.
const versionTTL = 24 * time.Hour

// setIfVersion guarda el contador solo si nadie invalidó desde que se leyó la versión.
// KEYS[1] contador, KEYS[2] versión; ARGV[1] versión leída, ARGV[2] valor, ARGV[3] TTL en ms.
var setIfVersion = redis.NewScript(`
local cur = redis.call('GET', KEYS[2]) or '0'
if cur ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// NewRedis crea el cliente desde una URL redis:// y valida la conexión.
func NewRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return rdb, nil
}

// UnreadCache contador de no leídas con TTL. Un miss obliga a consultar PostgreSQL.
type UnreadCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewUnreadCache construye la caché.
func NewUnreadCache(rdb *redis.Client, ttl time.Duration) *UnreadCache {
	return &UnreadCache{rdb: rdb, ttl: ttl}
}

// GetUnread devuelve (n, true, nil) en hit y (0, false, nil) en miss.
func (c *UnreadCache) GetUnread(ctx context.Context, userID string) (int, bool, error) {
	v, err := c.rdb.Get(ctx, keyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get: %w", err)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}

// Version devuelve la versión actual del contador del usuario (0 si nunca se invalidó).
// Se lee antes de consultar PostgreSQL y se pasa a SetUnread.
func (c *UnreadCache) Version(ctx context.Context, userID string) (int64, error) {
	v, err := c.rdb.Get(ctx, versionPrefix+userID).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get version: %w", err)
	}
	return v, nil
}

// SetUnread guarda el contador con el TTL configurado si la versión sigue siendo version.
// Devuelve false si hubo una invalidación intermedia y el valor se descartó.
func (c *UnreadCache) SetUnread(ctx context.Context, userID string, n int, version int64) (bool, error) {
	res, err := setIfVersion.Run(ctx, c.rdb,
		[]string{keyPrefix + userID, versionPrefix + userID},
		strconv.FormatInt(version, 10), n, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis set: %w", err)
	}
	return res == 1, nil
}

// Invalidate borra el contador de los usuarios indicados y avanza su versión.
func (c *UnreadCache) Invalidate(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	pipe := c.rdb.TxPipeline()
	for i, id := range userIDs {
		keys[i] = keyPrefix + id
		pipe.Incr(ctx, versionPrefix+id)
		pipe.Expire(ctx, versionPrefix+id, versionTTL)
	}
	pipe.Del(ctx, keys...)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis invalidate: %w", err)
	}
	return nil
}
