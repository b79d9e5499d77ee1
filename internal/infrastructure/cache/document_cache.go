package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/asseta-api/internal/domain/entity"
	"github.com/jhoicas/asseta-api/internal/domain/repository"
	"github.com/jhoicas/asseta-api/pkg/logger"
)

const notFoundMarker = "notfound"

var errStale = errors.New("cache: versión cambió durante la lectura")

// Store decora un repository.DocumentStore con lectura a través de Redis.
// Se cachean FindByID y Find sin filtro. Cada escritura incrementa la versión
// de la colección y borra sus claves; una lectura solo guarda en Redis si la
// versión no cambió desde que empezó a leer del almacén.
//
// Las claves de una colección comparten hash tag ({colección}) para que
// WATCH/MULTI funcionen también en Redis Cluster.
type Store struct {
	inner repository.DocumentStore
	rdb   redis.UniversalClient
	ttl   time.Duration
	log   *logger.Logger
}

var _ repository.DocumentStore = (*Store)(nil)

// NewStore construye el decorador. ttl <= 0 usa 5 minutos.
func NewStore(inner repository.DocumentStore, rdb redis.UniversalClient, ttl time.Duration, log *logger.Logger) *Store {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Store{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

func (s *Store) Collection(name string) repository.DocumentCollection {
	return &Collection{inner: s.inner.Collection(name), store: s}
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.inner.Ping(ctx); err != nil {
		return err
	}
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close(ctx context.Context) error {
	err := s.inner.Close(ctx)
	if cerr := s.rdb.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Collection colección cacheada.
type Collection struct {
	inner repository.DocumentCollection
	store *Store
}

var _ repository.DocumentCollection = (*Collection)(nil)

func (c *Collection) Name() string { return c.inner.Name() }

func (c *Collection) docKey(id string) string {
	return fmt.Sprintf("asseta:{%s}:doc:%s", c.Name(), id)
}

func (c *Collection) listKey() string {
	return fmt.Sprintf("asseta:{%s}:list", c.Name())
}

// versionKey queda fuera del patrón de invalidateAll y no expira.
func (c *Collection) versionKey() string {
	return fmt.Sprintf("asseta:ver:{%s}", c.Name())
}

func sortSignature(order *repository.SortOrder) string {
	if order == nil || order.Field == "" {
		return "natural"
	}
	if order.Desc {
		return order.Field + ":desc"
	}
	return order.Field + ":asc"
}

func (c *Collection) FindByID(ctx context.Context, id string) (entity.Document, error) {
	key := c.docKey(id)
	data, err := c.store.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if string(data) == notFoundMarker {
			return nil, nil
		}
		doc, derr := entity.DecodeJSON(data)
		if derr == nil {
			return doc, nil
		}
		c.store.log.Warn().Err(derr).Str("key", key).Msg("cache: documento corrupto, se lee del almacén")
	case errors.Is(err, redis.Nil):
	default:
		c.store.log.Warn().Err(err).Str("key", key).Msg("cache: error de redis, se lee del almacén")
	}

	ver, cacheable := c.version(ctx)
	doc, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cacheable {
		return doc, nil
	}
	value, ttl := []byte(notFoundMarker), time.Minute
	if doc != nil {
		raw, err := entity.EncodeJSON(doc)
		if err != nil {
			return doc, nil
		}
		value, ttl = raw, c.store.ttl
	}
	c.storeIfUnchanged(ctx, ver, key, func(pipe redis.Pipeliner) {
		pipe.Set(ctx, key, value, ttl)
	})
	return doc, nil
}

func (c *Collection) Find(ctx context.Context, filter repository.Filter, order *repository.SortOrder) ([]entity.Document, error) {
	if len(filter) > 0 {
		return c.inner.Find(ctx, filter, order)
	}
	key, field := c.listKey(), sortSignature(order)
	data, err := c.store.rdb.HGet(ctx, key, field).Bytes()
	switch {
	case err == nil:
		if docs, derr := decodeList(data); derr == nil {
			return docs, nil
		}
	case errors.Is(err, redis.Nil):
	default:
		c.store.log.Warn().Err(err).Str("key", key).Msg("cache: error de redis, se lee del almacén")
	}

	ver, cacheable := c.version(ctx)
	docs, err := c.inner.Find(ctx, filter, order)
	if err != nil {
		return nil, err
	}
	if !cacheable {
		return docs, nil
	}
	if raw, err := encodeList(docs); err == nil {
		c.storeIfUnchanged(ctx, ver, key, func(pipe redis.Pipeliner) {
			pipe.HSet(ctx, key, field, raw)
			pipe.Expire(ctx, key, c.store.ttl)
		})
	}
	return docs, nil
}

func (c *Collection) FindOne(ctx context.Context, filter repository.Filter) (entity.Document, error) {
	return c.inner.FindOne(ctx, filter)
}

func (c *Collection) Insert(ctx context.Context, doc entity.Document) (entity.Document, error) {
	out, err := c.inner.Insert(ctx, doc)
	c.invalidate(ctx, out.ID())
	return out, err
}

func (c *Collection) UpdateByID(ctx context.Context, id string, patch entity.Document) (entity.Document, error) {
	out, err := c.inner.UpdateByID(ctx, id, patch)
	c.invalidate(ctx, id)
	return out, err
}

func (c *Collection) DeleteByID(ctx context.Context, id string) (bool, error) {
	ok, err := c.inner.DeleteByID(ctx, id)
	c.invalidate(ctx, id)
	return ok, err
}

func (c *Collection) DeleteMany(ctx context.Context, filter repository.Filter) (int64, error) {
	n, err := c.inner.DeleteMany(ctx, filter)
	c.invalidateAll(ctx)
	return n, err
}

// version lee la versión actual de la colección. Sin Redis no se cachea nada.
func (c *Collection) version(ctx context.Context) (string, bool) {
	ver, err := c.store.rdb.Get(ctx, c.versionKey()).Result()
	switch {
	case err == nil:
		return ver, true
	case errors.Is(err, redis.Nil):
		return "0", true
	}
	c.store.log.Warn().Err(err).Str("key", c.versionKey()).Msg("cache: error de redis, no se guarda la lectura")
	return "", false
}

// storeIfUnchanged ejecuta write en MULTI solo si la versión sigue siendo seen.
// WATCH aborta el EXEC si una escritura incrementa la versión en el medio.
func (c *Collection) storeIfUnchanged(ctx context.Context, seen, key string, write func(redis.Pipeliner)) {
	vkey := c.versionKey()
	err := c.store.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, vkey).Result()
		if errors.Is(err, redis.Nil) {
			cur, err = "0", nil
		}
		if err != nil {
			return err
		}
		if cur != seen {
			return errStale
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			write(pipe)
			return nil
		})
		return err
	}, vkey)
	switch {
	case err == nil, errors.Is(err, errStale), errors.Is(err, redis.TxFailedErr):
	default:
		c.store.log.Warn().Err(err).Str("key", key).Msg("cache: no se pudo guardar")
	}
}

// invalidate sube la versión y borra las claves afectadas en una sola transacción.
func (c *Collection) invalidate(ctx context.Context, id string) {
	keys := []string{c.listKey()}
	if id != "" {
		keys = append(keys, c.docKey(id))
	}
	c.bump(ctx, keys)
}

// invalidateAll borra todas las claves de la colección (DeleteMany no conoce los ids).
func (c *Collection) invalidateAll(ctx context.Context) {
	pattern := fmt.Sprintf("asseta:{%s}:*", c.Name())
	iter := c.store.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.store.log.Warn().Err(err).Str("pattern", pattern).Msg("cache: scan falló")
	}
	c.bump(ctx, keys)
}

func (c *Collection) bump(ctx context.Context, keys []string) {
	pipe := c.store.rdb.TxPipeline()
	pipe.Incr(ctx, c.versionKey())
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.store.log.Warn().Err(err).Strs("keys", keys).Msg("cache: no se pudo invalidar")
	}
}
