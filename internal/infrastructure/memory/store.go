package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jhoicas/asseta-api/internal/domain/entity"
	"github.com/jhoicas/asseta-api/internal/domain/repository"
)

// Store almacén de documentos en memoria. Lo usan las pruebas y STORE_DRIVER=memory.
// Todo documento entra y sale como copia profunda.
type Store struct {
	mu          sync.Mutex
	collections map[string]*Collection
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{collections: map[string]*Collection{}}
}

var _ repository.DocumentStore = (*Store)(nil)

// Collection devuelve (creando si hace falta) la colección name.
func (s *Store) Collection(name string) repository.DocumentCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = &Collection{name: name, docs: map[string]entity.Document{}}
		s.collections[name] = c
	}
	return c
}

func (s *Store) Ping(context.Context) error  { return nil }
func (s *Store) Close(context.Context) error { return nil }

// Collection colección en memoria; conserva el orden de inserción.
type Collection struct {
	name  string
	mu    sync.RWMutex
	docs  map[string]entity.Document
	order []string
}

var _ repository.DocumentCollection = (*Collection)(nil)

func (c *Collection) Name() string { return c.name }

func (c *Collection) Insert(_ context.Context, doc entity.Document) (entity.Document, error) {
	stored := doc.Without(entity.IDField)
	if stored == nil {
		stored = entity.Document{}
	}
	id := uuid.NewString()
	stored[entity.IDField] = id

	c.mu.Lock()
	c.docs[id] = stored
	c.order = append(c.order, id)
	c.mu.Unlock()
	return stored.Clone(), nil
}

func (c *Collection) FindByID(_ context.Context, id string) (entity.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[id]
	if !ok {
		return nil, nil
	}
	return doc.Clone(), nil
}

func (c *Collection) FindOne(ctx context.Context, filter repository.Filter) (entity.Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.order {
		if doc := c.docs[id]; Matches(doc, filter) {
			return doc.Clone(), nil
		}
	}
	return nil, nil
}

func (c *Collection) Find(_ context.Context, filter repository.Filter, order *repository.SortOrder) ([]entity.Document, error) {
	c.mu.RLock()
	out := make([]entity.Document, 0, len(c.order))
	for _, id := range c.order {
		if doc := c.docs[id]; Matches(doc, filter) {
			out = append(out, doc.Clone())
		}
	}
	c.mu.RUnlock()

	if order != nil && order.Field != "" {
		sort.SliceStable(out, func(i, j int) bool {
			cmp, _ := Compare(out[i][order.Field], out[j][order.Field])
			if order.Desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	return out, nil
}

func (c *Collection) UpdateByID(_ context.Context, id string, patch entity.Document) (entity.Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[id]
	if !ok {
		return nil, nil
	}
	for k, v := range patch.Without(entity.IDField) {
		doc[k] = v
	}
	return doc.Clone(), nil
}

func (c *Collection) DeleteByID(_ context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return false, nil
	}
	c.remove(id)
	return true, nil
}

func (c *Collection) DeleteMany(_ context.Context, filter repository.Filter) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ids []string
	for _, id := range c.order {
		if Matches(c.docs[id], filter) {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		c.remove(id)
	}
	return int64(len(ids)), nil
}

// remove requiere c.mu tomado.
func (c *Collection) remove(id string) {
	delete(c.docs, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
