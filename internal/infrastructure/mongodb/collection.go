package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/asseta-api/internal/domain"
	"github.com/jhoicas/asseta-api/internal/domain/entity"
	"github.com/jhoicas/asseta-api/internal/domain/repository"
)

// Collection implementa repository.DocumentCollection sobre *mongo.Collection.
type Collection struct {
	coll *mongo.Collection
}

var _ repository.DocumentCollection = (*Collection)(nil)

func (c *Collection) Name() string { return c.coll.Name() }

func (c *Collection) Insert(ctx context.Context, doc entity.Document) (entity.Document, error) {
	stored := doc.Without(entity.IDField)
	if stored == nil {
		stored = entity.Document{}
	}
	res, err := c.coll.InsertOne(ctx, ToBSON(stored))
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w: %w", c.Name(), domain.ErrStorage, err)
	}
	stored[entity.IDField] = res.InsertedID
	return Normalize(stored), nil
}

func (c *Collection) FindByID(ctx context.Context, id string) (entity.Document, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}
	return c.findOne(ctx, bson.M{"_id": oid})
}

func (c *Collection) FindOne(ctx context.Context, filter repository.Filter) (entity.Document, error) {
	f, ok := BuildFilter(filter)
	if !ok {
		return nil, nil
	}
	return c.findOne(ctx, f)
}

func (c *Collection) findOne(ctx context.Context, filter bson.M) (entity.Document, error) {
	var raw bson.M
	err := c.coll.FindOne(ctx, filter).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find %s: %w: %w", c.Name(), domain.ErrStorage, err)
	}
	return Normalize(entity.Document(raw)), nil
}

func (c *Collection) Find(ctx context.Context, filter repository.Filter, order *repository.SortOrder) ([]entity.Document, error) {
	f, ok := BuildFilter(filter)
	if !ok {
		return []entity.Document{}, nil
	}
	opts := options.Find()
	if order != nil && order.Field != "" {
		dir := 1
		if order.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: order.Field, Value: dir}})
	}
	cur, err := c.coll.Find(ctx, f, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w: %w", c.Name(), domain.ErrStorage, err)
	}
	var raws []bson.M
	if err := cur.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("cursor %s: %w: %w", c.Name(), domain.ErrStorage, err)
	}
	out := make([]entity.Document, 0, len(raws))
	for _, r := range raws {
		out = append(out, Normalize(entity.Document(r)))
	}
	return out, nil
}

func (c *Collection) UpdateByID(ctx context.Context, id string, patch entity.Document) (entity.Document, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, nil
	}
	set := patch.Without(entity.IDField)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var raw bson.M
	err := c.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": ToBSON(set)}, opts).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("update %s: %w: %w", c.Name(), domain.ErrStorage, err)
	}
	return Normalize(entity.Document(raw)), nil
}

func (c *Collection) DeleteByID(ctx context.Context, id string) (bool, error) {
	oid, ok := objectID(id)
	if !ok {
		return false, nil
	}
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, fmt.Errorf("delete %s: %w: %w", c.Name(), domain.ErrStorage, err)
	}
	return res.DeletedCount > 0, nil
}

func (c *Collection) DeleteMany(ctx context.Context, filter repository.Filter) (int64, error) {
	f, ok := BuildFilter(filter)
	if !ok {
		return 0, nil
	}
	res, err := c.coll.DeleteMany(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("delete many %s: %w: %w", c.Name(), domain.ErrStorage, err)
	}
	return res.DeletedCount, nil
}

// objectID acepta únicamente hex de 24 caracteres; cualquier otro id se trata como inexistente.
func objectID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}
