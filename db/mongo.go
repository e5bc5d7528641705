package db

import (
	"context"
	"errors"
	"fmt"

	"obiabedidi/errs"
	"obiabedidi/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

var listSort = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// Filter translates q into a Mongo filter document.
func Filter(q Query) bson.M {
	filter := bson.M{}
	var and []bson.M
	for _, p := range q.Where {
		switch p.Op {
		case OpEq:
			and = append(and, bson.M{p.Field: p.Value})
		case OpGte:
			and = append(and, bson.M{p.Field: bson.M{"$gte": p.Value}})
		case OpArrayContainsAny:
			and = append(and, bson.M{p.Field: bson.M{"$in": p.Value}})
		}
	}
	if c := q.StartAfter; c != nil {
		and = append(and, bson.M{"$or": []bson.M{
			{"createdAt": bson.M{"$lt": c.CreatedAt}},
			{"createdAt": c.CreatedAt, "_id": bson.M{"$lt": c.ID}},
		}})
	}
	if len(and) > 0 {
		filter["$and"] = and
	}
	return filter
}

func (s *MongoStore) Find(ctx context.Context, q Query) ([]models.Recipe, error) {
	opts := options.Find().SetSort(listSort)
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := s.coll.Find(ctx, Filter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("find recipes: %w", err)
	}
	defer cursor.Close(ctx)

	recipes := []models.Recipe{}
	if err := cursor.All(ctx, &recipes); err != nil {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}
	return recipes, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (models.Recipe, error) {
	var r models.Recipe
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return r, fmt.Errorf("recipe %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return r, fmt.Errorf("find recipe %s: %w", id, err)
	}
	return r, nil
}

func (s *MongoStore) Insert(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = Truncate(r.CreatedAt)
	r.UpdatedAt = Truncate(r.UpdatedAt)
	if _, err := s.coll.InsertOne(ctx, r); err != nil {
		return models.Recipe{}, fmt.Errorf("insert recipe: %w", err)
	}
	return r, nil
}

func (s *MongoStore) IncrementViews(ctx context.Context, id string, by int64) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"viewCount": by}})
	if err != nil {
		return fmt.Errorf("increment views %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("recipe %s: %w", id, errs.ErrNotFound)
	}
	return nil
}
