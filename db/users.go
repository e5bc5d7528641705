package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"obiabedidi/errs"
	"obiabedidi/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserStore interface {
	// Upsert records a login: profile fields are refreshed, CreatedAt is kept from the
	// first login.
	Upsert(ctx context.Context, u models.User) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
}

type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(coll *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{coll: coll}
}

func (s *MongoUserStore) Upsert(ctx context.Context, u models.User) (models.User, error) {
	now := Truncate(u.LastLoginAt)
	if now.IsZero() {
		now = Truncate(time.Now())
	}
	update := bson.M{
		"$set": bson.M{
			"email":       u.Email,
			"displayName": u.DisplayName,
			"photoUrl":    u.PhotoURL,
			"provider":    u.Provider,
			"lastLoginAt": now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var out models.User
	if err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": u.ID}, update, opts).Decode(&out); err != nil {
		return models.User{}, fmt.Errorf("upsert user %s: %w", u.ID, err)
	}
	return out, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return u, fmt.Errorf("user %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return u, fmt.Errorf("find user %s: %w", id, err)
	}
	return u, nil
}

type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]models.User)}
}

func (s *MemoryUserStore) Upsert(_ context.Context, u models.User) (models.User, error) {
	now := Truncate(u.LastLoginAt)
	if now.IsZero() {
		now = Truncate(time.Now())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.users[u.ID]; ok {
		u.CreatedAt = prev.CreatedAt
	} else {
		u.CreatedAt = now
	}
	u.LastLoginAt = now
	s.users[u.ID] = u
	return u, nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return u, fmt.Errorf("user %s: %w", id, errs.ErrNotFound)
	}
	return u, nil
}
