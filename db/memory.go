package db

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"obiabedidi/errs"
	"obiabedidi/models"

	"github.com/google/uuid"
)

// MemoryStore keeps recipes in a map. It evaluates the same predicates as MongoStore and
// is used for development without a database and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	recipes map[string]models.Recipe
}

func NewMemoryStore(seed ...models.Recipe) *MemoryStore {
	s := &MemoryStore{recipes: make(map[string]models.Recipe)}
	for _, r := range seed {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		s.recipes[r.ID] = r
	}
	return s
}

func (s *MemoryStore) Find(ctx context.Context, q Query) ([]models.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Recipe{}
	for _, r := range s.recipes {
		if q.StartAfter != nil && !q.StartAfter.Before(r.CreatedAt, r.ID) {
			continue
		}
		if matchesAll(r, q.Where) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (models.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return models.Recipe{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recipes[id]
	if !ok {
		return models.Recipe{}, fmt.Errorf("recipe %s: %w", id, errs.ErrNotFound)
	}
	return r, nil
}

func (s *MemoryStore) Insert(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return models.Recipe{}, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.CreatedAt = Truncate(r.CreatedAt)
	r.UpdatedAt = Truncate(r.UpdatedAt)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[r.ID] = r
	return r, nil
}

func (s *MemoryStore) IncrementViews(ctx context.Context, id string, by int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.recipes[id]
	if !ok {
		return fmt.Errorf("recipe %s: %w", id, errs.ErrNotFound)
	}
	r.ViewCount += by
	s.recipes[id] = r
	return nil
}

func matchesAll(r models.Recipe, preds []Predicate) bool {
	for _, p := range preds {
		if !matches(r, p) {
			return false
		}
	}
	return true
}

func matches(r models.Recipe, p Predicate) bool {
	got, ok := field(r, p.Field)
	if !ok {
		return false
	}
	switch p.Op {
	case OpEq:
		return equal(got, p.Value)
	case OpGte:
		return gte(got, p.Value)
	case OpArrayContainsAny:
		want, _ := p.Value.([]any)
		rv := reflect.ValueOf(got)
		if rv.Kind() != reflect.Slice {
			return false
		}
		for i := 0; i < rv.Len(); i++ {
			for _, w := range want {
				if equal(rv.Index(i).Interface(), w) {
					return true
				}
			}
		}
	}
	return false
}

// field resolves a stored field name to the recipe's value.
func field(r models.Recipe, name string) (any, bool) {
	switch name {
	case "_id":
		return r.ID, true
	case "status":
		return string(r.Status), true
	case "isPublic":
		return r.IsPublic, true
	case "isTrending":
		return r.IsTrending, true
	case "isFeatured":
		return r.IsFeatured != nil && *r.IsFeatured, true
	case "authorId":
		return r.AuthorID, true
	case "difficulty":
		return string(r.Difficulty), true
	case "servingSize":
		return string(r.ServingSize), true
	case "ethnicGroup":
		return string(r.EthnicGroup), true
	case "mealType":
		out := make([]string, len(r.MealType))
		for i, m := range r.MealType {
			out[i] = string(m)
		}
		return out, true
	case "tags":
		return r.Tags, true
	case "createdAt":
		return r.CreatedAt, true
	case "rating.average":
		return r.Rating.Average, true
	case "viewCount":
		return r.ViewCount, true
	}
	return nil, false
}

// normalize turns named string types into plain strings so enum values compare with
// their raw form.
func normalize(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	return v
}

func equal(a, b any) bool {
	a, b = normalize(a), normalize(b)
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	if fa, ok := number(a); ok {
		fb, ok := number(b)
		return ok && fa == fb
	}
	return a == b
}

func gte(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && !ta.Before(tb)
	}
	if fa, ok := number(a); ok {
		fb, ok := number(b)
		return ok && fa >= fb
	}
	sa, oka := normalize(a).(string)
	sb, okb := normalize(b).(string)
	return oka && okb && strings.Compare(sa, sb) >= 0
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
