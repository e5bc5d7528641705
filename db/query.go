package db

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"obiabedidi/errs"
)

type Op string

const (
	OpEq               Op = "=="
	OpGte              Op = ">="
	OpArrayContainsAny Op = "array-contains-any"
)

// Predicate is one condition on a stored field. Field uses the stored (bson) name;
// dotted paths reach into embedded documents ("rating.average").
type Predicate struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, v any) Predicate  { return Predicate{Field: field, Op: OpEq, Value: v} }
func Gte(field string, v any) Predicate { return Predicate{Field: field, Op: OpGte, Value: v} }

// ContainsAny matches documents whose array field shares at least one element with vs.
func ContainsAny[T any](field string, vs []T) Predicate {
	values := make([]any, len(vs))
	for i, v := range vs {
		values[i] = v
	}
	return Predicate{Field: field, Op: OpArrayContainsAny, Value: values}
}

// Query is always ordered by createdAt descending then id descending.
type Query struct {
	Where      []Predicate
	Limit      int
	StartAfter *Cursor
}

// Cursor identifies the last item of a page. Results resume strictly after it.
type Cursor struct {
	CreatedAt time.Time `json:"c"`
	ID        string    `json:"i"`
}

// Encode returns an opaque URL-safe token.
func (c Cursor) Encode() string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor parses a token produced by Encode. An empty token yields nil.
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed cursor", errs.ErrInvalidInput)
	}
	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil || c.ID == "" || c.CreatedAt.IsZero() {
		return nil, fmt.Errorf("%w: malformed cursor", errs.ErrInvalidInput)
	}
	return &c, nil
}

// Before reports whether (t, id) sorts after the cursor in createdAt-desc, id-desc order.
func (c Cursor) Before(t time.Time, id string) bool {
	return t.Before(c.CreatedAt) || (t.Equal(c.CreatedAt) && id < c.ID)
}

// Truncate matches the millisecond precision of stored dates, so cursors built from
// in-memory values compare equal to what the store returns.
func Truncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
