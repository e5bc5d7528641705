package recipes

import (
	"fmt"
	"time"

	"obiabedidi/db"
	"obiabedidi/errs"
	"obiabedidi/models"
)

type Filter string

const (
	FilterAll      Filter = "all"
	FilterTrending Filter = "trending"
	FilterNew      Filter = "new"
	FilterTopRated Filter = "top-rated"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	newWindow      = 7 * 24 * time.Hour
	topRatedRating = 4.5
)

// ListOptions selects one page of public recipes. Every supplied filter is applied.
type ListOptions struct {
	Filter      Filter
	MealTypes   []models.MealType
	ServingSize models.ServingSize
	Difficulty  models.Difficulty
	// PageSize defaults to DefaultPageSize when zero.
	PageSize int
	// Cursor is a token from a previous Page; empty starts from the newest recipe.
	Cursor string
}

func (o ListOptions) pageSize() int {
	if o.PageSize == 0 {
		return DefaultPageSize
	}
	return o.PageSize
}

func (o ListOptions) validate() error {
	switch o.Filter {
	case "", FilterAll, FilterTrending, FilterNew, FilterTopRated:
	default:
		return fmt.Errorf("%w: unknown filter %q", errs.ErrInvalidInput, o.Filter)
	}
	if n := o.pageSize(); n < 1 || n > MaxPageSize {
		return fmt.Errorf("%w: page size must be between 1 and %d", errs.ErrInvalidInput, MaxPageSize)
	}
	for _, m := range o.MealTypes {
		if !m.Valid() {
			return fmt.Errorf("%w: unknown meal type %q", errs.ErrInvalidInput, m)
		}
	}
	if o.ServingSize != "" && !o.ServingSize.Valid() {
		return fmt.Errorf("%w: unknown serving size %q", errs.ErrInvalidInput, o.ServingSize)
	}
	if o.Difficulty != "" && !o.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", errs.ErrInvalidInput, o.Difficulty)
	}
	return nil
}

// visible is applied to every listing.
func visible() []db.Predicate {
	return []db.Predicate{
		db.Eq("isPublic", true),
		db.Eq("status", string(models.StatusPublished)),
	}
}

// buildQuery translates o into a store query. now anchors the "new" window.
func buildQuery(o ListOptions, now time.Time) (db.Query, error) {
	if err := o.validate(); err != nil {
		return db.Query{}, err
	}
	cursor, err := db.DecodeCursor(o.Cursor)
	if err != nil {
		return db.Query{}, err
	}

	where := visible()
	switch o.Filter {
	case FilterTrending:
		where = append(where, db.Eq("isTrending", true))
	case FilterNew:
		where = append(where, db.Gte("createdAt", db.Truncate(now.Add(-newWindow))))
	case FilterTopRated:
		where = append(where, db.Gte("rating.average", topRatedRating))
	}
	if len(o.MealTypes) > 0 {
		where = append(where, db.ContainsAny("mealType", mealTypeStrings(o.MealTypes)))
	}
	if o.ServingSize != "" {
		where = append(where, db.Eq("servingSize", string(o.ServingSize)))
	}
	if o.Difficulty != "" {
		where = append(where, db.Eq("difficulty", string(o.Difficulty)))
	}

	return db.Query{Where: where, Limit: o.pageSize(), StartAfter: cursor}, nil
}

func mealTypeStrings(ms []models.MealType) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = string(m)
	}
	return out
}
