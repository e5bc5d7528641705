package db

import (
	"context"

	"obiabedidi/models"
)

// RecipeStore is the document-store contract the recipe service depends on.
type RecipeStore interface {
	Find(ctx context.Context, q Query) ([]models.Recipe, error)
	// FindByID returns errs.ErrNotFound when no document has the id.
	FindByID(ctx context.Context, id string) (models.Recipe, error)
	// Insert assigns an id when r.ID is empty and returns the stored recipe.
	Insert(ctx context.Context, r models.Recipe) (models.Recipe, error)
	// IncrementViews atomically adds by to viewCount.
	IncrementViews(ctx context.Context, id string, by int64) error
}
