package recipes

import (
	"context"

	"obiabedidi/models"
)

// ListState is a snapshot of a Lister.
type ListState struct {
	Recipes []models.Recipe
	HasMore bool
	Loading bool
	// Error is the message of the last failed fetch, cleared by the next success.
	Error string
}

// Lister keeps the results of a paginated listing between fetches. It is not safe for
// concurrent Fetch calls; callers must wait for one fetch to finish before the next.
type Lister struct {
	svc     *Service
	recipes []models.Recipe
	cursor  string
	hasMore bool
	loading bool
	err     string
}

func NewLister(svc *Service) *Lister {
	return &Lister{svc: svc}
}

// Fetch loads a page. With loadMore false the listing restarts and the page replaces
// the current results; with loadMore true it continues after the last loaded recipe
// and the page is appended. A failed fetch leaves results and cursor as they were.
func (l *Lister) Fetch(ctx context.Context, opts ListOptions, loadMore bool) error {
	opts.Cursor = ""
	if loadMore {
		opts.Cursor = l.cursor
	}

	l.loading = true
	page, err := l.svc.ListRecipes(ctx, opts)
	l.loading = false
	if err != nil {
		l.err = err.Error()
		return err
	}

	if loadMore {
		l.recipes = append(l.recipes, page.Recipes...)
	} else {
		l.recipes = page.Recipes
		l.cursor = ""
	}
	if page.NextCursor != "" {
		l.cursor = page.NextCursor
	}
	l.hasMore = page.HasMore
	l.err = ""
	return nil
}

func (l *Lister) State() ListState {
	return ListState{
		Recipes: append([]models.Recipe(nil), l.recipes...),
		HasMore: l.hasMore,
		Loading: l.loading,
		Error:   l.err,
	}
}

// Cursor returns the token for the next page, empty before the first successful fetch.
func (l *Lister) Cursor() string { return l.cursor }
