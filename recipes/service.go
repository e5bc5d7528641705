// Package recipes lists, creates and counts views of recipes.
package recipes

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"obiabedidi/db"
	"obiabedidi/errs"
	"obiabedidi/filemgr"
	"obiabedidi/live"
	"obiabedidi/metrics"
	"obiabedidi/models"
	"obiabedidi/storage"
	"obiabedidi/validation"
	"obiabedidi/video"

	"github.com/rs/zerolog/log"
)

// Photo is an image to attach to a new recipe.
type Photo = filemgr.File

// ViewCounter records one view of a recipe.
type ViewCounter interface {
	Increment(ctx context.Context, recipeID string) error
}

// Publisher fans a message out to live subscribers. *live.Hub satisfies it.
type Publisher interface {
	Publish(v any, rooms ...string)
}

// Page is one page of a listing. HasMore is approximate: it is true whenever the page
// is full, so a final page that exactly fills PageSize is followed by one empty fetch.
type Page struct {
	Recipes    []models.Recipe `json:"recipes"`
	HasMore    bool            `json:"hasMore"`
	NextCursor string          `json:"nextCursor,omitempty"`
}

type Service struct {
	store   db.RecipeStore
	objects storage.ObjectStore
	views   ViewCounter
	metrics metrics.Recorder
	live    Publisher
	now     func() time.Time
}

type Option func(*Service)

func WithObjectStore(o storage.ObjectStore) Option { return func(s *Service) { s.objects = o } }
func WithViewCounter(v ViewCounter) Option         { return func(s *Service) { s.views = v } }
func WithMetrics(m metrics.Recorder) Option        { return func(s *Service) { s.metrics = m } }
func WithPublisher(p Publisher) Option             { return func(s *Service) { s.live = p } }
func WithClock(now func() time.Time) Option        { return func(s *Service) { s.now = now } }

// NewService builds a service over store. A nil store is accepted; every operation
// then fails with errs.ErrStoreUnavailable.
func NewService(store db.RecipeStore, opts ...Option) *Service {
	s := &Service{store: store, metrics: metrics.Nop{}, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.views == nil && store != nil {
		s.views = StoreViewCounter{Store: store}
	}
	return s
}

// ListRecipes returns the page of visible recipes selected by opts, newest first.
func (s *Service) ListRecipes(ctx context.Context, opts ListOptions) (Page, error) {
	if s.store == nil {
		return Page{}, errs.ErrStoreUnavailable
	}
	q, err := buildQuery(opts, s.now())
	if err != nil {
		return Page{}, err
	}

	found, err := s.store.Find(ctx, q)
	if err != nil {
		return Page{}, fmt.Errorf("list recipes: %w", err)
	}
	s.metrics.RecordList(string(opts.Filter), len(found))

	page := Page{Recipes: found, HasMore: len(found) == q.Limit}
	if n := len(found); n > 0 {
		last := found[n-1]
		page.NextCursor = db.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	return page, nil
}

func (s *Service) GetRecipeByID(ctx context.Context, id string) (models.Recipe, error) {
	if s.store == nil {
		return models.Recipe{}, errs.ErrStoreUnavailable
	}
	return s.store.FindByID(ctx, id)
}

// GetUserRecipes returns an author's newest recipes regardless of status or visibility.
func (s *Service) GetUserRecipes(ctx context.Context, userID string, limit int) ([]models.Recipe, error) {
	if s.store == nil {
		return nil, errs.ErrStoreUnavailable
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", errs.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	found, err := s.store.Find(ctx, db.Query{Where: []db.Predicate{db.Eq("authorId", userID)}, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("user recipes: %w", err)
	}
	return found, nil
}

// IncrementViews counts one view. View counting is best effort: failures, including an
// unknown id, are logged and never returned.
func (s *Service) IncrementViews(ctx context.Context, id string) {
	if s.views == nil {
		log.Warn().Str("recipe", id).Msg("view not counted: store unavailable")
		s.metrics.RecordViewIncrement(false)
		return
	}
	if err := s.views.Increment(ctx, id); err != nil {
		log.Warn().Err(err).Str("recipe", id).Msg("view not counted")
		s.metrics.RecordViewIncrement(false)
		return
	}
	s.metrics.RecordViewIncrement(true)
}

// CreateRecipe stores in on behalf of author. Photos are uploaded one at a time before
// the document is written, and only when in has no ImageURL; the first becomes the
// primary image and all of them the gallery. If anything fails after an upload, the
// uploaded objects are deleted again.
func (s *Service) CreateRecipe(ctx context.Context, author *models.User, in models.Recipe, photos []Photo) (models.Recipe, error) {
	if author == nil || author.ID == "" {
		return models.Recipe{}, errs.ErrUnauthenticated
	}
	if s.store == nil {
		return models.Recipe{}, errs.ErrStoreUnavailable
	}

	now := db.Truncate(s.now())
	r := in
	r.ID = ""
	r.AuthorID = author.ID
	r.AuthorName = author.DisplayName
	if r.AuthorName == "" {
		r.AuthorName = "Anonymous"
	}
	r.AuthorPhoto = author.PhotoURL
	r.CreatedAt, r.UpdatedAt = now, now
	r.ViewCount, r.SaveCount = 0, 0
	r.Rating = models.Rating{}
	r.Status = models.StatusPublished
	r.IsPublic = true
	r.IsTrending = false
	r.IsFeatured = nil

	if err := checkRecipe(r); err != nil {
		return models.Recipe{}, err
	}

	var uploaded []string
	if len(photos) > 0 && r.ImageURL == "" {
		if s.objects == nil {
			return models.Recipe{}, fmt.Errorf("%w: photo storage is not configured", errs.ErrUpstream)
		}
		urls, keys, err := s.uploadPhotos(ctx, author.ID, photos)
		uploaded = keys
		if err != nil {
			s.cleanup(uploaded)
			return models.Recipe{}, err
		}
		r.ImageURL = urls[0]
		r.Gallery = urls
	}

	stored, err := s.store.Insert(ctx, r)
	if err != nil {
		s.cleanup(uploaded)
		return models.Recipe{}, fmt.Errorf("create recipe: %w", err)
	}

	s.metrics.RecordRecipeCreated()
	if s.live != nil {
		s.live.Publish(live.Event{Type: "recipe", Recipe: stored}, live.RoomAll, live.AuthorRoom(stored.AuthorID))
	}
	log.Info().Str("recipe", stored.ID).Str("author", stored.AuthorID).Int("photos", len(uploaded)).Msg("recipe created")
	return stored, nil
}

func checkRecipe(r models.Recipe) error {
	if err := validation.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
	}
	switch c := r.Content.(type) {
	case nil:
	case models.SimpleContent:
	case models.AdvancedContent:
		for _, ing := range c.Ingredients {
			if err := validation.Struct(ing); err != nil {
				return fmt.Errorf("%w: ingredient: %v", errs.ErrInvalidInput, err)
			}
		}
		for _, st := range c.Instructions {
			if err := validation.Struct(st); err != nil {
				return fmt.Errorf("%w: step: %v", errs.ErrInvalidInput, err)
			}
		}
	default:
		return fmt.Errorf("%w: %v", errs.ErrInvalidInput, models.ErrInvalidContent)
	}
	if r.VideoURL != "" {
		if _, err := video.Parse(r.VideoURL); err != nil {
			return fmt.Errorf("%w: %v", errs.ErrInvalidInput, err)
		}
	}
	return nil
}

// uploadPhotos stores photos sequentially. On error it returns the keys stored so far.
func (s *Service) uploadPhotos(ctx context.Context, authorID string, photos []Photo) ([]string, []string, error) {
	urls := make([]string, 0, len(photos))
	keys := make([]string, 0, len(photos))
	for i, p := range photos {
		key := storage.RecipePhotoKey(authorID, s.now(), p.Name)
		if slices.Contains(keys, key) {
			key = storage.RecipePhotoKey(authorID, s.now(), fmt.Sprintf("%d_%s", i, p.Name))
		}
		url, err := s.objects.Put(ctx, key, p.ContentType, p.Data)
		if err != nil {
			s.metrics.RecordUploadFailure("object-store")
			return nil, keys, fmt.Errorf("%w: upload %s: %v", errs.ErrUpstream, p.Name, err)
		}
		urls = append(urls, url)
		keys = append(keys, key)
	}
	return urls, keys, nil
}

// cleanup deletes objects of an aborted create. It uses a fresh context because the
// request context may already be cancelled.
func (s *Service) cleanup(keys []string) {
	if len(keys) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, key := range keys {
		if err := s.objects.Delete(ctx, key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("orphaned upload")
		}
	}
}

// StoreViewCounter increments directly in the document store.
type StoreViewCounter struct {
	Store db.RecipeStore
}

func (c StoreViewCounter) Increment(ctx context.Context, recipeID string) error {
	if c.Store == nil {
		return errs.ErrStoreUnavailable
	}
	if err := c.Store.IncrementViews(ctx, recipeID, 1); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return err
		}
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}
