package recipes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"obiabedidi/db"
	"obiabedidi/errs"
	"obiabedidi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func published(id string, age time.Duration) models.Recipe {
	return models.Recipe{
		ID:        id,
		Name:      "Recipe " + id,
		Status:    models.StatusPublished,
		IsPublic:  true,
		CreatedAt: now.Add(-age),
	}
}

type fakeObjects struct {
	mu      sync.Mutex
	puts    []string
	deleted []string
	failAt  int
}

func (f *fakeObjects) Put(_ context.Context, key, _ string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAt > 0 && len(f.puts)+1 == f.failAt {
		return "", errors.New("bucket unavailable")
	}
	f.puts = append(f.puts, key)
	return "https://cdn.test/" + key, nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

type failingStore struct {
	db.RecipeStore
	err error
}

func (s failingStore) Find(context.Context, db.Query) ([]models.Recipe, error) { return nil, s.err }
func (s failingStore) Insert(context.Context, models.Recipe) (models.Recipe, error) {
	return models.Recipe{}, s.err
}

type publisherFunc func(v any, rooms ...string)

func (f publisherFunc) Publish(v any, rooms ...string) { f(v, rooms...) }

func TestListRecipesAppliesBaseAndFilters(t *testing.T) {
	hidden := published("hidden", time.Hour)
	hidden.IsPublic = false
	draft := published("draft", time.Hour)
	draft.Status = models.StatusDraft

	trending := published("trending", 2*time.Hour)
	trending.IsTrending = true
	trending.MealType = []models.MealType{models.MealDinner}

	rated := published("rated", 3*time.Hour)
	rated.Rating = models.Rating{Average: 4.7, Count: 3}
	rated.Difficulty = models.DifficultyEasy
	rated.ServingSize = models.ServingLarge

	old := published("old", 30*24*time.Hour)
	old.MealType = []models.MealType{models.MealBreakfast}

	store := db.NewMemoryStore(hidden, draft, trending, rated, old)
	svc := NewService(store, WithClock(clock))
	ctx := context.Background()

	cases := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"all", ListOptions{}, []string{"trending", "rated", "old"}},
		{"trending", ListOptions{Filter: FilterTrending}, []string{"trending"}},
		{"new", ListOptions{Filter: FilterNew}, []string{"trending", "rated"}},
		{"top-rated", ListOptions{Filter: FilterTopRated}, []string{"rated"}},
		{"meal types", ListOptions{MealTypes: []models.MealType{models.MealBreakfast, models.MealDinner}}, []string{"trending", "old"}},
		{"difficulty and serving size", ListOptions{Difficulty: models.DifficultyEasy, ServingSize: models.ServingLarge}, []string{"rated"}},
		{"filters combine", ListOptions{Filter: FilterNew, MealTypes: []models.MealType{models.MealBreakfast}}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, err := svc.ListRecipes(ctx, tc.opts)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(page.Recipes))
			for _, r := range page.Recipes {
				assert.True(t, r.Visible())
			}
		})
	}
}

func TestListRecipesInvalidOptions(t *testing.T) {
	svc := NewService(db.NewMemoryStore(), WithClock(clock))
	ctx := context.Background()

	for _, opts := range []ListOptions{
		{Filter: "popular"},
		{PageSize: -1},
		{PageSize: MaxPageSize + 1},
		{MealTypes: []models.MealType{"Brunch"}},
		{Difficulty: "easy"},
		{ServingSize: "huge"},
		{Cursor: "not a cursor"},
	} {
		_, err := svc.ListRecipes(ctx, opts)
		assert.ErrorIs(t, err, errs.ErrInvalidInput, "%+v", opts)
	}
}

func TestNilStore(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	_, err := svc.ListRecipes(ctx, ListOptions{})
	assert.ErrorIs(t, err, errs.ErrStoreUnavailable)
	_, err = svc.GetRecipeByID(ctx, "x")
	assert.ErrorIs(t, err, errs.ErrStoreUnavailable)
	_, err = svc.GetUserRecipes(ctx, "u1", 5)
	assert.ErrorIs(t, err, errs.ErrStoreUnavailable)
	_, err = svc.CreateRecipe(ctx, &models.User{ID: "u1"}, models.Recipe{Name: "x"}, nil)
	assert.ErrorIs(t, err, errs.ErrStoreUnavailable)
	svc.IncrementViews(ctx, "x")
}

func TestListRecipesStoreErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewService(failingStore{err: boom})
	_, err := svc.ListRecipes(context.Background(), ListOptions{})
	assert.ErrorIs(t, err, boom)
}

func TestGetRecipeByIDNotFound(t *testing.T) {
	svc := NewService(db.NewMemoryStore(published("a", time.Hour)))
	_, err := svc.GetRecipeByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	r, err := svc.GetRecipeByID(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "Recipe a", r.Name)
}

func TestGetUserRecipes(t *testing.T) {
	mine1 := published("m1", time.Hour)
	mine1.AuthorID = "u1"
	mine2 := published("m2", 2*time.Hour)
	mine2.AuthorID = "u1"
	mine2.Status = models.StatusDraft
	mine3 := published("m3", 3*time.Hour)
	mine3.AuthorID = "u1"
	theirs := published("t1", time.Minute)
	theirs.AuthorID = "u2"

	svc := NewService(db.NewMemoryStore(mine1, mine2, mine3, theirs))
	ctx := context.Background()

	got, err := svc.GetUserRecipes(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids(got))

	got, err = svc.GetUserRecipes(ctx, "u1", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, ids(got))

	_, err = svc.GetUserRecipes(ctx, "", 2)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestIncrementViewsConcurrent(t *testing.T) {
	start := published("a", time.Hour)
	start.ViewCount = 7
	store := db.NewMemoryStore(start)
	svc := NewService(store)
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.IncrementViews(ctx, "a")
		}()
	}
	wg.Wait()

	r, err := store.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.EqualValues(t, 7+n, r.ViewCount)

	// unknown ids are swallowed
	svc.IncrementViews(ctx, "missing")
}

func TestCreateRecipeStampsDefaults(t *testing.T) {
	store := db.NewMemoryStore()
	var rooms []string
	svc := NewService(store, WithClock(clock), WithPublisher(publisherFunc(func(_ any, to ...string) {
		rooms = append(rooms, to...)
	})))

	featured := true
	in := models.Recipe{
		Name:       "Red Red",
		Difficulty: models.DifficultyEasy,
		ViewCount:  999,
		Rating:     models.Rating{Average: 5, Count: 100},
		Status:     models.StatusDraft,
		IsFeatured: &featured,
		Content:    models.SimpleContent{Ingredients: []string{"beans", "plantain"}, Instructions: "Cook."},
	}
	got, err := svc.CreateRecipe(context.Background(), &models.User{ID: "u1"}, in, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "u1", got.AuthorID)
	assert.Equal(t, "Anonymous", got.AuthorName)
	assert.Equal(t, now, got.CreatedAt)
	assert.Equal(t, now, got.UpdatedAt)
	assert.Zero(t, got.ViewCount)
	assert.Zero(t, got.SaveCount)
	assert.Equal(t, models.Rating{}, got.Rating)
	assert.Equal(t, models.StatusPublished, got.Status)
	assert.True(t, got.IsPublic)
	assert.Nil(t, got.IsFeatured)
	assert.Empty(t, got.ImageURL)
	assert.Empty(t, got.Gallery)
	assert.Equal(t, in.Content, got.Content)
	assert.Equal(t, []string{"recipes", "author:u1"}, rooms)

	stored, err := store.FindByID(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Name, stored.Name)
}

func TestCreateRecipeRequiresAuthor(t *testing.T) {
	svc := NewService(db.NewMemoryStore())
	_, err := svc.CreateRecipe(context.Background(), nil, models.Recipe{Name: "x"}, nil)
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestCreateRecipeValidates(t *testing.T) {
	svc := NewService(db.NewMemoryStore())
	user := &models.User{ID: "u1", DisplayName: "Ama"}
	ctx := context.Background()

	_, err := svc.CreateRecipe(ctx, user, models.Recipe{}, nil)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = svc.CreateRecipe(ctx, user, models.Recipe{Name: "x", Difficulty: "Impossible"}, nil)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = svc.CreateRecipe(ctx, user, models.Recipe{Name: "x", VideoURL: "https://example.com/clip.mp4"}, nil)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = svc.CreateRecipe(ctx, user, models.Recipe{Name: "x", Content: models.AdvancedContent{
		Instructions: []models.Step{{Step: 0, Description: "stir"}},
	}}, nil)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	got, err := svc.CreateRecipe(ctx, user, models.Recipe{Name: "x", VideoURL: "https://youtu.be/abc"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Ama", got.AuthorName)
}

func TestCreateRecipeUploadsPhotosInOrder(t *testing.T) {
	objects := &fakeObjects{}
	svc := NewService(db.NewMemoryStore(), WithClock(clock), WithObjectStore(objects))
	photos := []Photo{
		{Name: "front.jpg", ContentType: "image/jpeg", Data: []byte("1")},
		{Name: "side.jpg", ContentType: "image/jpeg", Data: []byte("2")},
		{Name: "front.jpg", ContentType: "image/jpeg", Data: []byte("3")},
	}

	got, err := svc.CreateRecipe(context.Background(), &models.User{ID: "u1"}, models.Recipe{Name: "Kelewele"}, photos)
	require.NoError(t, err)

	ms := now.UnixMilli()
	want := []string{
		fmt.Sprintf("recipes/u1/%d_front.jpg", ms),
		fmt.Sprintf("recipes/u1/%d_side.jpg", ms),
		fmt.Sprintf("recipes/u1/%d_2_front.jpg", ms),
	}
	assert.Equal(t, want, objects.puts)
	require.Len(t, got.Gallery, 3)
	assert.Equal(t, "https://cdn.test/"+want[0], got.ImageURL)
	assert.Equal(t, got.ImageURL, got.Gallery[0])
	assert.Equal(t, "https://cdn.test/"+want[2], got.Gallery[2])
}

func TestCreateRecipeKeepsExistingImageURL(t *testing.T) {
	objects := &fakeObjects{}
	svc := NewService(db.NewMemoryStore(), WithObjectStore(objects))
	in := models.Recipe{Name: "Fufu", ImageURL: "https://res.cloudinary.com/demo/fufu.jpg"}

	got, err := svc.CreateRecipe(context.Background(), &models.User{ID: "u1"}, in, []Photo{{Name: "a.jpg"}})
	require.NoError(t, err)
	assert.Empty(t, objects.puts)
	assert.Equal(t, in.ImageURL, got.ImageURL)
}

func TestCreateRecipeCleansUpOnUploadFailure(t *testing.T) {
	objects := &fakeObjects{failAt: 3}
	store := db.NewMemoryStore()
	svc := NewService(store, WithObjectStore(objects))
	photos := []Photo{{Name: "a.jpg"}, {Name: "b.jpg"}, {Name: "c.jpg"}}

	_, err := svc.CreateRecipe(context.Background(), &models.User{ID: "u1"}, models.Recipe{Name: "Ampesi"}, photos)
	assert.ErrorIs(t, err, errs.ErrUpstream)
	assert.Equal(t, objects.puts, objects.deleted)
	assert.Len(t, objects.deleted, 2)

	all, err := store.Find(context.Background(), db.Query{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateRecipeCleansUpOnWriteFailure(t *testing.T) {
	objects := &fakeObjects{}
	svc := NewService(failingStore{err: errors.New("write conflict")}, WithObjectStore(objects))

	_, err := svc.CreateRecipe(context.Background(), &models.User{ID: "u1"}, models.Recipe{Name: "Ampesi"}, []Photo{{Name: "a.jpg"}})
	require.Error(t, err)
	assert.Equal(t, objects.puts, objects.deleted)
}

func TestCreateRecipePhotosWithoutObjectStore(t *testing.T) {
	svc := NewService(db.NewMemoryStore())
	_, err := svc.CreateRecipe(context.Background(), &models.User{ID: "u1"}, models.Recipe{Name: "x"}, []Photo{{Name: "a.jpg"}})
	assert.ErrorIs(t, err, errs.ErrUpstream)
}

func ids(rs []models.Recipe) []string {
	if len(rs) == 0 {
		return nil
	}
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}
