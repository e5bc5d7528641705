// Package catalog serves a fixed, read-only collection of traditional recipes.
package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"obiabedidi/errs"
	"obiabedidi/models"
	"obiabedidi/utils"
	"obiabedidi/validation"

	"github.com/google/uuid"
)

var idSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://obiabedidi.app/catalog"))

type Recipe struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Region       string              `json:"region,omitempty"`
	PrepTime     string              `json:"prepTime"`
	CookTime     string              `json:"cookTime"`
	Servings     int                 `json:"servings"`
	Difficulty   models.Difficulty   `json:"difficulty"`
	Ingredients  []models.Ingredient `json:"ingredients"`
	Instructions []models.Step       `json:"instructions"`
	ImageURL     string              `json:"imageUrl,omitempty"`
	Tags         []string            `json:"tags"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

type Catalog struct {
	recipes []Recipe
}

// New loads the built-in recipes, stamping them with loadedAt.
func New(loadedAt time.Time) *Catalog {
	c := &Catalog{recipes: make([]Recipe, 0, len(seed))}
	for _, s := range seed {
		r := s.Recipe
		r.ID = uuid.NewSHA1(idSpace, []byte(s.slug)).String()
		r.CreatedAt, r.UpdatedAt = loadedAt, loadedAt
		c.recipes = append(c.recipes, r)
	}
	return c
}

// ListFilter: Region, Difficulty and Tag match whole values ignoring case; Search is a
// case-insensitive substring of the name or description.
type ListFilter struct {
	Region     string
	Difficulty string
	Tag        string
	Search     string
}

func (c *Catalog) List(f ListFilter) []Recipe {
	search := validation.SanitizeSearchTerm(f.Search)
	out := []Recipe{}
	for _, r := range c.recipes {
		if f.Region != "" && !strings.EqualFold(r.Region, f.Region) {
			continue
		}
		if f.Difficulty != "" && !strings.EqualFold(string(r.Difficulty), f.Difficulty) {
			continue
		}
		if f.Tag != "" && !slices.ContainsFunc(r.Tags, func(t string) bool { return strings.EqualFold(t, f.Tag) }) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(r.Name), search) &&
			!strings.Contains(strings.ToLower(r.Description), search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (c *Catalog) Get(id string) (Recipe, error) {
	if !validation.IsValidUUID(id) {
		return Recipe{}, fmt.Errorf("recipe %q: %w", id, errs.ErrNotFound)
	}
	for _, r := range c.recipes {
		if r.ID == id {
			return r, nil
		}
	}
	return Recipe{}, fmt.Errorf("recipe %s: %w", id, errs.ErrNotFound)
}

// SearchQuery holds the raw search parameters.
type SearchQuery struct {
	Ingredients  string `json:"ingredients,omitempty"`
	MaxCookTime  string `json:"maxCookTime,omitempty"`
	Difficulties string `json:"difficulties,omitempty"`
	Tags         string `json:"tags,omitempty"`
	SortBy       string `json:"sortBy,omitempty"`
	SortOrder    string `json:"sortOrder,omitempty"`
}

// Validate checks the parameters with the shared validation helpers.
func (q SearchQuery) Validate() validation.Result {
	results := []validation.Result{validation.ValidateSortParams(q.SortBy, q.SortOrder)}
	if q.MaxCookTime != "" {
		results = append(results, validation.ValidateNumericParam(q.MaxCookTime, "maxCookTime", 0))
	}
	if q.Difficulties != "" {
		var levels []string
		for _, d := range splitLower(q.Difficulties) {
			levels = append(levels, canonicalDifficulty(d))
		}
		results = append(results, validation.ValidateDifficulties(levels))
	}
	return validation.Combine(results...)
}

// Search applies every supplied criterion:
//   - ingredients: any listed term is a substring of an ingredient name
//   - maxCookTime: total cook time in minutes is at most the value
//   - difficulties: difficulty is one of the listed levels
//   - tags: every listed term is a substring of some tag
//
// Results keep catalogue order unless SortBy is set; sorting is stable.
func (c *Catalog) Search(q SearchQuery) ([]Recipe, error) {
	if v := q.Validate(); !v.IsValid {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidInput, v.Error())
	}

	ingredients := splitLower(q.Ingredients)
	difficulties := splitLower(q.Difficulties)
	tags := splitLower(q.Tags)
	maxCook := -1
	if q.MaxCookTime != "" {
		maxCook, _ = validation.LeadingInt(q.MaxCookTime)
	}

	out := []Recipe{}
	for _, r := range c.recipes {
		if len(ingredients) > 0 && !slices.ContainsFunc(r.Ingredients, func(ing models.Ingredient) bool {
			name := strings.ToLower(ing.Name)
			return slices.ContainsFunc(ingredients, func(term string) bool { return strings.Contains(name, term) })
		}) {
			continue
		}
		if maxCook >= 0 {
			if minutes, ok := Minutes(r.CookTime); !ok || minutes > maxCook {
				continue
			}
		}
		if len(difficulties) > 0 && !utils.EqualFoldAny(string(r.Difficulty), difficulties...) {
			continue
		}
		if len(tags) > 0 && !allTagsMatch(r.Tags, tags) {
			continue
		}
		out = append(out, r)
	}

	if q.SortBy != "" {
		desc := strings.EqualFold(q.SortOrder, "desc")
		slices.SortStableFunc(out, func(a, b Recipe) int {
			n := compareBy(q.SortBy, a, b)
			if desc {
				return -n
			}
			return n
		})
	}
	return out, nil
}

func allTagsMatch(have, want []string) bool {
	for _, w := range want {
		if !slices.ContainsFunc(have, func(t string) bool { return utils.ContainsIgnoreCase(t, w) }) {
			return false
		}
	}
	return true
}

var difficultyRank = map[models.Difficulty]int{
	models.DifficultyEasy:   0,
	models.DifficultyMedium: 1,
	models.DifficultyHard:   2,
}

func compareBy(field string, a, b Recipe) int {
	switch field {
	case "name":
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case "prepTime":
		return compareDurations(a.PrepTime, b.PrepTime)
	case "cookTime":
		return compareDurations(a.CookTime, b.CookTime)
	case "difficulty":
		return cmp.Compare(difficultyRank[a.Difficulty], difficultyRank[b.Difficulty])
	case "createdAt":
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	return 0
}

func compareDurations(a, b string) int {
	ma, _ := Minutes(a)
	mb, _ := Minutes(b)
	return cmp.Compare(ma, mb)
}

// Minutes reads durations like "30 mins", "1 hour" or "1.5 hours".
func Minutes(d string) (int, bool) {
	fields := strings.Fields(strings.ToLower(d))
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	if len(fields) > 1 && strings.HasPrefix(fields[1], "h") {
		n *= 60
	}
	return int(n + 0.5), true
}

func splitLower(s string) []string {
	out := utils.SplitCSV(s)
	for i := range out {
		out[i] = strings.ToLower(out[i])
	}
	return out
}

func canonicalDifficulty(d string) string {
	for level := range difficultyRank {
		if strings.EqualFold(string(level), d) {
			return string(level)
		}
	}
	return d
}
