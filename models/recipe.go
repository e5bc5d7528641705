package models

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type ServingSize string

const (
	ServingSmall  ServingSize = "small"
	ServingMedium ServingSize = "medium"
	ServingLarge  ServingSize = "large"
)

func (s ServingSize) Valid() bool {
	switch s {
	case ServingSmall, ServingMedium, ServingLarge:
		return true
	}
	return false
}

type MealType string

const (
	MealBreakfast MealType = "Breakfast"
	MealLunch     MealType = "Lunch"
	MealDinner    MealType = "Dinner"
	MealSnack     MealType = "Snack"
)

func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// EthnicGroup is the regional cuisine a dish is attributed to.
type EthnicGroup string

const (
	EthnicGA       EthnicGroup = "GA"
	EthnicEwe      EthnicGroup = "Ewe"
	EthnicFante    EthnicGroup = "Fante"
	EthnicAshanti  EthnicGroup = "Ashanti"
	EthnicNorthern EthnicGroup = "Northern"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

type Rating struct {
	Average float64 `json:"average" bson:"average"`
	Count   int64   `json:"count" bson:"count"`
}

// Recipe is the stored recipe document. Ingredients and instructions live in Content,
// whose concrete type is selected by the creation mode; see content.go for the wire shape.
type Recipe struct {
	ID          string `json:"id" bson:"_id,omitempty"`
	Name        string `json:"name" bson:"name" validate:"required,max=200"`
	Description string `json:"description,omitempty" bson:"description,omitempty" validate:"max=5000"`

	ImageURL string   `json:"imageUrl,omitempty" bson:"imageUrl,omitempty" validate:"omitempty,url"`
	Gallery  []string `json:"gallery,omitempty" bson:"gallery,omitempty" validate:"omitempty,dive,url"`
	VideoURL string   `json:"videoUrl,omitempty" bson:"videoUrl,omitempty" validate:"omitempty,url"`

	AuthorID    string `json:"authorId" bson:"authorId"`
	AuthorName  string `json:"authorName" bson:"authorName"`
	AuthorPhoto string `json:"authorPhoto,omitempty" bson:"authorPhoto,omitempty"`

	Difficulty  Difficulty  `json:"difficulty,omitempty" bson:"difficulty,omitempty" validate:"omitempty,oneof=Easy Medium Hard"`
	ServingSize ServingSize `json:"servingSize,omitempty" bson:"servingSize,omitempty" validate:"omitempty,oneof=small medium large"`
	MealType    []MealType  `json:"mealType,omitempty" bson:"mealType,omitempty" validate:"omitempty,dive,oneof=Breakfast Lunch Dinner Snack"`
	EthnicGroup EthnicGroup `json:"ethnicGroup,omitempty" bson:"ethnicGroup,omitempty" validate:"omitempty,oneof=GA Ewe Fante Ashanti Northern"`
	Tags        []string    `json:"tags,omitempty" bson:"tags,omitempty" validate:"max=30,dive,max=50"`
	Allergens   []string    `json:"allergens,omitempty" bson:"allergens,omitempty" validate:"max=30,dive,max=50"`

	Content Content `json:"-" bson:"-"`

	ViewCount int64  `json:"viewCount" bson:"viewCount"`
	SaveCount int64  `json:"saveCount" bson:"saveCount"`
	Rating    Rating `json:"rating" bson:"rating"`

	Status     Status `json:"status" bson:"status"`
	IsPublic   bool   `json:"isPublic" bson:"isPublic"`
	IsFeatured *bool  `json:"isFeatured,omitempty" bson:"isFeatured,omitempty"`
	IsTrending bool   `json:"isTrending" bson:"isTrending"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Visible reports whether the recipe may appear in public listings.
func (r Recipe) Visible() bool {
	return r.Status == StatusPublished && r.IsPublic
}

// HasMealType reports whether the recipe's meal types intersect the given set.
func (r Recipe) HasMealType(set []MealType) bool {
	for _, have := range r.MealType {
		for _, want := range set {
			if have == want {
				return true
			}
		}
	}
	return false
}
