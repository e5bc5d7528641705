package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// CreationMode selects which Content variant a recipe carries.
type CreationMode string

const (
	ModeSimple   CreationMode = "simple"
	ModeAdvanced CreationMode = "advanced"
)

var ErrInvalidContent = errors.New("ingredients and instructions do not match creation mode")

// Content is either SimpleContent or AdvancedContent. Consumers type-switch on it.
type Content interface {
	Mode() CreationMode
	isContent()
}

// SimpleContent is free text: one line per ingredient and a single instructions block.
type SimpleContent struct {
	Ingredients  []string
	Instructions string
}

func (SimpleContent) Mode() CreationMode { return ModeSimple }
func (SimpleContent) isContent()         {}

type Ingredient struct {
	Name   string `json:"name" bson:"name" validate:"required,max=200"`
	Amount string `json:"amount" bson:"amount" validate:"max=100"`
	Unit   string `json:"unit,omitempty" bson:"unit,omitempty" validate:"max=50"`
	Notes  string `json:"notes,omitempty" bson:"notes,omitempty" validate:"max=500"`
}

type Step struct {
	Step        int    `json:"step" bson:"step" validate:"min=1"`
	Description string `json:"description" bson:"description" validate:"required,max=2000"`
	Duration    string `json:"duration,omitempty" bson:"duration,omitempty" validate:"max=100"`
}

// AdvancedContent is the structured form.
type AdvancedContent struct {
	Ingredients  []Ingredient
	Instructions []Step
}

func (AdvancedContent) Mode() CreationMode { return ModeAdvanced }
func (AdvancedContent) isContent()         {}

// contentParts returns the mode and the two values written to the wire for c.
func contentParts(c Content) (CreationMode, any, any) {
	switch v := c.(type) {
	case SimpleContent:
		return ModeSimple, v.Ingredients, v.Instructions
	case *SimpleContent:
		return ModeSimple, v.Ingredients, v.Instructions
	case AdvancedContent:
		return ModeAdvanced, v.Ingredients, v.Instructions
	case *AdvancedContent:
		return ModeAdvanced, v.Ingredients, v.Instructions
	}
	return "", nil, nil
}

// decodeContent rebuilds the variant for mode. ingredients and instructions decode into
// the target they are given; a shape that belongs to the other mode fails to decode.
func decodeContent(mode CreationMode, present bool, decode func(ingredients, instructions any) error) (Content, error) {
	switch mode {
	case "":
		if present {
			return nil, fmt.Errorf("%w: creationMode is missing", ErrInvalidContent)
		}
		return nil, nil
	case ModeSimple:
		var c SimpleContent
		if err := decode(&c.Ingredients, &c.Instructions); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		return c, nil
	case ModeAdvanced:
		var c AdvancedContent
		if err := decode(&c.Ingredients, &c.Instructions); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: unknown creationMode %q", ErrInvalidContent, mode)
}

type recipeAlias Recipe

func (r Recipe) MarshalJSON() ([]byte, error) {
	mode, ingredients, instructions := contentParts(r.Content)
	return json.Marshal(struct {
		recipeAlias
		CreationMode CreationMode `json:"creationMode,omitempty"`
		Ingredients  any          `json:"ingredients,omitempty"`
		Instructions any          `json:"instructions,omitempty"`
	}{recipeAlias(r), mode, ingredients, instructions})
}

func (r *Recipe) UnmarshalJSON(data []byte) error {
	aux := struct {
		*recipeAlias
		CreationMode CreationMode    `json:"creationMode"`
		Ingredients  json.RawMessage `json:"ingredients"`
		Instructions json.RawMessage `json:"instructions"`
	}{recipeAlias: (*recipeAlias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	present := len(aux.Ingredients) > 0 || len(aux.Instructions) > 0
	content, err := decodeContent(aux.CreationMode, present, func(ingredients, instructions any) error {
		if len(aux.Ingredients) > 0 {
			if err := json.Unmarshal(aux.Ingredients, ingredients); err != nil {
				return fmt.Errorf("ingredients: %w", err)
			}
		}
		if len(aux.Instructions) > 0 {
			if err := json.Unmarshal(aux.Instructions, instructions); err != nil {
				return fmt.Errorf("instructions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.Content = content
	return nil
}

// MarshalBSON writes the alias document, then appends the content fields.
func (r Recipe) MarshalBSON() ([]byte, error) {
	doc, err := bson.Marshal(recipeAlias(r))
	mode, ingredients, instructions := contentParts(r.Content)
	if err != nil || mode == "" {
		return doc, err
	}

	var d bson.D
	if err := bson.Unmarshal(doc, &d); err != nil {
		return nil, err
	}
	d = append(d,
		bson.E{Key: "creationMode", Value: mode},
		bson.E{Key: "ingredients", Value: ingredients},
		bson.E{Key: "instructions", Value: instructions},
	)
	return bson.Marshal(d)
}

func (r *Recipe) UnmarshalBSON(data []byte) error {
	var alias recipeAlias
	if err := bson.Unmarshal(data, &alias); err != nil {
		return err
	}

	raw := bson.Raw(data)
	var mode CreationMode
	if v, err := raw.LookupErr("creationMode"); err == nil {
		if s, ok := v.StringValueOK(); ok {
			mode = CreationMode(s)
		}
	}
	ingredients := lookupPresent(raw, "ingredients")
	instructions := lookupPresent(raw, "instructions")

	present := ingredients != nil || instructions != nil
	content, err := decodeContent(mode, present, func(ing, ins any) error {
		if ingredients != nil {
			if err := ingredients.Unmarshal(ing); err != nil {
				return fmt.Errorf("ingredients: %w", err)
			}
		}
		if instructions != nil {
			if err := instructions.Unmarshal(ins); err != nil {
				return fmt.Errorf("instructions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	*r = Recipe(alias)
	r.Content = content
	return nil
}

func lookupPresent(raw bson.Raw, key string) *bson.RawValue {
	v, err := raw.LookupErr(key)
	if err != nil || v.Type == bsontype.Null {
		return nil
	}
	return &v
}
