// Package knowledge holds the interpretation knowledge base: canned guidance
// text keyed by number type, number value and category.
package knowledge

import "context"

// Valid number types; mirrored in the tool schema offered to the model.
const (
	TypeLifePath     = "life_path"
	TypeExpression   = "expression"
	TypeSoulUrge     = "soul_urge"
	TypeBirthday     = "birthday"
	TypePersonalYear = "personal_year"
)

// Interpretation is one entry of guidance text for a (type, value, category)
// combination.
type Interpretation struct {
	NumberType  string `json:"number_type"`
	NumberValue int    `json:"number_value"`
	Category    string `json:"category"`
	Content     string `json:"content"`
}

// Query filters interpretations. Category is optional; empty matches all
// categories for the (type, value) pair.
type Query struct {
	NumberType  string
	NumberValue int
	Category    string
}

// Store retrieves interpretations. An empty result is a valid outcome, not
// an error.
type Store interface {
	Find(ctx context.Context, q Query) ([]Interpretation, error)
	Close() error
}
