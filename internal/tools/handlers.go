package tools

import (
	"context"
	"strings"
	"time"

	"github.com/arialabs/aria/internal/knowledge"
	"github.com/arialabs/aria/internal/numerology"
	"github.com/arialabs/aria/internal/observability"
)

const birthDateLayout = "2006-01-02"

var validNumberTypes = map[string]bool{
	knowledge.TypeLifePath:     true,
	knowledge.TypeExpression:   true,
	knowledge.TypeSoulUrge:     true,
	knowledge.TypeBirthday:     true,
	knowledge.TypePersonalYear: true,
}

// NewNumerologyRouter builds a router with every numerology function
// registered against the given interpretation store.
func NewNumerologyRouter(store knowledge.Store, metrics *observability.Metrics) *Router {
	r := NewRouter(metrics)
	r.Register(lifePathDefinition(), handleLifePath)
	r.Register(expressionDefinition(), handleExpression)
	r.Register(soulUrgeDefinition(), handleSoulUrge)
	r.Register(birthdayDefinition(), handleBirthday)
	r.Register(personalYearDefinition(), handlePersonalYear)
	r.Register(interpretationDefinition(), interpretationHandler(store))
	return r
}

func handleLifePath(_ context.Context, args map[string]any) Result {
	birthDate, res := birthDateArg(args)
	if res != nil {
		return res
	}
	return Result{"life_path_number": numerology.LifePath(birthDate)}
}

func handleExpression(_ context.Context, args map[string]any) Result {
	name, res := fullNameArg(args)
	if res != nil {
		return res
	}
	return Result{"expression_number": numerology.Expression(name)}
}

func handleSoulUrge(_ context.Context, args map[string]any) Result {
	name, res := fullNameArg(args)
	if res != nil {
		return res
	}
	return Result{"soul_urge_number": numerology.SoulUrge(name)}
}

func handleBirthday(_ context.Context, args map[string]any) Result {
	birthDate, res := birthDateArg(args)
	if res != nil {
		return res
	}
	return Result{"birthday_number": numerology.Birthday(birthDate)}
}

func handlePersonalYear(_ context.Context, args map[string]any) Result {
	birthDate, res := birthDateArg(args)
	if res != nil {
		return res
	}
	year := time.Now().Year()
	if raw, ok := args["year"]; ok {
		y, ok := intValue(raw)
		if !ok {
			return Errorf(ErrInvalidInput, "year must be a whole number (e.g. 2026)")
		}
		year = y
	}
	return Result{"personal_year_number": numerology.PersonalYear(birthDate, year)}
}

func interpretationHandler(store knowledge.Store) HandlerFunc {
	return func(ctx context.Context, args map[string]any) Result {
		numberType, ok := stringArg(args, "number_type")
		if !ok || !validNumberTypes[numberType] {
			return Errorf(ErrInvalidInput, "number_type must be one of life_path, expression, soul_urge, birthday, personal_year")
		}
		numberValue, ok := intValue(args["number_value"])
		if !ok {
			return Errorf(ErrInvalidInput, "number_value must be a whole number (1-9, 11, 22, or 33)")
		}
		category, _ := stringArg(args, "category")

		found, err := store.Find(ctx, knowledge.Query{
			NumberType:  numberType,
			NumberValue: numberValue,
			Category:    category,
		})
		if err != nil {
			return Errorf(ErrUpstreamFailure, "Unable to retrieve interpretations. Please try again.")
		}

		// Keep the list non-nil so an empty lookup serializes as [].
		interpretations := make([]map[string]any, 0, len(found))
		for _, in := range found {
			interpretations = append(interpretations, map[string]any{
				"category": in.Category,
				"content":  in.Content,
			})
		}
		return Result{"interpretations": interpretations}
	}
}

func birthDateArg(args map[string]any) (time.Time, Result) {
	raw, ok := stringArg(args, "birth_date")
	if !ok || raw == "" {
		return time.Time{}, Errorf(ErrInvalidInput, "Invalid date format. Please use YYYY-MM-DD (e.g. 1990-05-15)")
	}
	parsed, err := time.Parse(birthDateLayout, raw)
	if err != nil {
		return time.Time{}, Errorf(ErrInvalidInput, "Invalid date format. Please use YYYY-MM-DD (e.g. 1990-05-15)")
	}
	return parsed, nil
}

func fullNameArg(args map[string]any) (string, Result) {
	name, ok := stringArg(args, "full_name")
	if !ok || strings.TrimSpace(name) == "" {
		return "", Errorf(ErrInvalidInput, "Please provide your full name")
	}
	return name, nil
}

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// intValue accepts the numeric shapes JSON decoding can produce.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
