package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/arialabs/aria/internal/knowledge"
	"github.com/arialabs/aria/internal/observability"
)

type failingKnowledge struct{}

func (failingKnowledge) Find(context.Context, knowledge.Query) ([]knowledge.Interpretation, error) {
	return nil, errors.New("connection refused")
}

func (failingKnowledge) Close() error { return nil }

func testRouter(t *testing.T, store knowledge.Store) *Router {
	t.Helper()
	if store == nil {
		store = knowledge.NewInMemoryStore()
	}
	return NewNumerologyRouter(store, observability.NewMetrics("tools_"+t.Name()))
}

func TestLifePathHandler(t *testing.T) {
	r := testRouter(t, nil)

	res := r.Dispatch(context.Background(), "calculate_life_path", map[string]any{
		"birth_date": "1990-05-15",
	})
	if got := res["life_path_number"]; got != 3 {
		t.Fatalf("life_path_number = %v, want 3", got)
	}
}

func TestLifePathHandlerBadDate(t *testing.T) {
	r := testRouter(t, nil)

	for _, raw := range []string{"05/15/1990", "1990-13-40", "not a date", ""} {
		res := r.Dispatch(context.Background(), "calculate_life_path", map[string]any{
			"birth_date": raw,
		})
		kind, isErr := res.IsError()
		if !isErr || kind != ErrInvalidInput {
			t.Fatalf("birth_date %q: got %v, want %s error", raw, res, ErrInvalidInput)
		}
		if res["message"] == "" {
			t.Fatalf("birth_date %q: error result has no message", raw)
		}
	}
}

func TestLifePathHandlerMissingArg(t *testing.T) {
	r := testRouter(t, nil)

	res := r.Dispatch(context.Background(), "calculate_life_path", map[string]any{})
	if kind, isErr := res.IsError(); !isErr || kind != ErrInvalidInput {
		t.Fatalf("Dispatch with no args = %v, want %s error", res, ErrInvalidInput)
	}
}

func TestExpressionHandler(t *testing.T) {
	r := testRouter(t, nil)

	res := r.Dispatch(context.Background(), "calculate_expression_number", map[string]any{
		"full_name": "John Smith",
	})
	if got := res["expression_number"]; got != 8 {
		t.Fatalf("expression_number = %v, want 8", got)
	}
}

func TestExpressionHandlerEmptyName(t *testing.T) {
	r := testRouter(t, nil)

	for _, name := range []string{"", "   "} {
		res := r.Dispatch(context.Background(), "calculate_expression_number", map[string]any{
			"full_name": name,
		})
		kind, isErr := res.IsError()
		if !isErr || kind != ErrInvalidInput {
			t.Fatalf("full_name %q: got %v, want %s error", name, res, ErrInvalidInput)
		}
	}
}

func TestSoulUrgeHandler(t *testing.T) {
	r := testRouter(t, nil)

	res := r.Dispatch(context.Background(), "calculate_soul_urge_number", map[string]any{
		"full_name": "John Smith",
	})
	if got := res["soul_urge_number"]; got != 6 {
		t.Fatalf("soul_urge_number = %v, want 6", got)
	}
}

func TestBirthdayHandler(t *testing.T) {
	r := testRouter(t, nil)

	res := r.Dispatch(context.Background(), "calculate_birthday_number", map[string]any{
		"birth_date": "1990-05-29",
	})
	if got := res["birthday_number"]; got != 11 {
		t.Fatalf("birthday_number = %v, want 11", got)
	}
}

func TestPersonalYearHandler(t *testing.T) {
	r := testRouter(t, nil)

	res := r.Dispatch(context.Background(), "calculate_personal_year", map[string]any{
		"birth_date": "1990-05-15",
		"year":       float64(2025),
	})
	if got := res["personal_year_number"]; got != 2 {
		t.Fatalf("personal_year_number = %v, want 2", got)
	}
}

func TestPersonalYearHandlerDefaultsYear(t *testing.T) {
	r := testRouter(t, nil)

	res := r.Dispatch(context.Background(), "calculate_personal_year", map[string]any{
		"birth_date": "1990-05-15",
	})
	if _, isErr := res.IsError(); isErr {
		t.Fatalf("Dispatch without year = %v, want success", res)
	}
	if _, ok := res["personal_year_number"]; !ok {
		t.Fatalf("result %v missing personal_year_number", res)
	}
}

func TestInterpretationHandler(t *testing.T) {
	store := knowledge.NewInMemoryStore()
	store.Add(knowledge.Interpretation{
		NumberType: knowledge.TypeLifePath, NumberValue: 3,
		Category: "personality", Content: "Creative and expressive.",
	})
	store.Add(knowledge.Interpretation{
		NumberType: knowledge.TypeLifePath, NumberValue: 3,
		Category: "strengths", Content: "Natural communicator.",
	})
	r := testRouter(t, store)

	res := r.Dispatch(context.Background(), "get_numerology_interpretation", map[string]any{
		"number_type":  "life_path",
		"number_value": float64(3),
	})
	list, ok := res["interpretations"].([]map[string]any)
	if !ok {
		t.Fatalf("interpretations = %T, want list", res["interpretations"])
	}
	if len(list) != 2 {
		t.Fatalf("len(interpretations) = %d, want 2", len(list))
	}

	res = r.Dispatch(context.Background(), "get_numerology_interpretation", map[string]any{
		"number_type":  "life_path",
		"number_value": float64(3),
		"category":     "strengths",
	})
	list = res["interpretations"].([]map[string]any)
	if len(list) != 1 || list[0]["content"] != "Natural communicator." {
		t.Fatalf("filtered interpretations = %v, want the strengths entry", list)
	}
}

func TestInterpretationHandlerEmptyLookupIsSuccess(t *testing.T) {
	r := testRouter(t, nil)

	res := r.Dispatch(context.Background(), "get_numerology_interpretation", map[string]any{
		"number_type":  "soul_urge",
		"number_value": float64(33),
	})
	if _, isErr := res.IsError(); isErr {
		t.Fatalf("empty lookup = %v, want success", res)
	}
	list, ok := res["interpretations"].([]map[string]any)
	if !ok || list == nil {
		t.Fatalf("interpretations = %v, want empty non-nil list", res["interpretations"])
	}
	if len(list) != 0 {
		t.Fatalf("len(interpretations) = %d, want 0", len(list))
	}
}

func TestInterpretationHandlerStoreFailure(t *testing.T) {
	r := testRouter(t, failingKnowledge{})

	res := r.Dispatch(context.Background(), "get_numerology_interpretation", map[string]any{
		"number_type":  "life_path",
		"number_value": float64(1),
	})
	if kind, isErr := res.IsError(); !isErr || kind != ErrUpstreamFailure {
		t.Fatalf("Dispatch with failing store = %v, want %s error", res, ErrUpstreamFailure)
	}
}

func TestInterpretationHandlerBadNumberType(t *testing.T) {
	r := testRouter(t, nil)

	res := r.Dispatch(context.Background(), "get_numerology_interpretation", map[string]any{
		"number_type":  "destiny",
		"number_value": float64(5),
	})
	if kind, isErr := res.IsError(); !isErr || kind != ErrInvalidInput {
		t.Fatalf("bad number_type = %v, want %s error", res, ErrInvalidInput)
	}
}
