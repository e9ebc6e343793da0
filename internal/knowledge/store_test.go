package knowledge

import (
	"context"
	"strings"
	"testing"
)

func TestNewStoreWithoutDatabaseServesSeed(t *testing.T) {
	store, err := NewStore(context.Background(), "")
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	defer store.Close()

	got, err := store.Find(context.Background(), Query{NumberType: TypeLifePath, NumberValue: 3, Category: "personality"})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Find(life_path 3 personality) returned %d entries, want 1", len(got))
	}
	if !strings.Contains(got[0].Content, "creative") {
		t.Fatalf("Find(life_path 3 personality) content = %q, want creative guidance", got[0].Content)
	}
}

func TestDefaultSeedCoversEveryNumberType(t *testing.T) {
	byType := make(map[string]int)
	for _, it := range DefaultSeed() {
		byType[it.NumberType]++
		if it.Content == "" {
			t.Fatalf("seed entry %s/%d/%s has empty content", it.NumberType, it.NumberValue, it.Category)
		}
	}
	for _, numberType := range []string{TypeLifePath, TypeExpression, TypeSoulUrge, TypeBirthday, TypePersonalYear} {
		if byType[numberType] == 0 {
			t.Fatalf("seed has no entries for %s", numberType)
		}
	}
}

func TestDefaultSeedIncludesMasterNumbers(t *testing.T) {
	store := NewInMemoryStore(DefaultSeed()...)
	for _, value := range []int{11, 22, 33} {
		got, err := store.Find(context.Background(), Query{NumberType: TypeLifePath, NumberValue: value})
		if err != nil {
			t.Fatalf("Find(life_path %d) error = %v", value, err)
		}
		if len(got) == 0 {
			t.Fatalf("Find(life_path %d) returned no entries", value)
		}
	}
}

func TestInMemoryStoreFindFiltersByCategory(t *testing.T) {
	store := NewInMemoryStore(DefaultSeed()...)

	all, err := store.Find(context.Background(), Query{NumberType: TypeLifePath, NumberValue: 3})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(all) < 5 {
		t.Fatalf("Find(life_path 3) returned %d entries, want the full category set", len(all))
	}

	career, err := store.Find(context.Background(), Query{NumberType: TypeLifePath, NumberValue: 3, Category: "career"})
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(career) != 1 || career[0].Category != "career" {
		t.Fatalf("Find(life_path 3 career) = %v, want exactly the career entry", career)
	}
}
