package selfquery

import (
	"context"
	"errors"
	"testing"

	"github.com/chefboost/chefboost/internal/domain/query"
	"github.com/chefboost/chefboost/internal/domain/search/filter"
)

type mockGenerator struct {
	response string
	err      error
	calls    int
}

func (m *mockGenerator) Generate(_ context.Context, _ string, _ int) (string, error) {
	m.calls++
	return m.response, m.err
}

func testQuery(t *testing.T, text string) query.Query {
	t.Helper()
	q, err := query.New(text, 4, "")
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return q
}

func TestTranslate_ExtractsFilterTerms(t *testing.T) {
	gen := &mockGenerator{response: "recipe_type: dessert\nspecial_considerations: vegan"}
	svc := New(gen, 128, 0)

	f := svc.Translate(context.Background(), testQuery(t, "vegan dessert recipes"))
	if f.IsEmpty() {
		t.Fatal("expected a non-empty filter")
	}
	if got := f.Values(filter.AttrRecipeType); len(got) != 1 || got[0] != "dessert" {
		t.Errorf("recipe_type = %v", got)
	}
	if got := f.Values(filter.AttrSpecialConsiderations); len(got) != 1 || got[0] != "vegan" {
		t.Errorf("special_considerations = %v", got)
	}
}

func TestTranslate_DropsUnrecognizedAttributes(t *testing.T) {
	gen := &mockGenerator{response: "cuisine: thai\ndifficulty: easy\nrating: 5 stars"}
	svc := New(gen, 128, 0)

	f := svc.Translate(context.Background(), testQuery(t, "easy thai food"))
	if got := f.Terms(); len(got) != 1 || got[0] != filter.AttrCuisine {
		t.Fatalf("terms = %v, want only cuisine", got)
	}
}

func TestTranslate_SplitsCommaSeparatedValues(t *testing.T) {
	gen := &mockGenerator{response: "special_considerations: vegan, gluten-free"}
	svc := New(gen, 128, 0)

	f := svc.Translate(context.Background(), testQuery(t, "vegan gluten-free dinner"))
	got := f.Values(filter.AttrSpecialConsiderations)
	if len(got) != 2 || got[0] != "vegan" || got[1] != "gluten-free" {
		t.Errorf("values = %v", got)
	}
}

func TestTranslate_MergesRepeatedAttributeLines(t *testing.T) {
	gen := &mockGenerator{response: "cuisine: italian\ncuisine: french"}
	svc := New(gen, 128, 0)

	f := svc.Translate(context.Background(), testQuery(t, "european classics"))
	got := f.Values(filter.AttrCuisine)
	if len(got) != 2 || got[0] != "italian" || got[1] != "french" {
		t.Errorf("values = %v", got)
	}
}

func TestTranslate_NoneSentinelYieldsEmptyFilter(t *testing.T) {
	gen := &mockGenerator{response: "NONE"}
	svc := New(gen, 128, 0)

	if f := svc.Translate(context.Background(), testQuery(t, "something tasty")); !f.IsEmpty() {
		t.Fatalf("expected empty filter, got %v", f)
	}
}

func TestTranslate_GenerationFailureDegrades(t *testing.T) {
	gen := &mockGenerator{err: errors.New("quota exceeded")}
	svc := New(gen, 128, 0)

	f := svc.Translate(context.Background(), testQuery(t, "vegan dessert"))
	if !f.IsEmpty() {
		t.Fatalf("expected empty filter on failure, got %v", f)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d", gen.calls)
	}
}

func TestTranslate_GarbageOutputDegrades(t *testing.T) {
	gen := &mockGenerator{response: "Sure! Here are some great filters for you."}
	svc := New(gen, 128, 0)

	if f := svc.Translate(context.Background(), testQuery(t, "dinner ideas")); !f.IsEmpty() {
		t.Fatalf("expected empty filter for unparseable output, got %v", f)
	}
}
