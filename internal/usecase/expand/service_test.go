package expand

import (
	"context"
	"errors"
	"testing"

	"github.com/chefboost/chefboost/internal/domain/query"
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

func TestExpand_ReturnsVariants(t *testing.T) {
	gen := &mockGenerator{response: "1. plant-based sweets\n2. desserts without dairy\n3. egg-free cakes"}
	svc := New(gen, 256, 0)

	variants := svc.Expand(context.Background(), testQuery(t, "vegan dessert recipes"), 3)
	if len(variants) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(variants))
	}
	if variants[0].Text() != "plant-based sweets" {
		t.Errorf("first variant = %q", variants[0].Text())
	}
	for _, v := range variants {
		if v.Origin() != "vegan dessert recipes" {
			t.Errorf("variant origin = %q", v.Origin())
		}
	}
}

func TestExpand_CapsAtCount(t *testing.T) {
	gen := &mockGenerator{response: "a\nb\nc\nd\ne"}
	svc := New(gen, 256, 0)

	variants := svc.Expand(context.Background(), testQuery(t, "soup"), 2)
	if len(variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(variants))
	}
}

func TestExpand_DeduplicatesCaseInsensitive(t *testing.T) {
	gen := &mockGenerator{response: "Vegan Dessert Recipes\nplant-based sweets\nPLANT-BASED SWEETS\nplant-based sweets"}
	svc := New(gen, 256, 0)

	variants := svc.Expand(context.Background(), testQuery(t, "vegan dessert recipes"), 5)
	if len(variants) != 1 {
		t.Fatalf("expected 1 variant after dedup, got %d: %v", len(variants), variants)
	}
	if variants[0].Text() != "plant-based sweets" {
		t.Errorf("variant = %q", variants[0].Text())
	}
}

func TestExpand_GenerationFailureDegrades(t *testing.T) {
	gen := &mockGenerator{err: errors.New("quota exceeded")}
	svc := New(gen, 256, 0)

	variants := svc.Expand(context.Background(), testQuery(t, "soup"), 3)
	if len(variants) != 0 {
		t.Fatalf("expected no variants on failure, got %v", variants)
	}
}

func TestExpand_BlankOutputDegrades(t *testing.T) {
	gen := &mockGenerator{response: "\n  \n\n"}
	svc := New(gen, 256, 0)

	if variants := svc.Expand(context.Background(), testQuery(t, "soup"), 3); len(variants) != 0 {
		t.Fatalf("expected no variants for blank output, got %v", variants)
	}
}

func TestExpand_ZeroCountSkipsGeneration(t *testing.T) {
	gen := &mockGenerator{response: "a"}
	svc := New(gen, 256, 0)

	if variants := svc.Expand(context.Background(), testQuery(t, "soup"), 0); variants != nil {
		t.Fatalf("expected nil, got %v", variants)
	}
	if gen.calls != 0 {
		t.Error("generator must not be called for count=0")
	}
}
