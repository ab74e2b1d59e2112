// Package filter defines the metadata filter derived from natural-language
// queries and the fixed schema of recognized recipe attributes.
package filter

import (
	"sort"
	"strings"
)

// Recognized recipe attributes. Anything outside this whitelist is dropped
// during translation so an invented attribute can never exclude real matches.
const (
	AttrRecipeType            = "recipe_type"
	AttrCuisine               = "cuisine"
	AttrSpecialConsiderations = "special_considerations"
)

// schema maps each recognized attribute to its known values. Values outside
// the list are kept as-is (the corpus is free-text scraped), only unknown
// attribute names are rejected.
var schema = map[string][]string{
	AttrRecipeType: {
		"dessert", "soup", "salad", "main course", "appetizer", "beverage",
		"breakfast", "side dish",
	},
	AttrCuisine: {
		"italian", "french", "german", "australian", "english", "american",
		"thai", "japanese", "chinese", "mexican", "indian",
	},
	AttrSpecialConsiderations: {
		"vegetarian", "vegan", "keto", "nut-free", "dairy-free", "gluten-free",
		"low-carb",
	},
}

// Attributes returns the recognized attribute names in stable order.
func Attributes() []string {
	names := make([]string, 0, len(schema))
	for name := range schema {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KnownValues returns the documented values for a recognized attribute.
func KnownValues(attr string) []string {
	return schema[attr]
}

// IsRecognized reports whether attr is part of the declared schema.
func IsRecognized(attr string) bool {
	_, ok := schema[attr]
	return ok
}

// Filter is a structured metadata constraint: attribute name to expected
// values. An empty filter matches everything.
type Filter struct {
	terms map[string][]string
}

// Empty returns a filter with no constraints.
func Empty() Filter {
	return Filter{}
}

// FromPairs builds a filter from attribute/value pairs, silently discarding
// unrecognized attributes and blank values. Attribute names and values are
// lower-cased; duplicate values collapse.
func FromPairs(pairs map[string]string) Filter {
	terms := make(map[string][]string)
	for attr, value := range pairs {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if !IsRecognized(attr) {
			continue
		}
		for _, v := range strings.Split(value, ",") {
			v = strings.ToLower(strings.TrimSpace(v))
			if v == "" || contains(terms[attr], v) {
				continue
			}
			terms[attr] = append(terms[attr], v)
		}
	}
	if len(terms) == 0 {
		return Filter{}
	}
	return Filter{terms: terms}
}

// IsEmpty reports whether the filter has no constraints.
func (f Filter) IsEmpty() bool { return len(f.terms) == 0 }

// Values returns the expected values for an attribute.
func (f Filter) Values(attr string) []string { return f.terms[attr] }

// Terms returns the constrained attribute names in stable order.
func (f Filter) Terms() []string {
	names := make([]string, 0, len(f.terms))
	for name := range f.terms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String renders the filter for logging, e.g. "cuisine=italian recipe_type=dessert".
func (f Filter) String() string {
	if f.IsEmpty() {
		return "(none)"
	}
	parts := make([]string, 0, len(f.terms))
	for _, attr := range f.Terms() {
		parts = append(parts, attr+"="+strings.Join(f.terms[attr], "|"))
	}
	return strings.Join(parts, " ")
}

func contains(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}
