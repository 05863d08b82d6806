package brand

import (
	"math"
	"testing"
)

func TestStandardize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bosch", "BOSCH"},
		{"  mann-filter ", "MANNFILTER"},
		{"Lemförder", "LEMFORDER"},
		{"БОШ", "BOSH"},
		{"Autocomponent", "AVTOCOMPONENT"},
		{"АВТОВАЗ", "AVTOVAZ"},
		{"K&N", "KN"},
		{"", ""},
		{"---", ""},
	}

	for _, tc := range tests {
		if got := Standardize(tc.in); got != tc.want {
			t.Fatalf("Standardize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalGroup(t *testing.T) {
	a, okA := CanonicalGroup("БОШ")
	b, okB := CanonicalGroup("Bosch")
	if !okA || !okB {
		t.Fatalf("both spellings should be grouped: %v %v", okA, okB)
	}
	if a != b || a != "BOSCH" {
		t.Fatalf("expected BOSCH for both, got %q and %q", a, b)
	}
	if !IsBrandMatch("БОШ", "Bosch") {
		t.Fatalf("БОШ and Bosch must match")
	}

	if _, ok := CanonicalGroup("Totally Unknown Brand"); ok {
		t.Fatalf("unknown brand should not resolve to a group")
	}
}

func TestIsBrandMatch(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		want     bool
	}{
		{"same group different spelling", "Hyundai", "KIA", true},
		{"different groups", "Toyota", "Nissan", false},
		{"close spellings", "Patron", "Patrone", true},
		{"unrelated", "Patron", "Masuma", false},
		{"empty expected", "", "Bosch", false},
		{"empty actual", "Bosch", "  ", false},
		{"one grouped one not", "Bosch", "Boschh", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsBrandMatch(tc.expected, tc.actual); got != tc.want {
				t.Fatalf("IsBrandMatch(%q, %q) = %v, want %v", tc.expected, tc.actual, got, tc.want)
			}
			if got := IsBrandMatch(tc.actual, tc.expected); got != tc.want {
				t.Fatalf("IsBrandMatch is not symmetric for %q, %q", tc.expected, tc.actual)
			}
		})
	}
}

func TestIsBrandMatchReflexive(t *testing.T) {
	for _, x := range []string{"Bosch", "БОШ", "x", "***", "Sakura", "555", "Z"} {
		if !IsBrandMatch(x, x) {
			t.Fatalf("IsBrandMatch(%q, %q) should be true", x, x)
		}
	}
}

func TestBlankBrandMatchesNothing(t *testing.T) {
	for _, blank := range []string{"", " ", "  ", "\t\n"} {
		if IsBrandMatch(blank, blank) {
			t.Fatalf("IsBrandMatch(%q, %q) should be false", blank, blank)
		}
		if IsRelevantBrand(blank, blank) {
			t.Fatalf("IsRelevantBrand(%q, %q) should be false", blank, blank)
		}
	}
}

func TestIsRelevantBrand(t *testing.T) {
	tests := []struct {
		expected string
		actual   string
		want     bool
	}{
		{"Swag", "Swag by Febi", true},
		{"GM", "GMB", false},
		{"Bosch", "БОШ", true},
		{"Sakura", "Stellox", false},
	}

	for _, tc := range tests {
		if got := IsRelevantBrand(tc.expected, tc.actual); got != tc.want {
			t.Fatalf("IsRelevantBrand(%q, %q) = %v, want %v", tc.expected, tc.actual, got, tc.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"PATRON", "PATRONE", 10.0 / 11.0},
		{"AA", "AAAA", 2.0 / 4.0},
		{"A", "B", 0},
		{"A", "A", 1},
		{"", "", 0},
	}

	for _, tc := range tests {
		got := Similarity(tc.a, tc.b)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("Similarity(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
		if back := Similarity(tc.b, tc.a); math.Abs(back-got) > 1e-9 {
			t.Fatalf("Similarity is not symmetric for %q, %q", tc.a, tc.b)
		}
	}
}

func TestMatcherWith(t *testing.T) {
	m := Default.With([][]string{{"STELLOX", "СТЕЛЛОКС"}, {"BOSCH-CLONE", "BOSCH"}})

	if !m.IsBrandMatch("Stellox", "Стеллокс") {
		t.Fatalf("extended group should match")
	}
	if c, _ := m.CanonicalGroup("bosch"); c != "BOSCH" {
		t.Fatalf("existing spelling must keep its group, got %q", c)
	}
	if _, ok := Default.CanonicalGroup("Стеллокс"); ok {
		t.Fatalf("With must not mutate the receiver")
	}
}
