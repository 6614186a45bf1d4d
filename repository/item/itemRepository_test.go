package itemrepo

import "testing"

func TestSearchPattern_LiteralWildcards(t *testing.T) {
	got := searchPattern(`50%_off\`)
	want := `%50\%\_off\\%`
	if got != want {
		t.Fatalf("searchPattern(%q) = %q, want %q", `50%_off\`, got, want)
	}
}
