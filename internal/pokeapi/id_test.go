package pokeapi

import "testing"

func TestExtractID(t *testing.T) {
	tests := []struct {
		url    string
		want   int
		wantOK bool
	}{
		{"https://pokeapi.co/api/v2/pokemon/25/", 25, true},
		{"https://pokeapi.co/api/v2/pokemon/1302", 1302, true},
		{"https://pokeapi.co/api/v2/pokemon/pikachu/", 0, false},
		{"https://pokeapi.co/api/v2/pokemon/0/", 0, false},
		{"https://pokeapi.co/api/v2/pokemon-species/25/", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := ExtractID(tt.url)
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("ExtractID(%q) = %d,%v want %d,%v", tt.url, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestListRefID(t *testing.T) {
	ref := ListRef{Name: "ivysaur", URL: "https://pokeapi.co/api/v2/pokemon/2/"}
	if id, ok := ref.ID(); !ok || id != 2 {
		t.Fatalf("ID() = %d,%v want 2,true", id, ok)
	}
}
