package main

import (
	"strings"
	"testing"

	"github.com/five82/pokedex/internal/pokeapi"
)

func TestRenderCard(t *testing.T) {
	s := &pokeapi.Summary{
		ID:     25,
		Name:   "pikachu",
		Types:  []string{"electric"},
		Height: 4,
		Weight: 60,
		Stats:  []pokeapi.Stat{{Name: "speed", Value: 90}},
	}
	out := renderCard(s)
	for _, want := range []string{"#025 pikachu", "electric", "0.4 m", "6.0 kg", "speed", "90", "No image"} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCardNil(t *testing.T) {
	if got := renderCard(nil); got != "" {
		t.Fatalf("renderCard(nil) = %q, want empty", got)
	}
}
