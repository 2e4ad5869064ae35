package embed

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Dune", "dune"},
		{"Curación Total", "curacion-total"},
		{"Amélie", "amelie"},
		{"El Niño: La Película!", "el-nino-la-pelicula"},
		{"Spider-Man: No Way Home", "spider-man-no-way-home"},
		{"  double   spaces  ", "double-spaces"},
		{"a -- b", "a-b"},
		{"¿Qué pasó ayer?", "que-paso-ayer"},
		{"100 Años", "100-anos"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.title); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestSlugifyIsIdempotent(t *testing.T) {
	slug := Slugify("Curación Total")
	if Slugify(slug) != slug {
		t.Errorf("Slugify is not idempotent: %q -> %q", slug, Slugify(slug))
	}
}
