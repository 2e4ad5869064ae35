package httputil

import "testing"

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com/path", false},
		{"https://example.com", false},
		{"http://example.com", true},
		{"ftp://example.com", true},
		{"https://", true},
		{"not a url\x7f", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateURL(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

func TestHostAllowed(t *testing.T) {
	domains := []string{"streamwish.to", "voe.sx"}

	tests := []struct {
		url  string
		want bool
	}{
		{"https://streamwish.to/e/abc", true},
		{"https://cdn.streamwish.to/e/abc", true},
		{"https://STREAMWISH.TO/e/abc", true},
		{"https://voe.sx/v/1", true},
		{"https://evilstreamwish.to/e/abc", false},
		{"https://streamwish.to.evil.com/e/abc", false},
		{"http://streamwish.to/e/abc", false},
		{"https://example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := HostAllowed(tt.url, domains); got != tt.want {
			t.Errorf("HostAllowed(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://host.example.com", []string{"peliculas", "Dune (2021)"}, "https://host.example.com/peliculas/Dune%20(2021)"},
		{"https://host.example.com/", []string{"series", "Dark", "Season 1"}, "https://host.example.com/series/Dark/Season%201"},
		{"https://host.example.com", nil, "https://host.example.com"},
		{"https://host.example.com", []string{"a/b"}, "https://host.example.com/a%2Fb"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}
