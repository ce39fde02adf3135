package track

import (
	"reflect"
	"testing"
)

func TestParseURLParts(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want []string
	}{
		{"host only", "https://example.com", []string{"example.com"}},
		{"host with port", "https://example.com:8080/blog", []string{"example.com", "blog"}},
		{"deep path", "https://example.com/path/to/page", []string{"example.com", "path", "to", "page"}},
		{"trailing slash filtered", "https://example.com/blog/", []string{"example.com", "blog"}},
		{"single-char segments filtered", "https://example.com/a/b/cc", []string{"example.com", "cc"}},
		{"query ignored", "https://example.com/docs?q=1#frag", []string{"example.com", "docs"}},
		{"no host but usable path", "file:///tmp/notes.txt", []string{"tmp", "notes.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseURLParts(tt.url)
			if err != nil {
				t.Fatalf("parseURLParts(%q): %v", tt.url, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseURLParts(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestParseURLPartsErrors(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"no scheme", "not-a-url"},
		{"relative path", "/just/a/path"},
		{"scheme without segments", "file:///"},
		{"short segments only", "https:///a/b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if parts, err := parseURLParts(tt.url); err == nil {
				t.Errorf("parseURLParts(%q) = %v, want error", tt.url, parts)
			}
		})
	}
}
