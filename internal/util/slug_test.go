package util

import (
	"context"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple title",
			input:    "Hello World",
			expected: "hello-world",
		},
		{
			name:     "with special characters",
			input:    "Hello, World!",
			expected: "hello-world",
		},
		{
			name:     "with numbers",
			input:    "NPK 20-20-20",
			expected: "npk-20-20-20",
		},
		{
			name:     "with accents",
			input:    "Café résumé",
			expected: "cafe-resume",
		},
		{
			name:     "with multiple spaces",
			input:    "Hello   World",
			expected: "hello-world",
		},
		{
			name:     "with leading/trailing spaces",
			input:    "  Tomato  ",
			expected: "tomato",
		},
		{
			name:     "arabic name transliterated",
			input:    "طماطم",
			expected: "tmatm",
		},
		{
			name:     "german umlauts",
			input:    "Über München",
			expected: "uber-munchen",
		},
		{
			name:     "all special characters",
			input:    "!@#$%^*()",
			expected: "",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"tomato", true},
		{"tomato-2", true},
		{"npk-20-20-20", true},
		{"", false},
		{"-tomato", false},
		{"tomato-", false},
		{"to--mato", false},
		{"Tomato", false},
		{"tom ato", false},
	}

	for _, tt := range tests {
		if got := IsValidSlug(tt.input); got != tt.want {
			t.Errorf("IsValidSlug(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestUniqueSlug(t *testing.T) {
	ctx := context.Background()

	t.Run("free base returned unsuffixed", func(t *testing.T) {
		exists := func(ctx context.Context, slug string) (bool, error) { return false, nil }
		got, err := UniqueSlug(ctx, "Tomato", exists)
		if err != nil {
			t.Fatal(err)
		}
		if got != "tomato" {
			t.Errorf("got %q, want %q", got, "tomato")
		}
	})

	t.Run("collision appends numeric suffix", func(t *testing.T) {
		taken := map[string]bool{"tomato": true, "tomato-2": true}
		exists := func(ctx context.Context, slug string) (bool, error) { return taken[slug], nil }
		got, err := UniqueSlug(ctx, "Tomato", exists)
		if err != nil {
			t.Fatal(err)
		}
		if got != "tomato-3" {
			t.Errorf("got %q, want %q", got, "tomato-3")
		}
	})

	t.Run("explicit valid slug kept verbatim", func(t *testing.T) {
		exists := func(ctx context.Context, slug string) (bool, error) { return false, nil }
		got, err := UniqueSlug(ctx, "winter-wheat", exists)
		if err != nil {
			t.Fatal(err)
		}
		if got != "winter-wheat" {
			t.Errorf("got %q, want %q", got, "winter-wheat")
		}
	})

	t.Run("unsluggable base falls back to item", func(t *testing.T) {
		exists := func(ctx context.Context, slug string) (bool, error) { return false, nil }
		got, err := UniqueSlug(ctx, "!!!", exists)
		if err != nil {
			t.Fatal(err)
		}
		if got != "item" {
			t.Errorf("got %q, want %q", got, "item")
		}
	})
}
