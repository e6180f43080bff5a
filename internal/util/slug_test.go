package util

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"punctuation", "Hello, World!", "hello-world"},
		{"accents", "Café au Lait", "cafe-au-lait"},
		{"mixed case", "My First POST", "my-first-post"},
		{"numbers", "Top 10 Tips", "top-10-tips"},
		{"punctuation runs", "a -- b ?! c", "a-b-c"},
		{"leading trailing", "  !Hello!  ", "hello"},
		{"cyrillic", "Привет мир", "privet-mir"},
		{"german sharp s", "Straße", "strasse"},
		{"only symbols", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSlugifyProperties(t *testing.T) {
	// Any title with at least one alphanumeric character must produce a
	// non-empty slug with no leading/trailing or doubled separators.
	titles := []string{
		"Hello, World!",
		"a",
		"1 2 3",
		"Ünïcödé Tïtlé",
		"--edge--case--",
		"Заголовок статьи",
	}

	for _, title := range titles {
		slug := Slugify(title)
		if slug == "" {
			t.Errorf("Slugify(%q) = empty, want non-empty", title)
			continue
		}
		if !IsValidSlug(slug) {
			t.Errorf("Slugify(%q) = %q, not a valid slug", title, slug)
		}
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"hello", "hello-world", "top-10", "a"}
	for _, s := range valid {
		if !IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "Hello", "hello world", "-hello", "hello-", "a--b", "héllo"}
	for _, s := range invalid {
		if IsValidSlug(s) {
			t.Errorf("IsValidSlug(%q) = true, want false", s)
		}
	}
}
