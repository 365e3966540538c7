package handlers

import (
	"strings"
	"testing"
)

// TestNormalizeSlug проверяет нормализацию пользовательского слага.
func TestNormalizeSlug(t *testing.T) {
	cases := map[string]string{
		"  Family Trip  ": "family-trip",
		"flat_42":         "flat-42",
		"Уют":             "",
		"--dash--":        "dash",
		"MiXeD-Case":      "mixed-case",
	}

	for input, want := range cases {
		if got := normalizeSlug(input); got != want {
			t.Fatalf("normalizeSlug(%q) = %q, want %q", input, got, want)
		}
	}
}

// TestGenerateSlug проверяет длину и алфавит сгенерированного слага.
func TestGenerateSlug(t *testing.T) {
	slug, err := generateSlug(8)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(slug) != 8 {
		t.Fatalf("expected slug of length 8, got %q", slug)
	}

	for _, r := range slug {
		if !strings.ContainsRune(slugAlphabet, r) {
			t.Fatalf("slug %q contains unexpected rune %q", slug, r)
		}
	}
}

// TestResolveSlugCustom проверяет, что заданный слаг нормализуется, а пустой отклоняется.
func TestResolveSlugCustom(t *testing.T) {
	h := &RoomHandler{SlugLength: 8}

	custom := "My Room"
	slug, err := h.resolveSlug(&custom)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if slug != "my-room" {
		t.Fatalf("unexpected slug: %q", slug)
	}

	empty := "###"
	if _, err := h.resolveSlug(&empty); err == nil {
		t.Fatal("expected error for slug without letters or digits")
	}

	generated, err := h.resolveSlug(nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(generated) != 8 {
		t.Fatalf("expected generated slug of length 8, got %q", generated)
	}
}
