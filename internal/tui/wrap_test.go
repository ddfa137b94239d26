package tui

import (
	"reflect"
	"testing"
)

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	got := wrapText("the quick brown fox jumps", 10)
	want := []string{"the quick", "brown fox", "jumps"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWrapTextSplitsLongWords(t *testing.T) {
	got := wrapText("abcdefghij kl", 4)
	want := []string{"abcd", "efgh", "ij", "kl"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWrapTextCollapsesWhitespace(t *testing.T) {
	got := wrapText("  one\ntwo   three ", 20)
	if !reflect.DeepEqual(got, []string{"one two three"}) {
		t.Fatalf("unexpected %q", got)
	}
	if got := wrapText("", 5); !reflect.DeepEqual(got, []string{""}) {
		t.Fatalf("unexpected empty wrap %q", got)
	}
}

func TestWrapTextWideRunes(t *testing.T) {
	got := wrapText("日本語 テキスト", 6)
	want := []string{"日本語", "テキス", "ト"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("unexpected truncate %q", got)
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Fatalf("expected no truncation, got %q", got)
	}
}
