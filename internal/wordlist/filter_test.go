package wordlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPhrase(t *testing.T) {
	for _, word := range []string{"um", "you know", "y'know"} {
		if !Phrase(word) {
			t.Fatalf("expected %q to be accepted", word)
		}
	}
	for _, word := range []string{"", "Um", "résumé", "a  b", "one two three", "co-op", "'um", "um "} {
		if Phrase(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilterDropsDuplicates(t *testing.T) {
	got := Filter([]string{"um", "uh", "um", "BAD"}, Phrase)
	if len(got) != 2 || got[0] != "um" || got[1] != "uh" {
		t.Fatalf("unexpected filter result %v", got)
	}
}

func TestLoadWordsNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fillers.txt")
	content := "# fillers\nUm\n\n  you   KNOW \n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	words, err := LoadWords(path)
	if err != nil {
		t.Fatalf("LoadWords failed: %v", err)
	}
	if len(words) != 2 || words[0] != "um" || words[1] != "you know" {
		t.Fatalf("unexpected words %v", words)
	}
}
