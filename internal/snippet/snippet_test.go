package snippet

import (
	"strings"
	"testing"
)

func TestSplit_EmptyInput(t *testing.T) {
	if got := Split("", DefaultOptions()); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := Split("   \n  ", DefaultOptions()); got != nil {
		t.Errorf("expected nil for whitespace, got %v", got)
	}
}

func TestSplit_ShortText(t *testing.T) {
	text := "i live in oslo and work as a nurse."
	got := Split(text, DefaultOptions())
	if len(got) != 1 {
		t.Fatalf("expected 1 snippet, got %d", len(got))
	}
	if got[0] != text {
		t.Errorf("expected %q, got %q", text, got[0])
	}
}

func TestSplit_LongTextOnSentences(t *testing.T) {
	sentence := "we talked about the trip to the mountains for a long while."
	text := strings.TrimSpace(strings.Repeat(sentence+" ", 20))

	got := Split(text, DefaultOptions())
	if len(got) < 2 {
		t.Fatalf("expected multiple snippets, got %d", len(got))
	}
	for i, s := range got {
		if len(s) > DefaultMaxSize {
			t.Errorf("snippet %d exceeds max size: %d chars", i, len(s))
		}
		if !strings.HasPrefix(s, "we talked") {
			t.Errorf("snippet %d broke a sentence: %q", i, s[:min(40, len(s))])
		}
	}
}

func TestSplit_HardSplitsOversizedSentence(t *testing.T) {
	// One giant run-on with no terminal punctuation.
	text := strings.TrimSpace(strings.Repeat("word ", 300))
	opts := Options{TargetSize: 100, MinSize: 20, MaxSize: 150}

	got := Split(text, opts)
	if len(got) < 2 {
		t.Fatalf("expected multiple snippets, got %d", len(got))
	}
	for i, s := range got {
		if len(s) > opts.MaxSize {
			t.Errorf("snippet %d exceeds max size: %d", i, len(s))
		}
	}
}

func TestSplit_FoldsTinyTrailingFragment(t *testing.T) {
	long := strings.Repeat("a solid sentence with enough words in it. ", 14)
	text := strings.TrimSpace(long) + " ok."

	got := Split(text, DefaultOptions())
	last := got[len(got)-1]
	if len(last) < DefaultMinSize {
		t.Errorf("trailing snippet below min size: %q", last)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
