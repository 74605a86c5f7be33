package repl

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/zinclang/zinc/sema"
)

func testModel(t *testing.T) model {
	t.Helper()

	reg := sema.NewRegistry()

	err := reg.Register(sema.Descriptor{
		Kind: sema.TypeEnum,
		Name: "Color",
		Variants: []sema.VariantSpec{
			{Name: "Red"}, {Name: "Green"}, {Name: "Blue"},
		},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	reg.Freeze()

	analyzer, err := sema.New(reg)
	if err != nil {
		t.Fatalf("new analyzer: %v", err)
	}

	history := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	return newModel(context.Background(), analyzer, history)
}

func TestWordBounds(t *testing.T) {
	tests := []struct {
		input  string
		cursor int
		word   string
		start  int
		end    int
	}{
		{"let co", 6, "co", 4, 6},
		{"let count: i32", 7, "count", 4, 9},
		{"x = y", 4, "y", 4, 5},
		{"let ", 4, "", 4, 4},
		{"", 0, "", 0, 0},
	}

	for _, tt := range tests {
		word, start, end := wordBounds(tt.input, tt.cursor)
		if word != tt.word || start != tt.start || end != tt.end {
			t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
				tt.input, tt.cursor, word, start, end,
				tt.word, tt.start, tt.end)
		}
	}
}

func TestCandidateList_Commands(t *testing.T) {
	m := testModel(t)

	got := m.candidateList(":he")
	if !slices.Equal(got, ctrlCommands) {
		t.Errorf("command candidates = %v, want %v", got, ctrlCommands)
	}
}

func TestCandidateList_NamesAndTypes(t *testing.T) {
	m := testModel(t)

	ev := sema.Event{
		Kind:  sema.EventDeclare,
		Pos:   testPos,
		Name:  "counter",
		Type:  sema.NamedType("i32"),
		Class: sema.Mutable,
	}
	if err := m.analyzer.Process(ev); err != nil {
		t.Fatalf("process: %v", err)
	}

	got := m.candidateList("let x: Col")

	for _, want := range []string{"counter", "Color", "i32", "let", "lock"} {
		if !slices.Contains(got, want) {
			t.Errorf("candidates missing %q: %v", want, got)
		}
	}
}

func TestComputeMatches(t *testing.T) {
	m := testModel(t)

	m.input.SetValue("let x: Colr")
	m.input.SetCursor(11)

	matches, start, end := m.computeMatches()
	if len(matches) == 0 {
		t.Fatal("no matches for misspelled type name")
	}

	if matches[0].Str != "Color" {
		t.Errorf("best match = %q, want Color", matches[0].Str)
	}

	if start != 7 || end != 11 {
		t.Errorf("word bounds = (%d, %d), want (7, 11)", start, end)
	}
}

func TestComputeMatches_EmptyWord(t *testing.T) {
	m := testModel(t)

	m.input.SetValue("let ")
	m.input.SetCursor(4)

	matches, _, _ := m.computeMatches()
	if len(matches) != 0 {
		t.Errorf("empty word produced %d matches", len(matches))
	}
}

func TestHistory_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), baseHistory)

	h := NewHistory(path)

	for _, line := range []string{"let x: i32 = 1", "x = 2", "x = 2"} {
		if _, err := h.Write(line); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	// Consecutive duplicate collapsed.
	if h.Len() != 2 {
		t.Fatalf("history length = %d, want 2", h.Len())
	}

	// Reload from disk.
	h2 := NewHistory(path)
	if err := h2.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	if h2.Len() != 2 {
		t.Fatalf("reloaded length = %d, want 2", h2.Len())
	}

	line, err := h2.GetLine(0)
	if err != nil || line != "let x: i32 = 1" {
		t.Errorf("GetLine(0) = %q, %v", line, err)
	}

	if _, err := h2.GetLine(5); err == nil {
		t.Error("out-of-range GetLine did not fail")
	}
}
