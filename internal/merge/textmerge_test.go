package merge

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a\r\nb\r\n", "a\nb\n"},
		{"a\rb", "a\nb"},
		{"a  \nb\t\n", "a\nb\n"},
		{"", ""},
		{"plain", "plain"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTextIdenticalEdits(t *testing.T) {
	base := "one\ntwo\nthree\n"
	edit := "one\nTWO\nthree\n"
	got, ok := Text(base, edit, edit)
	if !ok || got != edit {
		t.Fatalf("Text = %q, %v; want %q", got, ok, edit)
	}
}

func TestTextEqualLineCount(t *testing.T) {
	base := "alpha\nbeta\ngamma\n"
	ours := "ALPHA\nbeta\ngamma\n"
	theirs := "alpha\nbeta\nGAMMA\n"
	got, ok := Text(base, ours, theirs)
	if !ok {
		t.Fatal("equal-line-count edits should merge")
	}
	if got != "ALPHA\nbeta\nGAMMA\n" {
		t.Fatalf("Text = %q", got)
	}
}

func TestTextInsertionsAtDifferentPoints(t *testing.T) {
	base := "one\ntwo\nthree\nfour\nfive\nsix\n"
	ours := "zero\none\ntwo\nthree\nfour\nfive\nsix\n"
	theirs := "one\ntwo\nthree\nfour\nfive\nsix\nseven\n"
	got, ok := Text(base, ours, theirs)
	if !ok {
		t.Fatal("edits at opposite ends should merge")
	}
	want := "zero\none\ntwo\nthree\nfour\nfive\nsix\nseven\n"
	if got != want {
		t.Fatalf("Text = %q, want %q", got, want)
	}
}

func TestTextSameLineConflict(t *testing.T) {
	base := "one\ntwo\nthree\n"
	ours := "one\nOURS\nthree\n"
	theirs := "one\nTHEIRS\nthree\n"
	if _, ok := Text(base, ours, theirs); ok {
		t.Fatal("same-line divergent edits should conflict")
	}
}

func TestTextIdenticalInsertAtSamePoint(t *testing.T) {
	base := "one\ntwo\n"
	edited := "one\nmiddle\ntwo\n"
	got, ok := Text(base, edited, edited)
	if !ok || got != edited {
		t.Fatalf("Text = %q, %v; want %q", got, ok, edited)
	}
}

func TestTextDivergentInsertAtSamePoint(t *testing.T) {
	base := "one\ntwo\n"
	ours := "one\nOURS\ntwo\n"
	theirs := "one\nTHEIRS\ntwo\n"
	if _, ok := Text(base, ours, theirs); ok {
		t.Fatal("divergent inserts at same point should conflict")
	}
}

func TestTextNormalizesBeforeComparing(t *testing.T) {
	base := "one\ntwo\n"
	ours := "one  \r\ntwo\r\n"
	theirs := "one\ntwo updated\n"
	got, ok := Text(base, ours, theirs)
	if !ok {
		t.Fatal("whitespace-only divergence should not conflict")
	}
	if got != "one\ntwo updated\n" {
		t.Fatalf("Text = %q", got)
	}
}

func TestTextDeleteVsEditDisjoint(t *testing.T) {
	base := "one\ntwo\nthree\nfour\n"
	ours := "two\nthree\nfour\n"
	theirs := "one\ntwo\nthree\nFOUR\n"
	got, ok := Text(base, ours, theirs)
	if !ok {
		t.Fatal("disjoint delete and edit should merge")
	}
	if got != "two\nthree\nFOUR\n" {
		t.Fatalf("Text = %q", got)
	}
}

func TestSplitLines(t *testing.T) {
	if got := splitLines("a\nb\n"); len(got) != 2 {
		t.Fatalf("splitLines(a\\nb\\n) = %v", got)
	}
	if got := splitLines("a\nb"); len(got) != 2 {
		t.Fatalf("splitLines(a\\nb) = %v", got)
	}
	if got := splitLines(""); len(got) != 0 {
		t.Fatalf("splitLines(empty) = %v", got)
	}
}

func TestSplitKeepEnds(t *testing.T) {
	got := splitKeepEnds("a\nb")
	if len(got) != 2 || got[0] != "a\n" || got[1] != "b" {
		t.Fatalf("splitKeepEnds(a\\nb) = %v", got)
	}
	got = splitKeepEnds("a\nb\n")
	if len(got) != 2 || got[1] != "b\n" {
		t.Fatalf("splitKeepEnds(a\\nb\\n) = %v", got)
	}
}

func TestApplyEdits(t *testing.T) {
	base := []string{"one", "two", "three"}
	edits := []edit{
		{start: 0, end: 1, lines: []string{"ONE"}},
		{start: 2, end: 3, lines: []string{"THREE", "FOUR"}},
	}
	got := applyEdits(base, edits)
	want := []string{"ONE", "two", "THREE", "FOUR"}
	if !equalLines(got, want) {
		t.Fatalf("applyEdits = %v, want %v", got, want)
	}
}
