package merge

import (
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

// Normalize prepares text for merging: line endings become LF and
// trailing whitespace is stripped from every line. The trailing newline
// of the document, if any, survives as a final empty line.
func Normalize(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.Join(lines, "\n")
}

// Text merges two edited versions of a document against their common
// base. It normalizes all three sides, then tries progressively more
// general strategies: a per-line merge when all sides have the same
// line count, a strict disjoint-edit merge, the same with
// newline-carrying lines, and finally an overlap-tolerant merge. The
// second result is false when every strategy fails.
func Text(base, ours, theirs string) (string, bool) {
	base = Normalize(base)
	ours = Normalize(ours)
	theirs = Normalize(theirs)

	if merged, ok := sameShapeMerge(base, ours, theirs); ok {
		return merged, true
	}
	if merged, conflict := lineMerge(base, ours, theirs); !conflict {
		return merged, true
	}
	if merged, ok := disjointMerge(base, ours, theirs); ok {
		return merged, true
	}
	if merged, conflict := overlapMerge(base, ours, theirs); !conflict {
		return merged, true
	}
	return "", false
}

// edit is one replaced range of the base: lines [start,end) become the
// replacement lines. A pure insert has start == end.
type edit struct {
	start, end int
	lines      []string
}

func diffEdits(base, updated []string) []edit {
	matcher := difflib.NewMatcher(base, updated)
	var edits []edit
	for _, op := range matcher.GetOpCodes() {
		if op.Tag == 'e' {
			continue
		}
		edits = append(edits, edit{start: op.I1, end: op.I2, lines: updated[op.J1:op.J2]})
	}
	return edits
}

// editsConflict reports overlapping edits. Identical pure inserts at
// the same position do not conflict; a pure insert at line i touches
// line i.
func editsConflict(ours, theirs []edit) bool {
	for _, o := range ours {
		for _, t := range theirs {
			if o.start == o.end && t.start == t.end && o.start == t.start {
				if !equalLines(o.lines, t.lines) {
					return true
				}
				continue
			}
			if rangesOverlap(o.start, o.end, t.start, t.end) {
				return true
			}
			if o.start == o.end && t.start <= o.start && o.start < t.end {
				return true
			}
			if t.start == t.end && o.start <= t.start && t.start < o.end {
				return true
			}
		}
	}
	return false
}

func rangesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return max(aStart, bStart) < min(aEnd, bEnd)
}

// editsDisjoint reports whether the two edit sets touch different base
// lines entirely. A pure insert at line i counts as touching line i.
func editsDisjoint(ours, theirs []edit) bool {
	changed := func(edits []edit) map[int]bool {
		lines := make(map[int]bool)
		for _, e := range edits {
			if e.start == e.end {
				lines[e.start] = true
				continue
			}
			for i := e.start; i < e.end; i++ {
				lines[i] = true
			}
		}
		return lines
	}
	oursLines := changed(ours)
	for line := range changed(theirs) {
		if oursLines[line] {
			return false
		}
	}
	return true
}

// combineEdits interleaves both edit sets in base order, dropping the
// duplicate of identical pure inserts at the same position.
func combineEdits(ours, theirs []edit) []edit {
	all := make([]edit, 0, len(ours)+len(theirs))
	all = append(all, ours...)
	all = append(all, theirs...)
	sortEdits(all)

	var combined []edit
	for _, e := range all {
		if len(combined) > 0 {
			last := combined[len(combined)-1]
			if e.start == last.start && e.end == last.end && e.start == e.end &&
				equalLines(last.lines, e.lines) {
				continue
			}
		}
		combined = append(combined, e)
	}
	return combined
}

func sortEdits(edits []edit) {
	// Insertion sort keeps the relative order of equal keys, which
	// matters for coinciding inserts from the two sides.
	for i := 1; i < len(edits); i++ {
		for j := i; j > 0; j-- {
			a, b := edits[j-1], edits[j]
			if a.start < b.start || (a.start == b.start && a.end <= b.end) {
				break
			}
			edits[j-1], edits[j] = b, a
		}
	}
}

func applyEdits(base []string, edits []edit) []string {
	var result []string
	cursor := 0
	for _, e := range edits {
		if e.start < cursor {
			continue
		}
		result = append(result, base[cursor:e.start]...)
		result = append(result, e.lines...)
		cursor = e.end
	}
	result = append(result, base[cursor:]...)
	return result
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sameShapeMerge applies when all three sides have the same line count:
// each line takes whichever side changed it. The second result is false
// when the shapes differ or a line changed on both sides.
func sameShapeMerge(base, ours, theirs string) (string, bool) {
	baseLines := splitLines(base)
	oursLines := splitLines(ours)
	theirsLines := splitLines(theirs)
	if len(baseLines) != len(oursLines) || len(baseLines) != len(theirsLines) {
		return "", false
	}

	merged := make([]string, 0, len(baseLines))
	for i := range baseLines {
		b := strings.TrimRightFunc(baseLines[i], unicode.IsSpace)
		o := strings.TrimRightFunc(oursLines[i], unicode.IsSpace)
		t := strings.TrimRightFunc(theirsLines[i], unicode.IsSpace)
		switch {
		case o == t:
			merged = append(merged, oursLines[i])
		case o == b:
			merged = append(merged, theirsLines[i])
		case t == b:
			merged = append(merged, oursLines[i])
		default:
			return "", false
		}
	}
	return strings.Join(merged, "\n") + trailingNewline(base, ours, theirs), true
}

// lineMerge merges strictly disjoint edit sets. The second result is
// true on conflict.
func lineMerge(base, ours, theirs string) (string, bool) {
	baseLines := splitLines(base)
	oursEdits := diffEdits(baseLines, splitLines(ours))
	theirsEdits := diffEdits(baseLines, splitLines(theirs))

	if !editsDisjoint(oursEdits, theirsEdits) {
		return "", true
	}
	merged := applyEdits(baseLines, combineEdits(oursEdits, theirsEdits))
	return strings.Join(merged, "\n") + trailingNewline(base, ours, theirs), false
}

// disjointMerge is lineMerge over newline-carrying lines, which keeps
// the diff sensitive to a missing final newline. It returns false when
// the edits are not disjoint.
func disjointMerge(base, ours, theirs string) (string, bool) {
	baseLines := splitKeepEnds(base)
	oursEdits := diffEdits(baseLines, splitKeepEnds(ours))
	theirsEdits := diffEdits(baseLines, splitKeepEnds(theirs))

	if !editsDisjoint(oursEdits, theirsEdits) {
		return "", false
	}
	merged := applyEdits(baseLines, combineEdits(oursEdits, theirsEdits))
	return strings.Join(merged, ""), true
}

// overlapMerge is the most permissive strategy: edits may touch
// adjacent lines as long as they do not overlap, and coinciding
// identical inserts collapse. The second result is true on conflict.
func overlapMerge(base, ours, theirs string) (string, bool) {
	if ours == theirs {
		return ours, false
	}
	if ours == base {
		return theirs, false
	}
	if theirs == base {
		return ours, false
	}

	baseLines := splitKeepEnds(base)
	oursLines := splitKeepEnds(ours)
	theirsLines := splitKeepEnds(theirs)

	if len(baseLines) == len(oursLines) && len(baseLines) == len(theirsLines) {
		merged := make([]string, 0, len(baseLines))
		for i := range baseLines {
			switch {
			case oursLines[i] == theirsLines[i]:
				merged = append(merged, oursLines[i])
			case oursLines[i] == baseLines[i]:
				merged = append(merged, theirsLines[i])
			case theirsLines[i] == baseLines[i]:
				merged = append(merged, oursLines[i])
			default:
				merged = nil
			}
			if merged == nil {
				break
			}
		}
		if len(merged) > 0 {
			return strings.Join(merged, ""), false
		}
	}

	oursEdits := diffEdits(baseLines, oursLines)
	theirsEdits := diffEdits(baseLines, theirsLines)

	if editsConflict(oursEdits, theirsEdits) && !editsDisjoint(oursEdits, theirsEdits) {
		return "", true
	}
	merged := applyEdits(baseLines, combineEdits(oursEdits, theirsEdits))
	return strings.Join(merged, ""), false
}

// splitLines splits on newlines without a trailing empty element, so
// "a\nb\n" and "a\nb" both yield two lines and "" yields none.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// splitKeepEnds splits into lines that keep their trailing newline; the
// final line carries none when the text does not end with one.
func splitKeepEnds(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func trailingNewline(base, ours, theirs string) string {
	if strings.HasSuffix(base, "\n") || strings.HasSuffix(ours, "\n") || strings.HasSuffix(theirs, "\n") {
		return "\n"
	}
	return ""
}
