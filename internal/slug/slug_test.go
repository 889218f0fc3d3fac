package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Getting Started", "getting-started"},
		{"FAQ & Troubleshooting", "faq-troubleshooting"},
		{"  spaced   out  ", "spaced-out"},
		{"already-sluggish", "already-sluggish"},
		{"Ünïcode Tïtle", "ünïcode-tïtle"},
		{"???", "untitled"},
		{"", "untitled"},
		{"v2.0 Release Notes", "v2-0-release-notes"},
	}
	for _, tc := range cases {
		if got := Make(tc.in); got != tc.want {
			t.Errorf("Make(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
