package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/wikivault/wikivault/internal/types"
)

func TestExitCodeByErrorKind(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{types.ValidationErrorf("bad input"), 2},
		{types.NotFoundErrorf("missing"), 3},
		{types.PermissionErrorf("denied"), 4},
		{errors.New("plain failure"), 1},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func newContentFlagCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("content", "", "")
	cmd.Flags().String("content-file", "", "")
	return cmd
}

func TestContentFromFlags(t *testing.T) {
	cmd := newContentFlagCmd()
	if got, err := contentFromFlags(cmd); err != nil || got != "" {
		t.Errorf("no flags = (%q, %v), want empty", got, err)
	}

	cmd = newContentFlagCmd()
	if err := cmd.Flags().Set("content", "inline body"); err != nil {
		t.Fatal(err)
	}
	if got, _ := contentFromFlags(cmd); got != "inline body" {
		t.Errorf("content flag = %q", got)
	}

	path := filepath.Join(t.TempDir(), "page.md")
	if err := os.WriteFile(path, []byte("# From file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cmd = newContentFlagCmd()
	if err := cmd.Flags().Set("content-file", path); err != nil {
		t.Fatal(err)
	}
	if got, err := contentFromFlags(cmd); err != nil || got != "# From file\n" {
		t.Errorf("content-file = (%q, %v)", got, err)
	}

	cmd = newContentFlagCmd()
	if err := cmd.Flags().Set("content-file", filepath.Join(t.TempDir(), "absent.md")); err != nil {
		t.Fatal(err)
	}
	if _, err := contentFromFlags(cmd); err == nil {
		t.Error("missing content file should error")
	}
}
