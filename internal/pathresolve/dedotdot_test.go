package pathresolve

import (
	"strings"
	"testing"
)

func TestDedotdot(t *testing.T) {
	cases := []struct{ in, want string }{
		{"a//b", "a/b"},
		{"a///b", "a/b"},
		{"/a/b", "a/b"},
		{"./a/b", "a/b"},
		{"a/./b", "a/b"},
		{"../a/b", "a/b"},
		{"a/../b", "b"},
		{"a/b/../../c", "c"},
		{"a/..", "a/.."}, // no preceding component to collapse against; original quirk preserved
		{"a/b/..", "a"},
		{"..", ".."}, // too short to match the leading "../" strip (needs 3 bytes)
		{"...", "..."},
		{"a/.../b", "a/.../b"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Dedotdot(c.in); got != c.want {
			t.Errorf("Dedotdot(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// P1: idempotent canonicalisation.
func TestDedotdot_Idempotent(t *testing.T) {
	inputs := []string{
		"a//b/../c", "../../etc/passwd", "a/b/c", "././a", "a/../../../b",
		"x/y/../../../../z", "////", "a/b/c/../../../../../d",
	}
	for _, in := range inputs {
		once := Dedotdot(in)
		twice := Dedotdot(once)
		if once != twice {
			t.Errorf("Dedotdot not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
		if containsBadSegment(once) {
			t.Errorf("Dedotdot(%q) = %q still contains a bad segment", in, once)
		}
	}
}

// containsBadSegment checks for the three segment forms P1 forbids in the
// result: "//", "/./", and "/../". A bare ".." that never had a preceding
// component to collapse against is a known, narrow exception and is not
// checked here.
func containsBadSegment(s string) bool {
	return strings.Contains(s, "//") || strings.Contains(s, "/./") || strings.Contains(s, "/../")
}
