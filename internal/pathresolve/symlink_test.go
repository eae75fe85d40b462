package pathresolve

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeReadlink builds a readlinkFn from a map of path -> (target, err).
// Any path not in the map returns syscall.EINVAL (not a symlink).
func fakeReadlink(links map[string]string, missing map[string]error) func(string) (string, error) {
	return func(p string) (string, error) {
		if target, ok := links[p]; ok {
			return target, nil
		}
		if err, ok := missing[p]; ok {
			return "", err
		}
		return "", syscall.EINVAL
	}
}

func TestExpandSymlinks_NoLinks(t *testing.T) {
	rl := fakeReadlink(nil, nil)
	res, err := ExpandSymlinks("a/b/c", false, false, rl)
	require.NoError(t, err)
	require.Equal(t, "a/b/c", res.Checked)
	require.Equal(t, "", res.Trailer)
}

func TestExpandSymlinks_MissingComponentReportsTrailer(t *testing.T) {
	rl := fakeReadlink(nil, map[string]error{
		"a/b": os.ErrNotExist,
	})
	res, err := ExpandSymlinks("a/b/c/d", false, false, rl)
	require.NoError(t, err)
	require.Equal(t, "a", res.Checked)
	require.Equal(t, "b/c/d", res.Trailer)
}

func TestExpandSymlinks_RelativeSymlinkSubstitution(t *testing.T) {
	// a/link -> other, so a/link/c resolves to a/other/c.
	rl := fakeReadlink(map[string]string{
		"a/link": "other",
	}, nil)
	res, err := ExpandSymlinks("a/link/c", false, false, rl)
	require.NoError(t, err)
	require.Equal(t, "a/other/c", res.Checked)
	require.Equal(t, "", res.Trailer)
}

func TestExpandSymlinks_AbsoluteSymlinkTargetSpliced(t *testing.T) {
	// a/link -> /x/y, so a/link/c resolves to /x/y/c (rooted fresh).
	rl := fakeReadlink(map[string]string{
		"a/link": "/x/y",
	}, nil)
	res, err := ExpandSymlinks("a/link/c", false, false, rl)
	require.NoError(t, err)
	require.Equal(t, "/x/y/c", res.Checked)
	require.Equal(t, "", res.Trailer)
}

func TestExpandSymlinks_DotDotPopsComponent(t *testing.T) {
	rl := fakeReadlink(nil, nil)
	res, err := ExpandSymlinks("a/b/../c", false, false, rl)
	require.NoError(t, err)
	require.Equal(t, "a/c", res.Checked)
	require.Equal(t, "", res.Trailer)
}

func TestExpandSymlinks_TooManyLinks(t *testing.T) {
	// A symlink that always resolves to itself-plus-one-component forces
	// the substitution count past MaxLinks without ever terminating.
	calls := 0
	rl := func(p string) (string, error) {
		if p == "loop" {
			calls++
			return "loop/x", nil
		}
		return "", os.ErrInvalid
	}
	_, err := ExpandSymlinks("loop", false, false, rl)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTooManyLinks))
	require.True(t, calls > MaxLinks)
}

func TestExpandSymlinks_NoSymlinkCheckShortCircuit(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))

	called := false
	rl := func(p string) (string, error) {
		called = true
		return "", os.ErrInvalid
	}
	res, err := ExpandSymlinks(full, true, false, rl)
	require.NoError(t, err)
	require.Equal(t, full, res.Checked)
	require.Equal(t, "", res.Trailer)
	require.False(t, called, "readlink should not be consulted when the fast stat succeeds")
}

func TestExpandSymlinks_NoSymlinkCheckFallsThroughWhenMissing(t *testing.T) {
	rl := fakeReadlink(nil, map[string]error{
		"a": os.ErrNotExist,
	})
	res, err := ExpandSymlinks("a/b", true, false, rl)
	require.NoError(t, err)
	require.Equal(t, ".", res.Checked)
	require.Equal(t, "a/b", res.Trailer)
}

func TestExpandSymlinks_TildeMappedKeepsLeadingSlash(t *testing.T) {
	// tildeMapped paths are absolute home directories; the leading slash
	// must not be trimmed before the walk starts.
	rl := fakeReadlink(nil, nil)
	res, err := ExpandSymlinks("/home/bob/pub", false, true, rl)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(res.Checked, "/"))
	require.Equal(t, "/home/bob/pub", res.Checked)
}

func TestPopComponent(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"a", ""},
		{"a/b", "a"},
		{"a/b/c", "a/b"},
		{"/", "/"},
		{"/a", "/"},
	}
	for _, c := range cases {
		if got := popComponent(c.in); got != c.want {
			t.Errorf("popComponent(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
