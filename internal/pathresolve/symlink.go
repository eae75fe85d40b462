package pathresolve

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
)

// MaxLinks bounds the total number of symlink substitutions performed
// during expansion (spec §4.4.4: "Maximum total link substitutions ≤ MAX_LINKS").
const MaxLinks = 32

// ErrTooManyLinks is returned when expansion exceeds MaxLinks substitutions.
var ErrTooManyLinks = fmt.Errorf("pathresolve: too many symlinks")

// Result is the outcome of ExpandSymlinks: the fully-expanded, existing
// prefix (Checked) and the unresolved remainder (Trailer), which becomes
// path-info for CGI or a 404 trigger for static files.
type Result struct {
	Checked string
	Trailer string
}

// ExpandSymlinks walks path component by component, substituting symlink
// targets as they're encountered, and reports the longest existing prefix
// plus any trailing path-info. It ports thttpd's expand_symlinks two-cursor
// (checked/rest) algorithm (spec §4.4.4); filepath.EvalSymlinks cannot be
// used since it has no way to report a trailing non-existent tail or to
// bound the substitution count.
//
// readlinkFn is injected for testability; production callers pass os.Readlink.
func ExpandSymlinks(path string, noSymlinkCheck, tildeMapped bool, readlinkFn func(string) (string, error)) (*Result, error) {
	if readlinkFn == nil {
		readlinkFn = os.Readlink
	}

	if noSymlinkCheck {
		if _, err := os.Stat(path); err == nil {
			checked := strings.TrimRight(path, "/")
			return &Result{Checked: checked, Trailer: ""}, nil
		}
		// Fall through to the full walk so unresolved trailers still work.
	}

	rest := path
	if !tildeMapped {
		rest = strings.TrimLeft(rest, "/")
	}
	checked := ""
	nlinks := 0

	for len(rest) > 0 {
		prevChecked := checked
		prevRest := rest

		var component string
		if slash := strings.IndexByte(rest, '/'); slash >= 0 {
			component = rest[:slash]
			rest = rest[slash+1:]
		} else {
			component = rest
			rest = ""
		}

		switch component {
		case "":
			// Leading slash spliced in by an absolute symlink target: append
			// a literal "/" byte, same as thttpd's i==0 special case.
			checked += "/"
		case "..":
			checked = popComponent(checked)
		default:
			if checked != "" && !strings.HasSuffix(checked, "/") {
				checked += "/"
			}
			checked += component
		}

		if checked == "" {
			continue
		}

		target, err := readlinkFn(checked)
		if err != nil {
			if isNotSymlink(err) {
				continue
			}
			if isMissingComponent(err) {
				trailer := prevRest
				restored := prevChecked
				if restored == "" {
					restored = "."
				}
				return &Result{Checked: restored, Trailer: trailer}, nil
			}
			return nil, fmt.Errorf("pathresolve: readlink %s: %w", checked, err)
		}

		nlinks++
		if nlinks > MaxLinks {
			return nil, ErrTooManyLinks
		}

		target = strings.TrimSuffix(target, "/")
		if rest != "" {
			rest = target + "/" + rest
		} else {
			rest = target
		}

		if strings.HasPrefix(rest, "/") {
			checked = ""
		} else {
			checked = prevChecked
		}
	}

	if checked == "" {
		checked = "."
	}
	return &Result{Checked: checked, Trailer: ""}, nil
}

// popComponent removes the last "/"-delimited component from checked,
// never popping past index 0 (spec §4.4.4).
func popComponent(checked string) string {
	if checked == "" {
		return checked
	}
	idx := strings.LastIndexByte(checked, '/')
	if idx < 0 {
		return ""
	}
	if idx == 0 {
		return checked[:1]
	}
	return checked[:idx]
}

// isNotSymlink reports the EINVAL case: the component exists but is not a
// symlink, so the walk simply continues (spec §4.4.4).
func isNotSymlink(err error) bool {
	return errors.Is(err, syscall.EINVAL)
}

// isMissingComponent reports the EACCES/ENOENT/ENOTDIR case: the component
// does not exist, so the walk stops and reports a path-info trailer.
func isMissingComponent(err error) bool {
	return errors.Is(err, syscall.ENOENT) || errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.ENOTDIR) ||
		os.IsNotExist(err) || os.IsPermission(err)
}
