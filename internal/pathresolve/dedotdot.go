// Package pathresolve implements URL-to-filesystem resolution: dot-segment
// canonicalisation, tilde and vhost mapping, symlink expansion with
// path-info splitting, and document-root containment (spec §4.4).
package pathresolve

import "strings"

// Dedotdot collapses "//" runs, strips a leading "/", removes leading "./"
// and embedded "/./" sequences, and alternates between stripping leading
// "../" and collapsing "xxx/../" against its rightmost neighbour, finally
// eliding one trailing "xxx/..". It is a direct port of thttpd's de_dotdot,
// not path.Clean: path.Clean normalizes leading ".." differently and does
// not converge to the same fixed point this server's P1 invariant requires.
func Dedotdot(file string) string {
	// Collapse any multiple / sequences.
	for {
		idx := strings.Index(file, "//")
		if idx < 0 {
			break
		}
		j := idx + 2
		for j < len(file) && file[j] == '/' {
			j++
		}
		file = file[:idx+1] + file[j:]
	}

	// Collapse a single leading /.
	if strings.HasPrefix(file, "/") {
		file = file[1:]
	}

	// Remove leading ./ and any /./ sequences.
	for strings.HasPrefix(file, "./") {
		file = file[2:]
	}
	for {
		idx := strings.Index(file, "/./")
		if idx < 0 {
			break
		}
		file = file[:idx] + file[idx+2:]
	}

	// Alternate between removing leading ../ and removing xxx/../.
	for {
		for strings.HasPrefix(file, "../") {
			file = file[3:]
		}
		idx := strings.Index(file, "/../")
		if idx < 0 {
			break
		}
		left := idx - 1
		for left >= 0 && file[left] != '/' {
			left--
		}
		file = file[:left+1] + file[idx+4:]
	}

	// Elide any trailing xxx/..
	for {
		l := len(file)
		if l <= 3 || file[l-3:] != "/.." {
			break
		}
		left := l - 4
		for left >= 0 && file[left] != '/' {
			left--
		}
		if left < 0 {
			break
		}
		file = file[:left]
	}

	return file
}
