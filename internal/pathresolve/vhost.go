package pathresolve

import "strings"

// vhostExemptPrefixes are shared top-level paths excluded from vhost
// prefixing (spec §4.4.3).
var vhostExemptPrefixes = []string{"icons/", "cgi-bin/"}

// VhostHostname chooses the hostname source with the precedence spec §4.4.3
// requires: absolute-form host ▸ Host header ▸ stringified local address.
func VhostHostname(absoluteHost, hostHeader, localAddr string) string {
	h := absoluteHost
	if h == "" {
		h = hostHeader
	}
	if h == "" {
		h = localAddr
	}
	return asciiLower(h)
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// VhostDir computes the hostdir prefix for a hostname, interleaving the
// first dirLevels characters of the (www.-stripped) hostname as
// intermediate directories when dirLevels > 0, else using the whole
// hostname as a single directory component.
func VhostDir(hostname string, dirLevels int) string {
	h := strings.TrimPrefix(hostname, "www.")
	if dirLevels <= 0 {
		return h
	}
	var parts []string
	for i := 0; i < dirLevels && i < len(h); i++ {
		parts = append(parts, string(h[i]))
	}
	parts = append(parts, h)
	return strings.Join(parts, "/")
}

// VhostExempt reports whether filename begins with a shared prefix that
// should never be vhost-prefixed (e.g. "icons/", "cgi-bin/").
func VhostExempt(filename string) bool {
	for _, p := range vhostExemptPrefixes {
		if strings.HasPrefix(filename, p) {
			return true
		}
	}
	return false
}

// ApplyVhost prepends hostdir to filename unless the request was tilde-
// mapped or the filename matches an exempt shared prefix (spec §4.4.3).
func ApplyVhost(filename, hostdir string, tildeMapped bool) string {
	if tildeMapped || hostdir == "" || VhostExempt(filename) {
		return filename
	}
	if filename == "." || filename == "" {
		return hostdir
	}
	return hostdir + "/" + filename
}
