// Package referer implements the referer-based hotlink guard of spec §4.10:
// a request is rejected with 403 when it carries a non-empty, non-local
// Referer header for a URL matching the configured url_pattern, grounded on
// libhttpd.c's check_referer/really_check_referer.
package referer

import (
	"path"
	"strings"
)

// Config is the subset of server configuration the guard needs.
type Config struct {
	// URLPattern is a path.Match glob; referer checking is disabled
	// entirely when it's empty (spec §4.10: "Are we doing referer
	// checking at all?").
	URLPattern string

	// LocalPattern, if set, overrides the single-hostname comparison with
	// a glob that may match several local/allowed hostnames.
	LocalPattern string

	// VHost selects which "local hostname" really_check_referer compares
	// against: the connection's Host: header when true, the server's
	// canonical hostname otherwise.
	VHost bool

	// ServerHostname is the canonical hostname used when VHost is false.
	ServerHostname string

	// NoEmptyReferers disallows requests with no Referer header for URLs
	// matching URLPattern (instead of the default fail-open behavior); other
	// URLs are not affected.
	NoEmptyReferers bool
}

// Check reports whether the request is allowed to proceed. origFilename is
// the pre-expansion request path (hc->origfilename in the original);
// connHostname is the Host: header value for this connection, used only
// when cfg.VHost is true.
func Check(cfg Config, origFilename, referer, connHostname string) bool {
	if cfg.URLPattern == "" {
		return true
	}
	return reallyCheck(cfg, origFilename, referer, connHostname)
}

func reallyCheck(cfg Config, origFilename, referer, connHostname string) bool {
	idx := strings.Index(referer, "//")
	if referer == "" || idx < 0 {
		if cfg.NoEmptyReferers && matches(cfg.URLPattern, origFilename) {
			return false
		}
		return true
	}

	refHost := extractRefererHost(referer, idx)

	localPattern := cfg.LocalPattern
	if localPattern == "" {
		if !cfg.VHost {
			if cfg.ServerHostname == "" {
				return true
			}
			localPattern = cfg.ServerHostname
		} else {
			if connHostname == "" {
				return true
			}
			localPattern = connHostname
		}
	}

	if !matches(localPattern, refHost) && matches(cfg.URLPattern, origFilename) {
		return false
	}
	return true
}

// extractRefererHost pulls the host out of a Referer value, starting two
// bytes past the "//" at slashIdx and stopping at the next "/" or ":", then
// lowercases it (ASCII only, matching the original's isupper/tolower loop).
func extractRefererHost(referer string, slashIdx int) string {
	start := slashIdx + 2
	end := start
	for end < len(referer) && referer[end] != '/' && referer[end] != ':' {
		end++
	}
	host := referer[start:end]

	var b strings.Builder
	b.Grow(len(host))
	for i := 0; i < len(host); i++ {
		c := host[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		b.WriteByte(c)
	}
	return b.String()
}

func matches(pattern, name string) bool {
	if pattern == "" {
		return false
	}
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}
