package reqparse

import (
	"strconv"
	"strings"
)

// Headers is the recognized-header subset spec §4.3 whitelists. Unknown
// headers are ignored (optionally logged by the caller).
type Headers struct {
	Referer         string
	UserAgent       string
	Host            string
	Accept          string
	AcceptEncoding  []string // merged across repeated headers
	AcceptLanguage  string
	IfModifiedSince string
	Cookie          string
	RangeSpec       string // raw Range value as sent (e.g. "bytes=N-", "bytes=N-M"); "" if absent
	RangeIf         string
	ContentType     string
	ContentLength   string
	Authorization   string
	KeepAlive       bool
	XForwardedFor   string // first comma/whitespace-delimited token
}

// ParseHeaders scans CRLF- or LF-terminated header lines (the blank
// terminator line is not included in lines) and fills a Headers value using
// case-insensitive key matching.
func ParseHeaders(lines []string) (*Headers, error) {
	h := &Headers{}
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			continue // malformed header line; ignored per spec (unknown headers ignored)
		}
		key := strings.TrimSpace(line[:colon])
		val := strings.TrimSpace(line[colon+1:])

		switch {
		case strings.EqualFold(key, "Referer"):
			h.Referer = val
		case strings.EqualFold(key, "User-Agent"):
			h.UserAgent = val
		case strings.EqualFold(key, "Host"):
			if val == "/" || strings.HasPrefix(val, ".") {
				return nil, badRequest(BadRequestInvalidHost, "invalid Host header")
			}
			h.Host = val
		case strings.EqualFold(key, "Accept"):
			h.Accept = val
		case strings.EqualFold(key, "Accept-Encoding"):
			h.AcceptEncoding = append(h.AcceptEncoding, splitCommaList(val)...)
		case strings.EqualFold(key, "Accept-Language"):
			h.AcceptLanguage = val
		case strings.EqualFold(key, "If-Modified-Since"):
			h.IfModifiedSince = val
		case strings.EqualFold(key, "Cookie"):
			h.Cookie = val
		case strings.EqualFold(key, "Range"):
			h.RangeSpec = val
		case strings.EqualFold(key, "If-Range"), strings.EqualFold(key, "Range-If"):
			h.RangeIf = val
		case strings.EqualFold(key, "Content-Type"):
			h.ContentType = val
		case strings.EqualFold(key, "Content-Length"):
			h.ContentLength = val
		case strings.EqualFold(key, "Authorization"):
			h.Authorization = val
		case strings.EqualFold(key, "Connection"):
			if strings.EqualFold(val, "keep-alive") {
				h.KeepAlive = true
			}
		case strings.EqualFold(key, "X-Forwarded-For"):
			h.XForwardedFor = firstForwardedToken(val)
		}
	}
	return h, nil
}

func splitCommaList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstForwardedToken(v string) string {
	v = strings.TrimSpace(v)
	for i := 0; i < len(v); i++ {
		if v[i] == ',' || v[i] == ' ' || v[i] == '\t' {
			return v[:i]
		}
	}
	return v
}

// ParsedRange is a decoded "bytes=N-" or "bytes=N-M" range spec.
type ParsedRange struct {
	Got       bool
	FirstByte int64
	LastByte  int64 // -1 if open-ended ("bytes=N-")
}

// ParseRange decodes spec's restricted Range grammar: only "bytes=N-" and
// "bytes=N-M" are understood; a comma (multiple ranges) causes the header
// to be ignored entirely (spec §4.3, single-range-only per §1 non-goals).
func ParseRange(v string) ParsedRange {
	const prefix = "bytes="
	if v == "" || !strings.HasPrefix(v, prefix) {
		return ParsedRange{}
	}
	spec := v[len(prefix):]
	if strings.Contains(spec, ",") {
		return ParsedRange{}
	}
	dash := strings.IndexByte(spec, '-')
	if dash < 0 {
		return ParsedRange{}
	}
	firstStr, lastStr := spec[:dash], spec[dash+1:]
	first, err := strconv.ParseInt(firstStr, 10, 64)
	if err != nil || first < 0 {
		return ParsedRange{}
	}
	if lastStr == "" {
		return ParsedRange{Got: true, FirstByte: first, LastByte: -1}
	}
	last, err := strconv.ParseInt(lastStr, 10, 64)
	if err != nil || last < first {
		return ParsedRange{}
	}
	return ParsedRange{Got: true, FirstByte: first, LastByte: last}
}

// GzipAcceptable parses an Accept-Encoding token list for "gzip", honoring
// an optional q= parameter: gzip is usable if present with q>0 or with no
// q parameter at all (spec §4.3).
func GzipAcceptable(tokens []string) bool {
	for _, tok := range tokens {
		name, q, hasQ := splitQ(tok)
		if !strings.EqualFold(strings.TrimSpace(name), "gzip") {
			continue
		}
		if !hasQ {
			return true
		}
		return q > 0
	}
	return false
}

func splitQ(tok string) (name string, q float64, hasQ bool) {
	parts := strings.Split(tok, ";")
	name = strings.TrimSpace(parts[0])
	q = 1.0
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		if strings.HasPrefix(p, "q=") {
			v, err := strconv.ParseFloat(strings.TrimPrefix(p, "q="), 64)
			if err == nil {
				return name, v, true
			}
		}
	}
	return name, q, false
}

// badBrowserSubstrings disables keep-alive for a small blocklist of early
// clients known to mishandle persistent connections (spec §4.3).
var badBrowserSubstrings = []string{"Mozilla/2", "MSIE 4"}

// IsBadBrowser reports whether ua matches the keep-alive blocklist.
func IsBadBrowser(ua string) bool {
	for _, s := range badBrowserSubstrings {
		if strings.Contains(ua, s) {
			return true
		}
	}
	return false
}
