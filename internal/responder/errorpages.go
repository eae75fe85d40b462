package responder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// htmlEscape applies the exact escape set spec §4.7 names for error-page URL
// interpolation: "< > & \" ' ?". This is intentionally narrower than
// html.EscapeString, which also escapes characters outside this set.
func htmlEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '&':
			b.WriteString("&amp;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		case '?':
			b.WriteString("&#63;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// builtinErrorTemplate mirrors the minimal built-in error body; %d is the
// status code, %s the title, and the escaped URL.
const builtinErrorTemplate = `<!DOCTYPE html>
<html><head><title>%d %s</title></head>
<body><h1>%d %s</h1><p>%s</p></body></html>
`

// ErrorPage resolves the body for status, trying <hostDir>/<errDir>/errNNN.html,
// then <docRoot>/<errDir>/errNNN.html, then the built-in template with the
// request URL HTML-escaped and interpolated (spec §4.7, §6).
func ErrorPage(status int, docRoot, hostDir, errDir, requestURL string) []byte {
	candidates := make([]string, 0, 2)
	if hostDir != "" {
		candidates = append(candidates, filepath.Join(docRoot, hostDir, errDir, errFilename(status)))
	}
	candidates = append(candidates, filepath.Join(docRoot, errDir, errFilename(status)))

	for _, c := range candidates {
		if body, err := os.ReadFile(c); err == nil {
			return body
		}
	}

	title := StatusTitle(status)
	msg := fmt.Sprintf("The requested URL %s caused an error.", htmlEscape(requestURL))
	return []byte(fmt.Sprintf(builtinErrorTemplate, status, title, status, title, msg))
}

func errFilename(status int) string {
	return fmt.Sprintf("err%d.html", status)
}

// DirectoryRedirectLocation builds the Location header value for the
// trailing-slash redirect of spec §4.7: the original URL with a "/"
// appended, preserving any query string.
func DirectoryRedirectLocation(originalURL, query string) string {
	loc := originalURL + "/"
	if query != "" {
		loc += "?" + query
	}
	return loc
}
