// Package accesslog renders the combined-log-format access line of spec
// §6, kept independent of the server's structured zap logging: one line
// per completed request, not a log.Logger record.
package accesslog

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Entry carries the fields of one combined-log-format line.
type Entry struct {
	RemoteAddr string
	User       string // "-" when absent
	Method     string
	URL        string
	Protocol   string
	Status     int
	Bytes      int64 // negative renders as "-" (no body, e.g. CGI/NPH)
	Referer    string
	UserAgent  string
	Time       time.Time
}

// Writer serializes Entry values to out, one per line.
type Writer struct {
	out io.Writer
}

// New wraps out as an access-log destination.
func New(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Write renders e as:
//
//	<client-ip>: <user-or-"-"> "<method> <url> <protocol>" <status> <bytes-or-"-"> "<referer>" "<user-agent>"
func (w *Writer) Write(e Entry) error {
	user := e.User
	if user == "" {
		user = "-"
	}
	bytesField := "-"
	if e.Bytes >= 0 {
		bytesField = fmt.Sprintf("%d", e.Bytes)
	}
	line := fmt.Sprintf("%s: %s \"%s %s %s\" %d %s \"%s\" \"%s\"\n",
		e.RemoteAddr, user, e.Method, e.URL, e.Protocol, e.Status, bytesField, e.Referer, e.UserAgent)
	_, err := io.WriteString(w.out, line)
	return err
}

// VhostURL prepends "/<hostname>" to url when vhosting is enabled and the
// request was not tilde-mapped (spec §6: tilde-mapped requests already
// name a user's own directory and are never vhost-prefixed in the log).
func VhostURL(url, hostname string, vhost, tildeMapped bool) string {
	if !vhost || tildeMapped || hostname == "" {
		return url
	}
	if strings.HasPrefix(url, "/") {
		return "/" + hostname + url
	}
	return "/" + hostname + "/" + url
}
