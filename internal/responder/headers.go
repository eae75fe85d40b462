package responder

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// statusTitles is the reason-phrase table for the status codes this server
// ever emits (spec §4.7, §7).
var statusTitles = map[int]string{
	200: "OK",
	206: "Partial Content",
	302: "Found",
	304: "Not Modified",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	500: "Internal Server Error",
	501: "Not Implemented",
	503: "Service Unavailable",
}

// StatusTitle returns the reason phrase for status, or "Unknown" if this
// server never emits that code.
func StatusTitle(status int) string {
	if t, ok := statusTitles[status]; ok {
		return t
	}
	return "Unknown"
}

// StatusLine formats "<protocol> <status> <title>\r\n". HTTP/0.9 clients
// (mimeFlag false) never see this — the responder sends body only.
func StatusLine(protocol string, status int) string {
	return fmt.Sprintf("%s %d %s\r\n", protocol, status, StatusTitle(status))
}

// Meta carries everything BuildHeaders needs to render the header block
// of spec §4.7.
type Meta struct {
	Date         time.Time
	Server       string
	LastModified time.Time
	HasLastMod   bool
	ContentType  string
	// ContentLength < 0 means omit the header entirely (spec: "omitted
	// when compression is chosen but body is unmapped, and when no body
	// size is known").
	ContentLength   int64
	ContentRange    string // pre-formatted "bytes X-Y/Z", empty if not 206
	ContentEncoding []string
	MaxAgeSeconds   int
	ETag            string
	KeepAlive       bool
	Status          int
}

// BuildHeaders renders the header block (without the leading status line
// or the terminating blank line), CRLF-terminated per header.
func BuildHeaders(m Meta) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Date: %s\r\n", m.Date.UTC().Format(http1Date))
	if m.Server != "" {
		fmt.Fprintf(&b, "Server: %s\r\n", m.Server)
	}
	if m.HasLastMod {
		fmt.Fprintf(&b, "Last-Modified: %s\r\n", m.LastModified.UTC().Format(http1Date))
	}
	b.WriteString("Accept-Ranges: bytes\r\n")
	if m.ContentType != "" {
		fmt.Fprintf(&b, "Content-Type: %s\r\n", m.ContentType)
	}
	if m.ContentLength >= 0 {
		fmt.Fprintf(&b, "Content-Length: %d\r\n", m.ContentLength)
	}
	if m.ContentRange != "" {
		fmt.Fprintf(&b, "Content-Range: %s\r\n", m.ContentRange)
	}
	if len(m.ContentEncoding) > 0 {
		fmt.Fprintf(&b, "Content-Encoding: %s\r\n", strings.Join(m.ContentEncoding, ", "))
	}
	if m.MaxAgeSeconds > 0 {
		fmt.Fprintf(&b, "Cache-Control: max-age=%d\r\n", m.MaxAgeSeconds)
	}
	if m.Status >= 400 {
		b.WriteString("Cache-Control: no-cache,no-store\r\n")
	}
	if m.ETag != "" {
		fmt.Fprintf(&b, "ETag: %s\r\n", m.ETag)
	}
	if m.KeepAlive {
		b.WriteString("Connection: keep-alive\r\n")
	} else {
		b.WriteString("Connection: close\r\n")
	}
	return b.String()
}

const http1Date = "Mon, 02 Jan 2006 15:04:05 GMT"

// ComputeETag is MD5 of the mapped file bytes, hex-encoded and
// double-quoted (spec §4.7).
func ComputeETag(data []byte) string {
	sum := md5.Sum(data)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

// RangeEligible applies spec §4.7's 206 eligibility rule: status becomes
// 206 only when a range was requested, first <= last, the range is not the
// whole file (0..length-1), and range_if is unset or equals the file's
// mtime. Otherwise the caller must clear got_range and return 200.
func RangeEligible(got bool, first, last int64, rangeIf *time.Time, length int64, modTime time.Time) (effFirst, effLast int64, ok bool) {
	if !got {
		return 0, 0, false
	}
	if last < 0 || last >= length {
		last = length - 1
	}
	if first > last {
		return 0, 0, false
	}
	if first == 0 && last == length-1 {
		return 0, 0, false
	}
	if rangeIf != nil && !rangeIf.Equal(modTime) {
		return 0, 0, false
	}
	return first, last, true
}

// ContentRangeHeader formats the Content-Range value for a 206 response.
func ContentRangeHeader(first, last, length int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", first, last, length)
}
