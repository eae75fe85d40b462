package reqparse

import "testing"

func TestParseRequestLine_HTTP09(t *testing.T) {
	rl, err := ParseRequestLine("GET /foo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rl.Protocol != "" || rl.OneOne {
		t.Fatalf("expected HTTP/0.9 request, got %+v", rl)
	}
}

func TestParseRequestLine_UnknownMethod(t *testing.T) {
	_, err := ParseRequestLine("FROB / HTTP/1.1")
	if err == nil {
		t.Fatal("expected error for unknown method")
	}
}

func TestParseRequestLine_TargetMustStartWithSlash(t *testing.T) {
	_, err := ParseRequestLine("GET foo HTTP/1.1")
	if err == nil {
		t.Fatal("expected error for non-slash target")
	}
}

func TestParseRequestLine_AbsoluteFormRequiresOneOne(t *testing.T) {
	_, err := ParseRequestLine("GET http://example.com/a HTTP/1.0")
	if err == nil {
		t.Fatal("expected error: absolute-form requires HTTP/1.1")
	}
	rl, err := ParseRequestLine("GET http://example.com/a HTTP/1.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rl.Host != "example.com" || rl.Target != "/a" {
		t.Fatalf("got host=%q target=%q", rl.Host, rl.Target)
	}
}

func TestParseRequestLine_AbsoluteFormRootPath(t *testing.T) {
	rl, err := ParseRequestLine("GET http://example.com HTTP/1.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rl.Target != "/" {
		t.Fatalf("got target=%q, want /", rl.Target)
	}
}

func TestDecodeURL_StrictPercent(t *testing.T) {
	path, query, err := DecodeURL("/a%20b?x=1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "a b" || query != "x=1" {
		t.Fatalf("got path=%q query=%q", path, query)
	}
}

func TestDecodeURL_RootBecomesDot(t *testing.T) {
	path, _, err := DecodeURL("/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "." {
		t.Fatalf("got path=%q, want .", path)
	}
}

func TestDecodeURL_InvalidEscape(t *testing.T) {
	if _, _, err := DecodeURL("/%zz"); err == nil {
		t.Fatal("expected error for invalid percent-escape")
	}
	if _, _, err := DecodeURL("/%2"); err == nil {
		t.Fatal("expected error for truncated percent-escape")
	}
}

func TestParseRange(t *testing.T) {
	cases := []struct {
		in   string
		want ParsedRange
	}{
		{"bytes=5-9", ParsedRange{Got: true, FirstByte: 5, LastByte: 9}},
		{"bytes=5-", ParsedRange{Got: true, FirstByte: 5, LastByte: -1}},
		{"bytes=5-9,20-30", ParsedRange{}}, // comma -> ignored
		{"", ParsedRange{}},
		{"bytes=9-5", ParsedRange{}}, // last < first -> ignored
	}
	for _, c := range cases {
		if got := ParseRange(c.in); got != c.want {
			t.Errorf("ParseRange(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestGzipAcceptable(t *testing.T) {
	if !GzipAcceptable([]string{"gzip"}) {
		t.Error("plain gzip should be acceptable")
	}
	if !GzipAcceptable([]string{"gzip;q=0.5"}) {
		t.Error("gzip;q=0.5 should be acceptable")
	}
	if GzipAcceptable([]string{"gzip;q=0"}) {
		t.Error("gzip;q=0 should not be acceptable")
	}
	if GzipAcceptable([]string{"deflate"}) {
		t.Error("deflate alone should not enable gzip")
	}
}

func TestParseHeaders_Basic(t *testing.T) {
	lines := []string{
		"Host: example.com",
		"Referer: http://example.com/",
		"Accept-Encoding: gzip, deflate",
		"Accept-Encoding: br",
		"X-Forwarded-For: 1.2.3.4, 5.6.7.8",
		"Connection: keep-alive",
		"Unknown-Header: ignored",
	}
	h, err := ParseHeaders(lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Host != "example.com" {
		t.Errorf("host = %q", h.Host)
	}
	if len(h.AcceptEncoding) != 3 {
		t.Errorf("accept-encoding = %v", h.AcceptEncoding)
	}
	if h.XForwardedFor != "1.2.3.4" {
		t.Errorf("x-forwarded-for = %q", h.XForwardedFor)
	}
	if !h.KeepAlive {
		t.Error("expected keep-alive true")
	}
}

func TestParseHeaders_RejectsBadHost(t *testing.T) {
	if _, err := ParseHeaders([]string{"Host: /"}); err == nil {
		t.Fatal("expected error for Host: /")
	}
	if _, err := ParseHeaders([]string{"Host: .evil.com"}); err == nil {
		t.Fatal("expected error for Host starting with .")
	}
}

func TestIsBadBrowser(t *testing.T) {
	if !IsBadBrowser("Mozilla/2.0 (compatible)") {
		t.Error("expected Mozilla/2 flagged as bad browser")
	}
	if IsBadBrowser("Mozilla/5.0 (X11; Linux x86_64)") {
		t.Error("modern UA should not be flagged")
	}
}
