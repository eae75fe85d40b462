package merecat

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	nethttp "net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mwjian/merecat/connio"
	"github.com/mwjian/merecat/internal/accesslog"
	"github.com/mwjian/merecat/internal/cgi"
	"github.com/mwjian/merecat/internal/mimetype"
	"github.com/mwjian/merecat/internal/pathresolve"
	"github.com/mwjian/merecat/internal/referer"
	"github.com/mwjian/merecat/internal/reqparse"
	"github.com/mwjian/merecat/internal/reqstate"
	"github.com/mwjian/merecat/internal/responder"
	"github.com/mwjian/merecat/modules/caddyhttp/caddyauth"
	"github.com/mwjian/merecat/modules/caddyhttp/encode"
	caddygzip "github.com/mwjian/merecat/modules/caddyhttp/encode/gzip"
	"github.com/mwjian/merecat/modules/caddyhttp/fileserver"
)

// Engine ties the component packages together into the request-processing
// control flow of spec §2: accept -> read-until-complete -> parse ->
// resolve -> gate -> dispatch -> log -> close-or-keep-alive. It owns no
// socket itself; ServeConnection is the entry point a caller's accept loop
// drives once per accepted net.Conn.
type Engine struct {
	Ctx       *ServerContext
	Gate      *caddyauth.Gate
	Referer   referer.Config
	CGI       *cgi.Dispatcher
	Gzip      *caddygzip.Pool
	Logger    *zap.Logger
	AccessLog *accesslog.Writer
}

// NewEngine wires an Engine from a provisioned ServerContext. accessOut is
// the destination for combined-log-format lines (spec §6), independent of
// ctx.Logger's structured output.
//
// The caller must os.Chdir into ctx.DocumentRoot before accepting any
// connection. pathresolve.Resolve walks a request's cleaned, still-relative
// path for symlinks and existence without ever joining DocumentRoot onto it
// first, mirroring libhttpd's own cwd-relative expand_symlinks: the process's
// working directory, not ServerContext, is what the resolver walks against.
func NewEngine(ctx *ServerContext, accessOut io.Writer) *Engine {
	logger := ctx.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		Ctx:  ctx,
		Gate: caddyauth.NewGate(ctx.DocumentRoot, ctx.GlobalPassword),
		Referer: referer.Config{
			URLPattern:      ctx.URLPattern,
			LocalPattern:    ctx.LocalPattern,
			VHost:           ctx.VHost,
			ServerHostname:  ctx.ServerName,
			NoEmptyReferers: ctx.NoEmptyReferers,
		},
		CGI:       &cgi.Dispatcher{Slots: ctx.CGISlots, TimeLimit: ctx.CGITimeLimit},
		Gzip:      caddygzip.NewPool(0),
		Logger:    logger,
		AccessLog: accesslog.New(accessOut),
	}
}

// ServeConnection drives the keep-alive loop for one accepted connection:
// read a request, handle it, flush the response, then either linger-drain
// and close or reset for the next request on the same socket (spec §5).
func (e *Engine) ServeConnection(nc net.Conn) error {
	c := NewConnection(nc)
	for {
		badErr, err := e.readRequest(c)
		if err != nil {
			return err
		}

		if badErr != nil {
			e.writeError(c, badErr)
			c.DoKeepAlive = false
		} else {
			e.HandleRequest(c)
		}

		if _, werr := connio.WriteAll(c.Conn, c.Out.Bytes()); werr != nil {
			return werr
		}
		c.Out.Reset()

		if c.ShouldLinger {
			e.lingerDrain(c)
		}
		if !c.DoKeepAlive {
			return nil
		}
		c.Reset()
	}
}

// readRequest accumulates bytes into c.ReadBuf until the request-state
// scanner reports a verdict. A hard I/O error (including io.EOF) is
// returned for the caller to propagate; a framing failure is reported as a
// HandlerError so the caller can still write a response before closing.
func (e *Engine) readRequest(c *Connection) (*responder.HandlerError, error) {
	for {
		buf, err := connio.ReadMore(c.Conn, c.ReadBuf)
		c.ReadBuf = buf
		c.ReadIndex = len(buf)
		if err != nil {
			if errors.Is(err, connio.ErrWouldBlock) {
				continue
			}
			return nil, err
		}

		state, pos, result := reqstate.Scan(c.ReadBuf, c.CheckedIndex, c.ReadIndex, c.ScanState)
		c.ScanState = state
		c.CheckedIndex = pos

		switch result {
		case reqstate.Complete:
			return nil, nil
		case reqstate.Bad:
			return responder.NewError(responder.KindClientMalformed, 0, errors.New("malformed request framing")), nil
		default:
			continue
		}
	}
}

// lingerDrain reads and discards whatever the client sends for a short
// grace period before the socket is closed, so a client mid-upload to a
// rejected request doesn't see a reset instead of its error response.
func (e *Engine) lingerDrain(c *Connection) {
	_ = c.Conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 4096)
	for {
		n, err := c.Conn.Read(buf)
		if n == 0 || err != nil {
			break
		}
	}
	_ = c.Conn.SetReadDeadline(time.Time{})
}

// HandleRequest runs the per-request pipeline and always logs the result,
// regardless of whether it ended in success or an error response.
func (e *Engine) HandleRequest(c *Connection) {
	start := time.Now()
	herr, extra := e.process(c)
	if herr != nil {
		e.writeError(c, herr, extra...)
	}
	e.logAccess(c, start)
}

// process runs the full spec §2 pipeline for one request already framed
// into c.ReadBuf[:c.CheckedIndex], returning the error to report (nil on
// success) plus any extra response headers to send with that error (the
// 401's WWW-Authenticate).
func (e *Engine) process(c *Connection) (*responder.HandlerError, []string) {
	rl, headers, err := e.parseRequest(c)
	if err != nil {
		return classifyParseErr(err), nil
	}

	if err := e.populateConnection(c, rl, headers); err != nil {
		return classifyParseErr(err), nil
	}

	if c.OneOne && c.Host == "" {
		return responder.NewError(responder.KindClientMalformed, reqparse.BadRequestMissingHost, errors.New("HTTP/1.1 request without Host")), nil
	}

	hostname := pathresolve.VhostHostname(rl.Host, headers.Host, e.localAddrHost(c))
	c.HostName = hostname
	if e.Ctx.VHost {
		c.HostDir = pathresolve.VhostDir(hostname, e.Ctx.VHostDirLevels)
	}

	outcome, err := pathresolve.Resolve(c.OrigFilename, hostname, e.pathConfig(), nil)
	if err != nil {
		return classifyResolveErr(err), nil
	}
	c.ExpandedFilename = outcome.Filename
	c.PathInfo = outcome.PathInfo
	c.TildeMapped = outcome.TildeMapped

	if !referer.Check(e.Referer, c.OrigFilename, c.Referer, c.Host) {
		return responder.NewError(responder.KindForbidden, 0, errors.New("referer check failed")), nil
	}

	diskPath := e.diskPath(outcome.Filename)
	info, statErr := os.Stat(diskPath)

	gateDir := diskPath
	relGateDir := outcome.Filename
	if statErr != nil || !info.IsDir() {
		gateDir = filepath.Dir(diskPath)
		relGateDir = path.Dir(outcome.Filename)
	}

	if herr, extra := e.applyGate(c, gateDir, relGateDir); herr != nil {
		return herr, extra
	}

	if statErr == nil && !info.IsDir() && e.Ctx.CGIPattern != "" &&
		fileserver.MatchCGIPattern([]string{e.Ctx.CGIPattern}, filepath.Base(diskPath)) {
		return e.dispatchCGI(c, diskPath, info), nil
	}

	if statErr != nil {
		return responder.NewError(responder.KindNotFound, 0, statErr), nil
	}
	if c.PathInfo != "" {
		return responder.NewError(responder.KindNotFound, 0, errors.New("trailing path-info on a non-CGI file")), nil
	}
	if info.IsDir() {
		return e.dispatchDirectory(c, diskPath, info), nil
	}
	if c.Method != MethodGET && c.Method != MethodHEAD {
		return responder.NewError(responder.KindNotImplemented, 0, fmt.Errorf("method %s not supported for static files", c.Method)), nil
	}
	return e.dispatchStatic(c, diskPath, info), nil
}

// parseRequest splits the framed bytes into a request line and header
// lines and hands them to reqparse.
func (e *Engine) parseRequest(c *Connection) (*reqparse.RequestLine, *reqparse.Headers, error) {
	text := string(c.ReadBuf[:c.CheckedIndex])

	lineEnd := strings.IndexAny(text, "\r\n")
	lineText := text
	rest := ""
	if lineEnd >= 0 {
		lineText = text[:lineEnd]
		rest = text[lineEnd:]
	}

	rl, err := reqparse.ParseRequestLine(lineText)
	if err != nil {
		return nil, nil, err
	}

	var headerLines []string
	if rl.Protocol != "" {
		rest = strings.TrimLeft(rest, "\r\n")
		if rest != "" {
			headerLines = strings.Split(rest, "\n")
		}
	}

	headers, err := reqparse.ParseHeaders(headerLines)
	if err != nil {
		return nil, nil, err
	}
	return rl, headers, nil
}

// populateConnection fills Connection fields from the parsed request line
// and headers (spec §3).
func (e *Engine) populateConnection(c *Connection, rl *reqparse.RequestLine, headers *reqparse.Headers) error {
	c.Method = methodFromString(rl.Method)
	c.Protocol = rl.Protocol
	c.OneOne = rl.OneOne
	c.MimeFlag = rl.Protocol != ""
	c.EncodedURL = rl.Target

	decoded, query, err := reqparse.DecodeURL(rl.Target)
	if err != nil {
		return err
	}
	c.DecodedURL = decoded
	c.OrigFilename = decoded
	c.Query = query

	c.Host = rl.Host
	if c.Host == "" {
		c.Host = headers.Host
	}

	c.Referer = headers.Referer
	c.UserAgent = headers.UserAgent
	c.AcceptList = headers.Accept
	c.AcceptEncoding = append(c.AcceptEncoding[:0], headers.AcceptEncoding...)
	c.AcceptLanguage = headers.AcceptLanguage
	c.Cookie = headers.Cookie
	c.ContentType = headers.ContentType
	c.Authorization = headers.Authorization
	c.KeepAliveRequested = headers.KeepAlive

	if headers.ContentLength != "" {
		cl, err := reqparse.ParseContentLength(headers.ContentLength)
		if err != nil {
			return err
		}
		c.ContentLength = cl
	}

	c.RealAddr = e.remoteAddr(c, headers.XForwardedFor)

	parsedRange := reqparse.ParseRange(headers.RangeSpec)
	c.Range.Got = parsedRange.Got
	c.Range.FirstByte = parsedRange.FirstByte
	c.Range.LastByte = parsedRange.LastByte
	c.Range.RangeIf = nil
	if headers.RangeIf != "" {
		if t, perr := nethttp.ParseTime(headers.RangeIf); perr == nil {
			c.Range.RangeIf = &t
		}
	}

	if headers.IfModifiedSince != "" {
		if t, perr := nethttp.ParseTime(headers.IfModifiedSince); perr == nil {
			c.IfModifiedSince = t
			c.HasIfModifiedSince = true
		}
	}

	c.DoKeepAlive = c.MimeFlag && (c.OneOne || c.KeepAliveRequested) && !reqparse.IsBadBrowser(c.UserAgent)
	return nil
}

// applyGate runs the IP-access and HTTP Basic auth checks for dir (an
// absolute disk path, as Gate's file lookups require). relDir is the same
// directory expressed relative to the document root, used only for the
// WWW-Authenticate realm so a 401 never leaks the server's filesystem layout
// (spec §8 scenario 5; libhttpd.c:1289 derives its realm the same way, from
// expnfilename rather than the absolute path).
func (e *Engine) applyGate(c *Connection, dir, relDir string) (*responder.HandlerError, []string) {
	if ip := e.remoteIP(c); ip != nil {
		allowed, err := e.Gate.CheckIP(dir, ip)
		if err != nil {
			return responder.NewError(responder.KindForbidden, 0, err), nil
		}
		if !allowed {
			return responder.NewError(responder.KindForbidden, 0, errors.New("IP access denied")), nil
		}
	}

	user, pass := "", ""
	if c.Authorization != "" {
		if u, p, err := caddyauth.DecodeBasicAuth(c.Authorization); err == nil {
			user, pass = u, p
		}
	}

	required, ok, err := e.Gate.CheckAuth(dir, user, pass, &c.AuthMemo)
	if err != nil {
		return responder.NewError(responder.KindInternal, 0, err), nil
	}
	if required {
		if !ok {
			if c.Method == MethodPOST || c.Method == MethodPUT {
				c.ShouldLinger = true
			}
			return responder.NewError(responder.KindUnauthenticated, 0, errors.New("authentication required")),
				[]string{"WWW-Authenticate: " + caddyauth.Realm(relDir)}
		}
		c.RemoteUser = user
	}
	return nil, nil
}

// dispatchCGI runs a matched CGI script and splices its output into the
// response (spec §4.9).
func (e *Engine) dispatchCGI(c *Connection, diskPath string, info os.FileInfo) *responder.HandlerError {
	if info.Mode().Perm()&0o111 == 0 {
		return responder.NewError(responder.KindForbidden, 0, errors.New("cgi script not executable"))
	}
	switch c.Method {
	case MethodGET, MethodPOST, MethodPUT, MethodDELETE:
	default:
		return responder.NewError(responder.KindNotImplemented, 0, fmt.Errorf("method %s not supported for CGI", c.Method))
	}

	req := cgi.Request{
		Method:         c.Method.String(),
		Protocol:       c.Protocol,
		ServerName:     e.Ctx.ServerName,
		ServerPort:     e.serverPort(c),
		ServerCWD:      e.Ctx.DocumentRoot,
		OrigFilename:   c.OrigFilename,
		ExpnFilename:   diskPath,
		PathInfo:       c.PathInfo,
		Query:          c.Query,
		RemoteAddr:     c.RealAddr,
		RemoteUser:     c.RemoteUser,
		Referer:        c.Referer,
		UserAgent:      c.UserAgent,
		Accept:         c.AcceptList,
		AcceptEncoding: strings.Join(c.AcceptEncoding, ", "),
		AcceptLanguage: c.AcceptLanguage,
		Cookie:         c.Cookie,
		ContentType:    c.ContentType,
		ContentLength:  c.ContentLength,
		HTTPHost:       c.Host,
		HasAuth:        c.Authorization != "",
		CGIPattern:     e.Ctx.CGIPattern,
	}
	env := cgi.BuildEnv(req)
	args := cgi.BuildArgs(diskPath, c.Query)

	var stdin io.Reader
	if c.Method == MethodPOST || c.Method == MethodPUT {
		buffered := c.ReadBuf[c.CheckedIndex:c.ReadIndex]
		stdin = cgi.InterposeStdin(buffered, c.Conn)
		if c.ContentLength >= 0 {
			stdin = io.LimitReader(stdin, c.ContentLength)
		}
	}

	_ = connio.ClearNDelay(c.Conn)
	defer connio.SetNDelay(c.Conn)

	var stdout, stderr bytes.Buffer
	_, runErr := e.CGI.Run(context.Background(), diskPath, env, args, stdin, &stdout, &stderr)
	if runErr != nil && stdout.Len() == 0 {
		if errors.Is(runErr, cgi.ErrOverloaded) {
			return responder.NewError(responder.KindOverloaded, 0, runErr)
		}
		return responder.NewError(responder.KindInternal, 0, runErr)
	}

	// A CGI child's output length isn't known in advance, so this response
	// always closes the connection afterward (spec §4.9).
	c.DoKeepAlive = false

	if strings.HasPrefix(filepath.Base(diskPath), "nph-") {
		c.Out.Write(stdout.Bytes())
		c.BytesSent = int64(c.Out.Len())
		return nil
	}

	status, headerBlock, body := splitCGIOutput(stdout.Bytes())
	c.Status = status
	if c.MimeFlag {
		c.Out.Write([]byte(responder.StatusLine(e.protocolFor(c), status)))
		c.Out.Write(headerBlock)
		c.Out.Write([]byte("\r\n"))
	}
	if c.Method != MethodHEAD {
		c.Out.Write(body)
	}
	c.BytesSent = int64(c.Out.Len())
	return nil
}

// splitCGIOutput separates a CGI script's header block from its body,
// deriving a status code from a Status: line or defaulting to 302 when a
// Location: line appears with no explicit Status (spec §4.9).
func splitCGIOutput(raw []byte) (status int, headers []byte, body []byte) {
	sep := []byte("\r\n\r\n")
	sepLen := 4
	idx := bytes.Index(raw, sep)
	if idx < 0 {
		sep = []byte("\n\n")
		sepLen = 2
		idx = bytes.Index(raw, sep)
	}
	if idx < 0 {
		return 200, nil, raw
	}

	status = 200
	locationSeen := false
	statusSeen := false
	var out bytes.Buffer
	for _, line := range strings.Split(string(raw[:idx]), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "status:") {
			fields := strings.Fields(strings.TrimSpace(line[len("status:"):]))
			if len(fields) > 0 {
				if n, err := strconv.Atoi(fields[0]); err == nil {
					status = n
					statusSeen = true
				}
			}
			continue
		}
		if strings.HasPrefix(lower, "location:") {
			locationSeen = true
		}
		out.WriteString(line)
		out.WriteString("\r\n")
	}
	if locationSeen && !statusSeen {
		status = 302
	}
	return status, out.Bytes(), raw[idx+sepLen:]
}

// dispatchDirectory serves a directory: a trailing-slash redirect, an
// index-file substitution, or a synthesized listing (spec §4.8).
func (e *Engine) dispatchDirectory(c *Connection, dirPath string, info os.FileInfo) *responder.HandlerError {
	if info.Mode().Perm()&0o444 == 0 {
		return responder.NewError(responder.KindForbidden, 0, errors.New("directory not readable"))
	}
	urlPath := c.EncodedURL
	if q := strings.IndexByte(urlPath, '?'); q >= 0 {
		urlPath = urlPath[:q]
	}
	if !strings.HasSuffix(urlPath, "/") {
		e.writeRedirect(c, responder.DirectoryRedirectLocation(urlPath, c.Query))
		return nil
	}

	for _, idx := range e.Ctx.IndexNames {
		idxPath := filepath.Join(dirPath, idx)
		if st, err := os.Stat(idxPath); err == nil && !st.IsDir() {
			return e.dispatchStatic(c, idxPath, st)
		}
	}

	if !e.Ctx.EnableDirListing {
		return responder.NewError(responder.KindNotFound, 0, errors.New("directory listing disabled"))
	}

	body, contentType, err := fileserver.Index(dirPath, c.EncodedURL, e.Ctx.Charset, e.Ctx.DotfileListing)
	if err != nil {
		return responder.NewError(responder.KindInternal, 0, err)
	}

	meta := responder.Meta{
		Date:          time.Now(),
		Server:        e.serverIdent(),
		LastModified:  info.ModTime(),
		HasLastMod:    true,
		ContentType:   contentType,
		ContentLength: int64(len(body)),
		KeepAlive:     c.DoKeepAlive,
		Status:        200,
	}
	c.Status = 200
	e.writeResponse(c, 200, meta, body, c.Method == MethodHEAD)
	return nil
}

// dispatchStatic serves a plain file: precompressed or on-the-fly gzip,
// range and conditional-GET handling, then the header block (spec §4.7).
func (e *Engine) dispatchStatic(c *Connection, diskPath string, info os.FileInfo) *responder.HandlerError {
	if info.Mode().Perm()&0o444 == 0 {
		return responder.NewError(responder.KindForbidden, 0, errors.New("file not readable"))
	}

	mimeRes := mimetype.Classify(filepath.Base(diskPath), e.Ctx.Charset)

	data, err := os.ReadFile(diskPath)
	if err != nil {
		return responder.NewError(responder.KindInternal, 0, err)
	}

	encodings := append([]string(nil), mimeRes.Encodings...)
	gzipWanted := reqparse.GzipAcceptable(c.AcceptEncoding)

	applied := false
	if gzipWanted {
		gzPath := encode.PrecompressedPath(diskPath)
		if gzInfo, ok := caddygzip.Precompressed(gzPath); ok && !gzInfo.ModTime().Before(info.ModTime()) {
			if gzData, rerr := os.ReadFile(gzPath); rerr == nil {
				data = gzData
				encodings = append(encodings, "gzip")
				applied = true
			}
		}
	}
	if !applied && gzipWanted && int64(len(data)) >= encode.MinLength {
		var buf bytes.Buffer
		gw := e.Gzip.Get(&buf)
		_, werr := gw.Write(data)
		cerr := gw.Close()
		e.Gzip.Put(gw)
		if werr == nil && cerr == nil {
			data = buf.Bytes()
			encodings = append(encodings, "gzip")
		}
	}

	etag := responder.ComputeETag(data)
	length := int64(len(data))
	status := 200
	body := data
	contentRange := ""

	if c.HasIfModifiedSince && !info.ModTime().After(c.IfModifiedSince) {
		status = 304
	}

	if effFirst, effLast, ok := responder.RangeEligible(c.Range.Got, c.Range.FirstByte, c.Range.LastByte, c.Range.RangeIf, length, info.ModTime()); ok && status != 304 {
		status = 206
		body = data[effFirst : effLast+1]
		contentRange = responder.ContentRangeHeader(effFirst, effLast, length)
	}

	if status == 304 {
		body = nil
	}

	meta := responder.Meta{
		Date:            time.Now(),
		Server:          e.serverIdent(),
		LastModified:    info.ModTime(),
		HasLastMod:      true,
		ContentType:     mimeRes.Type,
		ContentLength:   int64(len(body)),
		ContentRange:    contentRange,
		ContentEncoding: encodings,
		MaxAgeSeconds:   e.Ctx.MaxAgeSeconds,
		ETag:            etag,
		KeepAlive:       c.DoKeepAlive,
		Status:          status,
	}
	c.Status = status
	e.writeResponse(c, status, meta, body, status == 304 || c.Method == MethodHEAD)
	return nil
}

// writeResponse renders the status line, headers, and body into c.Out. The
// status line and headers are written only when c.MimeFlag is true; HTTP/0.9
// clients (MimeFlag false) get a bare body.
func (e *Engine) writeResponse(c *Connection, status int, meta responder.Meta, body []byte, omitBody bool, extraHeaders ...string) {
	if c.MimeFlag {
		c.Out.Write([]byte(responder.StatusLine(e.protocolFor(c), status)))
		c.Out.Write([]byte(responder.BuildHeaders(meta)))
		for _, h := range extraHeaders {
			c.Out.Write([]byte(h))
			c.Out.Write([]byte("\r\n"))
		}
		c.Out.Write([]byte("\r\n"))
	}
	if !omitBody {
		c.Out.Write(body)
	}
	c.BytesSent = int64(c.Out.Len())
}

// writeError renders the error-page body for herr and forces the
// connection closed afterward (spec §7: errors never keep a connection
// alive, since the intended response length is unknown).
func (e *Engine) writeError(c *Connection, herr *responder.HandlerError, extraHeaders ...string) {
	status := herr.Kind.StatusCode()
	body := responder.ErrorPage(status, e.Ctx.DocumentRoot, c.HostDir, "errs", c.EncodedURL)
	c.DoKeepAlive = false
	c.Status = status

	meta := responder.Meta{
		Date:          time.Now(),
		Server:        e.serverIdent(),
		ContentType:   "text/html",
		ContentLength: int64(len(body)),
		KeepAlive:     false,
		Status:        status,
	}
	e.writeResponse(c, status, meta, body, c.Method == MethodHEAD, extraHeaders...)
	e.Logger.Warn("request error", zap.Int("status", status), zap.String("id", herr.ID), zap.Error(herr))
}

// writeRedirect renders a 302 with a Location header and no body.
func (e *Engine) writeRedirect(c *Connection, location string) {
	c.Status = 302
	meta := responder.Meta{
		Date:      time.Now(),
		Server:    e.serverIdent(),
		KeepAlive: c.DoKeepAlive,
		Status:    302,
	}
	e.writeResponse(c, 302, meta, nil, true, "Location: "+location)
}

// logAccess emits the combined-log-format line plus a structured zap
// summary for one completed request (spec §6).
func (e *Engine) logAccess(c *Connection, start time.Time) {
	status := c.Status
	if status == 0 {
		status = 200
	}
	protocol := c.Protocol
	if protocol == "" {
		protocol = "HTTP/0.9"
	}

	entry := accesslog.Entry{
		RemoteAddr: c.RealAddr,
		User:       c.RemoteUser,
		Method:     c.Method.String(),
		URL:        accesslog.VhostURL(c.EncodedURL, c.HostName, e.Ctx.VHost, c.TildeMapped),
		Protocol:   protocol,
		Status:     status,
		Bytes:      c.BytesSent,
		Referer:    c.Referer,
		UserAgent:  c.UserAgent,
		Time:       start,
	}
	if err := e.AccessLog.Write(entry); err != nil {
		e.Logger.Warn("access log write failed", zap.Error(err))
	}

	e.Logger.Info("request",
		zap.String("remote_addr", c.RealAddr),
		zap.String("method", c.Method.String()),
		zap.String("url", c.EncodedURL),
		zap.Int("status", status),
		zap.Duration("duration", time.Since(start)),
	)
}

func methodFromString(s string) Method {
	switch s {
	case "GET":
		return MethodGET
	case "HEAD":
		return MethodHEAD
	case "POST":
		return MethodPOST
	case "PUT":
		return MethodPUT
	case "DELETE":
		return MethodDELETE
	case "CONNECT":
		return MethodCONNECT
	case "OPTIONS":
		return MethodOPTIONS
	case "TRACE":
		return MethodTRACE
	default:
		return MethodUnknown
	}
}

func classifyParseErr(err error) *responder.HandlerError {
	var pe *reqparse.Error
	if errors.As(err, &pe) {
		if pe.SubCode == 501 {
			return responder.NewError(responder.KindNotImplemented, 0, pe)
		}
		return responder.NewError(responder.KindClientMalformed, pe.SubCode, pe)
	}
	return responder.NewError(responder.KindInternal, 0, err)
}

func classifyResolveErr(err error) *responder.HandlerError {
	switch {
	case errors.Is(err, pathresolve.ErrPathEscape):
		return responder.NewError(responder.KindClientMalformed, reqparse.BadRequestPathEscape, err)
	case errors.Is(err, pathresolve.ErrForbidden):
		return responder.NewError(responder.KindForbidden, 0, err)
	case errors.Is(err, pathresolve.ErrNotFound):
		return responder.NewError(responder.KindNotFound, 0, err)
	default:
		return responder.NewError(responder.KindInternal, 0, err)
	}
}

func (e *Engine) pathConfig() pathresolve.Config {
	return pathresolve.Config{
		DocumentRoot:     e.Ctx.DocumentRoot,
		VHost:            e.Ctx.VHost,
		VHostDirLevels:   e.Ctx.VHostDirLevels,
		TildeUserDirMode: int(e.Ctx.TildeUserDirMode),
		TildePrefix:      e.Ctx.TildePrefix,
		TildePostfix:     e.Ctx.TildePostfix,
		NoSymlinkCheck:   e.Ctx.NoSymlinkCheck,
		ApprovedAltRoots: e.Ctx.ApprovedAltRoots,
	}
}

func (e *Engine) diskPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(e.Ctx.DocumentRoot, filename)
}

func (e *Engine) localAddrHost(c *Connection) string {
	if c.Conn == nil {
		return e.Ctx.ServerName
	}
	host, _, err := net.SplitHostPort(c.Conn.LocalAddr().String())
	if err != nil {
		return e.Ctx.ServerName
	}
	return host
}

func (e *Engine) remoteAddr(c *Connection, xff string) string {
	if xff != "" {
		return xff
	}
	if c.RemoteAddr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(c.RemoteAddr.String())
	if err != nil {
		return c.RemoteAddr.String()
	}
	return host
}

func (e *Engine) remoteIP(c *Connection) net.IP {
	return net.ParseIP(c.RealAddr)
}

func (e *Engine) protocolFor(c *Connection) string {
	if c.OneOne {
		return "HTTP/1.1"
	}
	return "HTTP/1.0"
}

func (e *Engine) serverIdent() string {
	if e.Ctx.ServerName != "" {
		return "merecat (" + e.Ctx.ServerName + ")"
	}
	return "merecat"
}

func (e *Engine) serverPort(c *Connection) int {
	if c.Conn == nil {
		return 0
	}
	_, portStr, err := net.SplitHostPort(c.Conn.LocalAddr().String())
	if err != nil {
		return 0
	}
	p, _ := strconv.Atoi(portStr)
	return p
}
