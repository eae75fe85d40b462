package merecat

import (
	"net"
	"os"
	"time"

	"github.com/mwjian/merecat/internal/reqstate"
	"github.com/mwjian/merecat/modules/caddyhttp/caddyauth"
)

// Method enumerates the HTTP methods the request parser recognizes.
type Method int

const (
	MethodUnknown Method = iota
	MethodGET
	MethodHEAD
	MethodPOST
	MethodPUT
	MethodDELETE
	MethodCONNECT
	MethodOPTIONS
	MethodTRACE
)

func (m Method) String() string {
	switch m {
	case MethodGET:
		return "GET"
	case MethodHEAD:
		return "HEAD"
	case MethodPOST:
		return "POST"
	case MethodPUT:
		return "PUT"
	case MethodDELETE:
		return "DELETE"
	case MethodCONNECT:
		return "CONNECT"
	case MethodOPTIONS:
		return "OPTIONS"
	case MethodTRACE:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// AuthMemo amortises repeated HTTP Basic checks for one connection (spec §3,
// "credential memo"; invariant P6).
type AuthMemo = caddyauth.AuthMemo

// RangeState holds the parsed Range: header (spec §3, "range state").
type RangeState struct {
	Got       bool
	FirstByte int64
	LastByte  int64
	RangeIf   *time.Time // from If-Range, nil if absent
}

// OutBuf is the monotonically-growing outbound response buffer of spec §4.1,
// grown by doubling plus 25% headroom and cleared after a flush.
type OutBuf struct {
	buf []byte
}

// Write appends p, growing the backing array per the doubled-plus-25% policy.
func (o *OutBuf) Write(p []byte) (int, error) {
	need := len(o.buf) + len(p)
	if cap(o.buf) < need {
		newCap := cap(o.buf)*2 + cap(o.buf)/4
		if newCap < need {
			newCap = need
		}
		grown := make([]byte, len(o.buf), newCap)
		copy(grown, o.buf)
		o.buf = grown
	}
	o.buf = append(o.buf, p...)
	return len(p), nil
}

// Bytes returns the buffered, unflushed response bytes.
func (o *OutBuf) Bytes() []byte { return o.buf }

// Len reports the number of buffered bytes.
func (o *OutBuf) Len() int { return len(o.buf) }

// Reset clears the buffer after a flush, retaining the backing array.
func (o *OutBuf) Reset() { o.buf = o.buf[:0] }

// Connection is per-client state, reused across keep-alive iterations by
// resetting content fields while retaining memory-backing storage (spec §3,
// "Lifecycle").
type Connection struct {
	Conn net.Conn

	// RemoteAddr is the TCP peer address; RealAddr is overridden by the
	// first token of X-Forwarded-For, if present.
	RemoteAddr net.Addr
	RealAddr   string

	// ReadBuf accumulates unparsed request bytes; ReadIndex is the write
	// cursor, CheckedIndex is how far the state machine has scanned
	// (invariant: CheckedIndex <= ReadIndex <= cap(ReadBuf)).
	ReadBuf      []byte
	ReadIndex    int
	CheckedIndex int
	ScanState    reqstate.State

	// Parsed request-line and header fields (spec §3).
	Method           Method
	Protocol         string
	OneOne           bool // true if Protocol is HTTP/1.1
	EncodedURL       string
	DecodedURL       string
	OrigFilename     string
	ExpandedFilename string
	PathInfo         string
	Query            string
	Referer          string
	UserAgent        string
	AcceptList       string
	AcceptEncoding   []string
	AcceptLanguage   string
	Cookie           string
	ContentType      string
	ContentLength    int64
	Host             string
	Authorization    string
	RemoteUser       string

	Range              RangeState
	IfModifiedSince    time.Time
	HasIfModifiedSince bool

	KeepAliveRequested bool // client asked for keep-alive
	DoKeepAlive        bool // effective decision
	ShouldLinger       bool

	Out OutBuf

	Status      int
	BytesToSend int64
	BytesSent   int64

	NegotiatedType      string
	NegotiatedEncodings []string // application order, innermost first
	CompressOnTheFly    bool

	FileAddress []byte
	FileInfo    os.FileInfo

	MimeFlag bool // false for HTTP/0.9: body-only, no headers

	HostName    string // vhost hostname, lowercased
	HostDir     string // vhost subdirectory prefix, if any
	TildeMapped bool   // OrigFilename was rewritten by the tilde mapper

	AuthMemo AuthMemo
}

// Reset clears per-request fields while retaining backing-array storage for
// ReadBuf and Out, matching spec §3's keep-alive reuse policy.
func (c *Connection) Reset() {
	c.ReadBuf = c.ReadBuf[:0]
	c.ReadIndex = 0
	c.CheckedIndex = 0
	c.ScanState = reqstate.StateFirstWord
	c.Method = MethodUnknown
	c.Protocol = ""
	c.OneOne = false
	c.EncodedURL = ""
	c.DecodedURL = ""
	c.OrigFilename = ""
	c.ExpandedFilename = ""
	c.PathInfo = ""
	c.Query = ""
	c.Referer = ""
	c.UserAgent = ""
	c.AcceptList = ""
	c.AcceptEncoding = c.AcceptEncoding[:0]
	c.AcceptLanguage = ""
	c.Cookie = ""
	c.ContentType = ""
	c.ContentLength = -1
	c.Host = ""
	c.Authorization = ""
	c.RemoteUser = ""
	c.Range = RangeState{}
	c.HasIfModifiedSince = false
	c.KeepAliveRequested = false
	c.DoKeepAlive = false
	c.ShouldLinger = false
	c.Out.Reset()
	c.Status = 0
	c.BytesToSend = -1
	c.BytesSent = 0
	c.NegotiatedType = ""
	c.NegotiatedEncodings = nil
	c.CompressOnTheFly = false
	c.FileAddress = nil
	c.FileInfo = nil
	c.MimeFlag = true
	c.HostName = ""
	c.HostDir = ""
	c.TildeMapped = false
}

// NewConnection wraps an accepted net.Conn in a Connection ready for its
// first request.
func NewConnection(nc net.Conn) *Connection {
	c := &Connection{
		Conn:       nc,
		RemoteAddr: nc.RemoteAddr(),
		ReadBuf:    make([]byte, 0, 4096),
	}
	c.Reset()
	return c
}
