package merecat

import (
	"crypto/tls"
	"net"
	"time"

	"go.uber.org/zap"
)

// CGISlots is the fixed-capacity table of live CGI child PIDs, keyed by
// PID and admitting at most the configured concurrency limit. Track/Untrack are called serially from the
// owning event loop; no locking is required (spec §5, "Shared state").
type CGISlots struct {
	limit int
	pids  map[int]struct{}
}

// NewCGISlots builds a slot table admitting at most limit concurrent children.
func NewCGISlots(limit int) *CGISlots {
	return &CGISlots{limit: limit, pids: make(map[int]struct{}, limit)}
}

// Live reports the current number of tracked children.
func (s *CGISlots) Live() int { return len(s.pids) }

// Admit reports whether one more CGI child may be started.
func (s *CGISlots) Admit() bool { return len(s.pids) < s.limit }

// Track records pid as a live CGI child. It is the caller's responsibility
// to ensure pid is a direct child of this process.
func (s *CGISlots) Track(pid int) { s.pids[pid] = struct{}{} }

// Untrack removes pid from the live set, typically called by the reaper
// once the child's exit status has been collected.
func (s *CGISlots) Untrack(pid int) { delete(s.pids, pid) }

// ServerContext holds process-wide configuration; the engine never modifies it.
// It corresponds to spec §3's ServerContext data model.
type ServerContext struct {
	// BindAddrsV4, BindAddrsV6 are the listen addresses the event loop binds;
	// the engine never calls Listen itself.
	BindAddrsV4 []string
	BindAddrsV6 []string

	// ServerName is the canonical server hostname; Aliases maps additional
	// recognized hostnames to it. The engine does not read Aliases.
	ServerName string
	Aliases    map[string]string

	// DocumentRoot is the absolute path requests are resolved against.
	DocumentRoot string

	// CGIPattern is a glob (path.Match syntax) identifying CGI scripts;
	// empty disables CGI entirely.
	CGIPattern   string
	CGISlots     *CGISlots
	CGITimeLimit time.Duration

	// Charset is the default text charset advertised in Content-Type.
	Charset string

	// MaxAgeSeconds populates Cache-Control: max-age=... on successful
	// static responses.
	MaxAgeSeconds int

	// VHost enables hostname-based document subtrees (spec §4.4.3).
	VHost            bool
	VHostDirLevels   int
	GlobalPassword   bool // auth files at DocumentRoot apply site-wide
	DotfileListing   bool
	NoSymlinkCheck   bool // server is chrooted; short-circuit symlink walk
	URLPattern       string
	LocalPattern     string
	NoEmptyReferers  bool
	TildeUserDirMode TildeMode

	// TildePrefix is used when TildeUserDirMode == TildePrefixStyle.
	TildePrefix string
	// TildePostfix is used when TildeUserDirMode == TildeHomeDirStyle.
	TildePostfix string

	// IndexNames is the ordered list of index-file candidates.
	IndexNames []string

	// EnableDirListing gates synthesized directory listings when no index
	// file is present (spec §4.8); false yields 404 for bare directories.
	EnableDirListing bool

	// ApprovedAltRoots are additional absolute prefixes the path resolver
	// accepts besides DocumentRoot (e.g. tilde home directories).
	ApprovedAltRoots []string

	// TLSConfig is opaque to the engine; callers pass it through to their
	// own secure_read/secure_write/secure_open/secure_close equivalents.
	TLSConfig *tls.Config

	Logger *zap.Logger
}

// TildeMode selects the tilde-mapping policy of spec §4.4.2.
type TildeMode int

const (
	TildeDisabled TildeMode = iota
	TildePrefixStyle
	TildeHomeDirStyle
)

// Listener is a minimal abstraction over a bound socket; production callers
// wrap *net.TCPListener or a TLS-terminating equivalent.
type Listener interface {
	Accept() (net.Conn, error)
	Close() error
	Addr() net.Addr
}
