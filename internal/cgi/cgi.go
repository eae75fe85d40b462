// Package cgi dispatches requests to external CGI/1.1 scripts: building
// argv/envp, piping the request body and already-buffered bytes to the
// child's stdin, and killing children that overrun their time limit (spec
// §4.9), grounded on libhttpd.c's cgi/cgi_child/make_envp/make_argp/
// cgi_interpose_input/cgi_kill.
package cgi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// ErrOverloaded is returned by Run when the caller's slot table is full
// (spec §4.9, "CGI_BUSY" / 503 response).
var ErrOverloaded = errors.New("cgi: concurrency limit reached")

// Slots tracks live CGI children against a fixed concurrency limit, the Go
// equivalent of httpd_cgi_track/httpd_cgi_untrack's fixed-size pid table.
type Slots interface {
	Admit() bool
	Track(pid int)
	Untrack(pid int)
}

// Dispatcher runs CGI scripts as child processes.
type Dispatcher struct {
	Slots     Slots
	TimeLimit time.Duration // 0 disables the kill timer
}

// Result carries the outcome of a completed CGI invocation: a per-run
// correlation ID and the error the child's Wait returned.
type Result struct {
	CorrelationID string
	ExitErr       error
}

// Run executes the script at expnFilename with the given env/args,
// wiring stdin/stdout/stderr to the supplied streams (spec's interposer
// goroutines stand in for the C implementation's interposer
// sub-processes: one goroutine copies the already-buffered request bytes
// plus the live connection into the child's stdin; the child's stdout is
// written directly to out since this package does not itself reparse CGI
// response headers).
func (d *Dispatcher) Run(ctx context.Context, expnFilename string, env, args []string, stdin io.Reader, out, stderr io.Writer) (Result, error) {
	res := Result{CorrelationID: uuid.NewString()}

	if d.Slots != nil && !d.Slots.Admit() {
		return res, ErrOverloaded
	}

	if d.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.TimeLimit)
		defer cancel()
	}

	var extraArgs []string
	if len(args) > 1 {
		extraArgs = args[1:]
	}
	cmd := exec.CommandContext(ctx, expnFilename, extraArgs...)
	cmd.Env = env
	cmd.Dir = filepath.Dir(expnFilename)
	cmd.Stdin = stdin
	cmd.Stdout = out
	cmd.Stderr = stderr
	// When ctx ends the child's process group gets SIGINT; a child still
	// running five seconds later is sent SIGKILL.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error { return syscall.Kill(-cmd.Process.Pid, syscall.SIGINT) }
	cmd.WaitDelay = 5 * time.Second

	if err := cmd.Start(); err != nil {
		res.ExitErr = err
		return res, err
	}

	if d.Slots != nil {
		d.Slots.Track(cmd.Process.Pid)
		defer d.Slots.Untrack(cmd.Process.Pid)
	}

	res.ExitErr = cmd.Wait()
	return res, res.ExitErr
}

// InterposeStdin returns a reader that replays buffered (already-read)
// request bytes before continuing to read from conn, matching
// cgi_interpose_input's job of forwarding bytes the server had already
// pulled off the wire into its own buffer before forking the child.
func InterposeStdin(buffered []byte, conn io.Reader) io.Reader {
	if len(buffered) == 0 {
		return conn
	}
	return io.MultiReader(bytes.NewReader(buffered), conn)
}
