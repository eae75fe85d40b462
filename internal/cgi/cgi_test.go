package cgi

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("CGI dispatch test requires a POSIX shell")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "script.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

type fakeSlots struct {
	limit   int
	tracked map[int]struct{}
}

func newFakeSlots(limit int) *fakeSlots {
	return &fakeSlots{limit: limit, tracked: make(map[int]struct{})}
}

func (s *fakeSlots) Admit() bool     { return len(s.tracked) < s.limit }
func (s *fakeSlots) Track(pid int)   { s.tracked[pid] = struct{}{} }
func (s *fakeSlots) Untrack(pid int) { delete(s.tracked, pid) }

func TestDispatcher_Run_CapturesStdoutAndEnv(t *testing.T) {
	script := writeScript(t, `echo "got: $GREETING"`)

	d := &Dispatcher{Slots: newFakeSlots(4)}
	var out, stderr bytes.Buffer
	res, err := d.Run(context.Background(), script, []string{"GREETING=hello"}, []string{"script.sh"}, nil, &out, &stderr)
	require.NoError(t, err)
	require.NotEmpty(t, res.CorrelationID)
	require.Equal(t, "got: hello\n", out.String())
}

func TestDispatcher_Run_PipesStdin(t *testing.T) {
	script := writeScript(t, `cat`)

	d := &Dispatcher{Slots: newFakeSlots(4)}
	var out, stderr bytes.Buffer
	stdin := InterposeStdin([]byte("buffered-"), bytes.NewReader([]byte("live")))
	_, err := d.Run(context.Background(), script, nil, []string{"script.sh"}, stdin, &out, &stderr)
	require.NoError(t, err)
	require.Equal(t, "buffered-live", out.String())
}

func TestDispatcher_Run_RejectsWhenSlotsFull(t *testing.T) {
	script := writeScript(t, `echo hi`)
	slots := newFakeSlots(0)
	d := &Dispatcher{Slots: slots}
	var out, stderr bytes.Buffer
	_, err := d.Run(context.Background(), script, nil, []string{"script.sh"}, nil, &out, &stderr)
	require.ErrorIs(t, err, ErrOverloaded)
}

func TestDispatcher_Run_KillsOnTimeLimit(t *testing.T) {
	script := writeScript(t, `sleep 5`)
	d := &Dispatcher{Slots: newFakeSlots(4), TimeLimit: 50 * time.Millisecond}
	var out, stderr bytes.Buffer
	start := time.Now()
	_, err := d.Run(context.Background(), script, nil, []string{"script.sh"}, nil, &out, &stderr)
	require.Error(t, err)
	require.Less(t, time.Since(start), 4*time.Second)
}

func TestDispatcher_Run_TracksAndUntracksSlot(t *testing.T) {
	script := writeScript(t, `echo hi`)
	slots := newFakeSlots(4)
	d := &Dispatcher{Slots: slots}
	var out, stderr bytes.Buffer
	_, err := d.Run(context.Background(), script, nil, []string{"script.sh"}, nil, &out, &stderr)
	require.NoError(t, err)
	require.Empty(t, slots.tracked, "slot must be released after the child exits")
}

func TestInterposeStdin_NoBufferedBytesPassesThroughConn(t *testing.T) {
	conn := bytes.NewReader([]byte("conn-data"))
	r := InterposeStdin(nil, conn)
	require.Same(t, conn, r, "with no buffered bytes, the conn reader should be returned unwrapped")
}
