package caddygzip

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateLevel(t *testing.T) {
	require.NoError(t, ValidateLevel(DefaultLevel))
	require.Error(t, ValidateLevel(-5))
	require.Error(t, ValidateLevel(100))
}

func TestPool_RoundTrip(t *testing.T) {
	p := NewPool(DefaultLevel)
	var buf bytes.Buffer

	gw := p.Get(&buf)
	_, err := gw.Write([]byte("hello, world"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	p.Put(gw)

	r, err := gzip.NewReader(&buf)
	require.NoError(t, err)
	defer r.Close()
	var out bytes.Buffer
	_, err = out.ReadFrom(r)
	require.NoError(t, err)
	require.Equal(t, "hello, world", out.String())
}

func TestPool_ReusesWriters(t *testing.T) {
	p := NewPool(DefaultLevel)
	var buf1, buf2 bytes.Buffer

	gw1 := p.Get(&buf1)
	require.NoError(t, gw1.Close())
	p.Put(gw1)

	gw2 := p.Get(&buf2)
	require.Same(t, gw1, gw2, "pool should reuse the returned writer")
	require.NoError(t, gw2.Close())
}

func TestPrecompressed(t *testing.T) {
	dir := t.TempDir()
	gzPath := filepath.Join(dir, "index.html.gz")

	_, ok := Precompressed(gzPath)
	require.False(t, ok)

	require.NoError(t, os.WriteFile(gzPath, []byte("fake gzip bytes"), 0o644))
	st, ok := Precompressed(gzPath)
	require.True(t, ok)
	require.Equal(t, int64(len("fake gzip bytes")), st.Size())
}
