package caddygzip

import "os"

// Precompressed stats gzPath (a file's ".gz" sibling, as built by
// encode.PrecompressedPath) and returns its info when present, so the
// responder can serve it directly instead of compressing on the fly
// (spec §6).
func Precompressed(gzPath string) (os.FileInfo, bool) {
	st, err := os.Stat(gzPath)
	if err != nil || st.IsDir() {
		return nil, false
	}
	return st, true
}
