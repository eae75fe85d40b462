// Copyright 2015 Matthew Holt and The Caddy Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package encode implements spec §4.5/§4.7's single supported content
// encoding, gzip: a precompressed-sibling lookup that takes priority over
// on-the-fly compression, and the minimum-length gate below which
// compression is skipped entirely. Adapted from Caddy's general-purpose,
// pluggable encode middleware down to the one encoding this spec names.
package encode

// MinLength is the minimum response body size, in bytes, below which
// on-the-fly compression is skipped (teacher's defaultMinLength).
const MinLength = 512

// PrecompressedExt is the sibling-file suffix a precompressed gzip asset
// carries on disk (spec §6: "Pre-gzipped asset... advertised with
// Content-Encoding: gzip").
const PrecompressedExt = ".gz"

// PrecompressedPath returns the sibling path the responder should stat
// before falling back to on-the-fly compression.
func PrecompressedPath(filename string) string {
	return filename + PrecompressedExt
}
