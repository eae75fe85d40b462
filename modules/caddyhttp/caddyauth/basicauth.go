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

package caddyauth

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// AuthFile is a parsed "user:crypted" auth file (spec §4.6, "HTTP Basic
// auth file"), keyed by username.
type AuthFile map[string][]byte

// ParseAuthFile reads one "user:crypted" entry per line.
func ParseAuthFile(r io.Reader) (AuthFile, error) {
	entries := make(AuthFile)
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		user, crypted, ok := strings.Cut(line, ":")
		if !ok || user == "" {
			return nil, fmt.Errorf("auth file line %d: expected \"user:crypted\"", lineNo)
		}
		entries[user] = []byte(crypted)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// DecodeBasicAuth decodes an "Authorization: Basic <base64>" value into a
// username and password. The decoded payload is "user:pass[:extra]"; any
// extra fields beyond the first colon-separated pass are truncated, per
// spec §4.6.
func DecodeBasicAuth(headerValue string) (user, pass string, err error) {
	const prefix = "Basic "
	if !strings.HasPrefix(headerValue, prefix) {
		return "", "", fmt.Errorf("caddyauth: not a Basic authorization value")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(headerValue, prefix))
	if err != nil {
		return "", "", fmt.Errorf("caddyauth: invalid base64: %w", err)
	}
	parts := strings.SplitN(string(raw), ":", 3)
	if len(parts) < 2 {
		return "", "", fmt.Errorf("caddyauth: malformed credentials")
	}
	return parts[0], parts[1], nil
}

// Authenticate verifies user/pass against an auth file's entries using cmp.
func Authenticate(file AuthFile, user, pass string, cmp Comparer) (bool, error) {
	crypted, ok := file[user]
	if !ok {
		// Still run a comparison against a placeholder to avoid a timing
		// side-channel that reveals account existence.
		_, _ = cmp.Compare([]byte("$2a$10$invalidinvalidinvaliduinvalidinvalidinvalidinv"), []byte(pass))
		return false, nil
	}
	return cmp.Compare(crypted, []byte(pass))
}

// Realm formats the WWW-Authenticate challenge header value for dir.
func Realm(dir string) string {
	return fmt.Sprintf(`Basic realm=%q`, dir)
}
