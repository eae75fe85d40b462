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

// Package caddyauth implements the access/auth gate (spec §4.6): a
// directory-chain walk for IP-CIDR access files and HTTP Basic auth files,
// with credential memoisation across requests on the same connection.
package caddyauth

import (
	"net"
	"os"
	"path"
	"path/filepath"
	"time"
)

const (
	ipAccessFilename = ".htaccess_ip"
	authFilename     = ".htpasswd"
)

// Gate walks the directory chain from a request's directory up to the
// document root, applying IP access rules and HTTP Basic auth found along
// the way. GlobalPassword mirrors spec §4.6's "global-password mode": when
// set, an auth file at the document root applies site-wide and
// per-directory files are only consulted if the root yields no auth file.
type Gate struct {
	DocumentRoot   string
	GlobalPassword bool
	Hash           Comparer
}

// NewGate builds a Gate using bcrypt for credential verification, the
// teacher's production hash (spec §4.6).
func NewGate(documentRoot string, globalPassword bool) *Gate {
	return &Gate{DocumentRoot: documentRoot, GlobalPassword: globalPassword, Hash: BcryptHash{}}
}

// CheckIP walks up from dir (a directory under DocumentRoot, or
// DocumentRoot itself) looking for an ip access file, applying the first
// one found. No file anywhere in the chain means unrestricted access.
func (g *Gate) CheckIP(dir string, remote net.IP) (allowed bool, err error) {
	found, err := findUpward(dir, g.DocumentRoot, ipAccessFilename)
	if err != nil {
		return false, err
	}
	if found == "" {
		return true, nil
	}
	f, err := os.Open(found)
	if err != nil {
		return false, err
	}
	defer f.Close()
	rules, err := ParseIPAccessFile(f)
	if err != nil {
		return false, err
	}
	return CheckIPRules(rules, remote), nil
}

// AuthMemo is the credential memo the engine's connection state carries
// (spec §3 "credential memo", invariant P6): the last successful (auth file,
// mtime, user, crypted) tuple. CheckAuth reads the auth file and compares
// the password on every call, so a memo hit saves neither step.
type AuthMemo struct {
	AuthFilePath   string
	User           string
	CryptedPass    string
	AuthFileModeAt time.Time
}

// CheckAuth resolves the auth file governing dir (honoring GlobalPassword),
// and verifies user/pass against it, updating memo after a successful check.
// The auth file is opened and parsed, and the password compared against its
// hash, on every call, whether or not memo matches.
// A nil auth file anywhere in the chain (and at the root, in global-password
// mode) means the directory requires no authentication.
func (g *Gate) CheckAuth(dir, user, pass string, memo *AuthMemo) (required, ok bool, err error) {
	authPath, err := g.resolveAuthFile(dir)
	if err != nil {
		return false, false, err
	}
	if authPath == "" {
		return false, false, nil
	}

	st, err := os.Stat(authPath)
	if err != nil {
		return true, false, err
	}

	f, err := os.Open(authPath)
	if err != nil {
		return true, false, err
	}
	defer f.Close()
	entries, err := ParseAuthFile(f)
	if err != nil {
		return true, false, err
	}
	crypted, known := entries[user]

	// A memo hit means this (file, mtime, user, crypted) tuple was already
	// seen; the password is still checked against the cached hash
	// (libhttpd.c:1314-1323, spec §3, P6). The file was already read above.
	if memo != nil && known && memo.AuthFilePath == authPath &&
		memo.AuthFileModeAt.Equal(st.ModTime()) && memo.User == user &&
		memo.CryptedPass == string(crypted) {
		ok, err := g.Hash.Compare(crypted, []byte(pass))
		if err != nil {
			return true, false, err
		}
		return true, ok, nil
	}

	authed, err := Authenticate(entries, user, pass, g.Hash)
	if err != nil {
		return true, false, err
	}

	if memo != nil && authed {
		memo.AuthFilePath = authPath
		memo.User = user
		memo.AuthFileModeAt = st.ModTime()
		memo.CryptedPass = string(crypted)
	}
	return true, authed, nil
}

// resolveAuthFile finds the auth file governing dir, honoring
// GlobalPassword's root-first precedence.
func (g *Gate) resolveAuthFile(dir string) (string, error) {
	if g.GlobalPassword {
		rootAuth := filepath.Join(g.DocumentRoot, authFilename)
		if fileExists(rootAuth) {
			return rootAuth, nil
		}
	}
	return findUpward(dir, g.DocumentRoot, authFilename)
}

// findUpward searches dir, then each parent, up to and including root, for
// name, returning the first hit or "" if none exists anywhere in the chain
// (spec §4.6, "look-up algorithm").
func findUpward(dir, root, name string) (string, error) {
	root = filepath.Clean(root)
	cur := filepath.Clean(dir)
	for {
		candidate := filepath.Join(cur, name)
		if fileExists(candidate) {
			return candidate, nil
		}
		if cur == root || cur == "." || cur == string(filepath.Separator) {
			return "", nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", nil
		}
		// Never walk above root.
		rel, err := filepath.Rel(root, parent)
		if err != nil || rel == ".." || (len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator)) {
			return "", nil
		}
		cur = parent
	}
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

// reservedFilenames are skipped by the directory indexer (spec §4.8) since
// they are the auth/access files this gate consults.
var reservedFilenames = []string{ipAccessFilename, authFilename}

// IsReservedFilename reports whether name is one of the access-control
// files the directory indexer must always hide.
func IsReservedFilename(name string) bool {
	for _, r := range reservedFilenames {
		if path.Base(name) == r {
			return true
		}
	}
	return false
}
