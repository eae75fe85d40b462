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

// Package fileserver renders a directory index for a request path that
// names a directory (spec §4.8): a two-pass listing (directories sorted by
// name, then files sorted by name), skipping hidden and reserved entries.
package fileserver

import (
	"net/url"
	"os"
	"path"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mwjian/merecat/modules/caddyhttp/caddyauth"
)

// entry is one row of a directory listing.
type entry struct {
	Name    string
	IsDir   bool
	Size    int64
	ModTime time.Time
	URL     string
}

// HumanSize renders Size using base-1000 units (B, k, M, G, T, P), never
// the IEC/base-1024 units a generic file manager would use.
func (e entry) HumanSize() string {
	return humanize.Bytes(uint64(e.Size))
}

// HumanModTime renders ModTime in the server's local timezone, matching
// the original server's use of localtime(3) rather than UTC.
func (e entry) HumanModTime(layout string) string {
	return e.ModTime.Local().Format(layout)
}

// listing is the data a directory-index template renders.
type listing struct {
	Name     string
	Path     string
	CanGoUp  bool
	NumDirs  int
	NumFiles int
	Items    []entry
}

// hiddenFilenameMax is the length threshold of spec §4.8's dotfile rule:
// single- and double-character dotfiles (".", "..") are always skipped
// regardless of list_dotfiles, since they aren't meaningful index entries.
const hiddenFilenameMax = 2

// shouldHide reports whether name must be omitted from the listing: it is
// a reserved control filename, or it's a dotfile and the caller hasn't
// opted into showing dotfiles.
func shouldHide(name string, listDotfiles bool) bool {
	if caddyauth.IsReservedFilename(name) {
		return true
	}
	if len(name) > 0 && name[0] == '.' {
		if !listDotfiles || len(name) <= hiddenFilenameMax {
			return true
		}
	}
	return false
}

// buildListing reads dirPath's entries and produces the fixed two-pass
// ordering of spec §4.8: all subdirectories sorted by name, followed by
// all regular files sorted by name. urlPath is the request path that
// resolved to this directory (used to build item hrefs and the
// "go up" affordance).
func buildListing(dirPath, urlPath string, listDotfiles bool) (*listing, error) {
	dirEntries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var dirs, files []entry
	for _, de := range dirEntries {
		name := de.Name()
		if shouldHide(name, listDotfiles) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		e := entry{
			Name:    name,
			IsDir:   de.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			URL:     hrefFor(name, de.IsDir()),
		}
		if e.IsDir {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	items := make([]entry, 0, len(dirs)+len(files))
	items = append(items, dirs...)
	items = append(items, files...)

	return &listing{
		Name:     path.Base(path.Clean(urlPath)),
		Path:     urlPath,
		CanGoUp:  urlPath != "/" && urlPath != "",
		NumDirs:  len(dirs),
		NumFiles: len(files),
		Items:    items,
	}, nil
}

// hrefFor URL-escapes name for inclusion in an href relative to the
// directory listing itself.
func hrefFor(name string, isDir bool) string {
	u := url.URL{Path: name}
	escaped := u.String()
	if isDir {
		escaped += "/"
	}
	return escaped
}
