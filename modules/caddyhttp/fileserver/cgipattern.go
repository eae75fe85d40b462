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

package fileserver

import "path"

// MatchCGIPattern reports whether name (a path component, not a full URL)
// matches one of the configured CGI glob patterns (spec §4.9, e.g.
// "*.cgi"). Patterns follow path.Match syntax.
func MatchCGIPattern(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}

// SplitCGIPath finds the first path component, scanning left to right,
// that matches one of patterns and reports the script path up to and
// including that component plus the remaining path-info trailer. This
// mirrors the original server's convention of dispatching to a CGI script
// found anywhere along the URL and treating the rest as PATH_INFO.
func SplitCGIPath(patterns []string, urlPath string) (scriptPath, pathInfo string, found bool) {
	clean := path.Clean("/" + urlPath)
	components := splitPathComponents(clean)

	built := ""
	for i, c := range components {
		if built == "" {
			built = c
		} else {
			built = built + "/" + c
		}
		if MatchCGIPattern(patterns, c) {
			rest := components[i+1:]
			return built, path.Join(rest...), true
		}
	}
	return "", "", false
}

func splitPathComponents(p string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(p); i++ {
		if i == len(p) || p[i] == '/' {
			if i > start {
				out = append(out, p[start:i])
			}
			start = i + 1
		}
	}
	return out
}
