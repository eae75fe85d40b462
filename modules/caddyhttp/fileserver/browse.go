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

import (
	"bytes"
	"fmt"
	"html/template"
)

var browseTmpl = template.Must(template.New("index").Parse(indexTemplate))

// Index renders the directory listing for dirPath (the resolved filesystem
// path) as seen at urlPath (the request path, used for the title and the
// "go up" link). charset is interpolated into the returned content type;
// listDotfiles mirrors the list_dotfiles server directive (spec §4.8).
//
// The response body is never compressed (spec §4.8: "compression disabled
// for this response") and is always rendered fresh — directory listings
// aren't cached or given an ETag.
func Index(dirPath, urlPath, charset string, listDotfiles bool) (body []byte, contentType string, err error) {
	l, err := buildListing(dirPath, urlPath, listDotfiles)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := browseTmpl.Execute(&buf, l); err != nil {
		return nil, "", err
	}

	ct := "text/html"
	if charset != "" {
		ct = fmt.Sprintf("text/html; charset=%s", charset)
	}
	return buf.Bytes(), ct, nil
}
