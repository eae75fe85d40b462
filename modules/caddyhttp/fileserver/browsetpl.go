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

// indexTemplate is the directory-listing document. Unlike the pluggable,
// JS-filterable grid this was adapted from, sorting is fixed server-side
// (spec §4.8) so there is no client-side re-sort affordance to wire up.
const indexTemplate = `<!DOCTYPE html>
<html>
	<head>
		<title>Index of {{.Path}}</title>
		<meta charset="utf-8">
		<meta name="viewport" content="width=device-width, initial-scale=1.0">
		<style>
			body { font-family: sans-serif; margin: 2em; }
			table { border-collapse: collapse; width: 100%; }
			th, td { text-align: left; padding: 4px 1em; }
			tr:hover { background-color: #f5f5f5; }
			td.size, th.size { text-align: right; }
		</style>
	</head>
	<body>
		<h1>Index of {{.Path}}</h1>
		<table>
			<thead>
				<tr><th>Name</th><th class="size">Size</th><th>Last Modified</th></tr>
			</thead>
			<tbody>
				{{- if .CanGoUp}}
				<tr><td><a href="../">Parent Directory</a></td><td class="size">&mdash;</td><td></td></tr>
				{{- end}}
				{{- range .Items}}
				<tr>
					<td><a href="{{.URL}}">{{.Name}}{{if .IsDir}}/{{end}}</a></td>
					{{- if .IsDir}}
					<td class="size">&mdash;</td>
					{{- else}}
					<td class="size">{{.HumanSize}}</td>
					{{- end}}
					<td>{{.HumanModTime "02-Jan-2006 15:04"}}</td>
				</tr>
				{{- end}}
			</tbody>
		</table>
	</body>
</html>
`
