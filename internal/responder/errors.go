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

// Package responder assembles HTTP responses: status line and headers,
// range eligibility, ETags, and the built-in error-page fallback chain
// (spec §4.7, §7).
package responder

import (
	"errors"
	weakrand "math/rand"
	"path"
	"runtime"
	"strings"
)

// Kind is one of the seven error kinds of spec §7.
type Kind int

const (
	KindClientMalformed Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindNotImplemented
	KindOverloaded
	KindInternal
)

// StatusCode maps a Kind to its HTTP status code.
func (k Kind) StatusCode() int {
	switch k {
	case KindClientMalformed:
		return 400
	case KindUnauthenticated:
		return 401
	case KindForbidden:
		return 403
	case KindNotFound:
		return 404
	case KindNotImplemented:
		return 501
	case KindOverloaded:
		return 503
	case KindInternal:
		return 500
	default:
		return 500
	}
}

// HandlerError carries an error kind, optional client-facing sub-code (for
// KindClientMalformed triage, spec §7, "400 with a numeric sub-code"), and
// a generated ID/trace for log correlation.
type HandlerError struct {
	Kind    Kind
	SubCode int
	Err     error

	ID    string
	Trace string
}

// NewError builds a HandlerError for kind, generating an ID and call-site
// trace. If err already is a *HandlerError, it is returned with its
// kind/sub-code unchanged; only a missing ID or trace is filled in.
func NewError(kind Kind, subCode int, err error) *HandlerError {
	var existing *HandlerError
	if errors.As(err, &existing) {
		if existing.ID == "" {
			existing.ID = randString(9)
		}
		if existing.Trace == "" {
			existing.Trace = trace()
		}
		return existing
	}
	return &HandlerError{
		Kind:    kind,
		SubCode: subCode,
		Err:     err,
		ID:      randString(9),
		Trace:   trace(),
	}
}

func (e *HandlerError) Error() string {
	var s string
	if e.ID != "" {
		s += "{id=" + e.ID + "}"
	}
	if e.Trace != "" {
		s += " " + e.Trace
	}
	s += ": HTTP " + itoa(e.Kind.StatusCode())
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return strings.TrimSpace(s)
}

// Unwrap returns the underlying error value.
func (e *HandlerError) Unwrap() error { return e.Err }

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [8]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// randString returns n random characters, excluding easily-confused glyphs
// (I, l, 1, 0, O), for use as a log-correlation ID. Not cryptographically
// secure; only needs to be unique enough for grepping logs.
func randString(n int) string {
	const dict = "abcdefghijkmnpqrstuvwxyz23456789"
	b := make([]byte, n)
	for i := range b {
		//nolint:gosec
		b[i] = dict[weakrand.Int63()%int64(len(dict))]
	}
	return string(b)
}

func trace() string {
	if pc, file, line, ok := runtime.Caller(2); ok {
		filename := path.Base(file)
		pkgAndFuncName := path.Base(runtime.FuncForPC(pc).Name())
		return pkgAndFuncName + " (" + filename + ":" + itoa(line) + ")"
	}
	return ""
}
