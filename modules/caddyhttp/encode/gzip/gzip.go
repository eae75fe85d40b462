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

// Package caddygzip provides a pooled gzip.Writer for the responder's
// on-the-fly compression path (spec §4.7), used only when no precompressed
// sibling asset exists on disk.
package caddygzip

import (
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/gzip"
)

// DefaultLevel matches the teacher's own tuned default.
// Informed from http://blog.klauspost.com/gzip-performance-for-go-webservers/
const DefaultLevel = 5

// ValidateLevel reports whether level is within gzip's accepted range.
func ValidateLevel(level int) error {
	if level < gzip.StatelessCompression {
		return fmt.Errorf("gzip level too low; must be >= %d", gzip.StatelessCompression)
	}
	if level > gzip.BestCompression {
		return fmt.Errorf("gzip level too high; must be <= %d", gzip.BestCompression)
	}
	return nil
}

// Pool recycles gzip.Writer values at a fixed compression level.
type Pool struct {
	level int
	pool  sync.Pool
}

// NewPool builds a Pool at level, defaulting to DefaultLevel when 0.
func NewPool(level int) *Pool {
	if level == 0 {
		level = DefaultLevel
	}
	p := &Pool{level: level}
	p.pool.New = func() any {
		w, _ := gzip.NewWriterLevel(io.Discard, p.level)
		return w
	}
	return p
}

// Get returns a writer reset to write into w.
func (p *Pool) Get(w io.Writer) *gzip.Writer {
	gw := p.pool.Get().(*gzip.Writer)
	gw.Reset(w)
	return gw
}

// Put returns gw to the pool after the caller has Close()d it.
func (p *Pool) Put(gw *gzip.Writer) {
	p.pool.Put(gw)
}
