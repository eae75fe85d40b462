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

import "golang.org/x/crypto/bcrypt"

// Comparer securely compares a plaintext password against a hashed one
// (spec §4.6: "password verification uses the platform's crypt-style
// one-way function").
type Comparer interface {
	Compare(hashed, plaintext []byte) (bool, error)
}

// BcryptHash is the one verifier this gate supports; .htpasswd-style
// entries are expected to carry a bcrypt hash in the crypted field.
type BcryptHash struct{}

// Compare reports whether plaintext hashes to hashed under bcrypt.
func (BcryptHash) Compare(hashed, plaintext []byte) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hashed, plaintext)
	if err == bcrypt.ErrMismatchedHashAndPassword {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Interface guard
var _ Comparer = BcryptHash{}
