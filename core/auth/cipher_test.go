// Copyright 2023 Board of Trustees of the University of Illinois.
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

package auth

import (
	"bytes"
	"testing"

	"gotest.tools/assert"
)

func testCipherKey() []byte {
	return bytes.Repeat([]byte{7}, cipherKeyLength)
}

func TestSecretCipherRoundTrip(t *testing.T) {
	cipher, err := NewSecretCipher(testCipherKey())
	if err != nil {
		t.Fatal(err)
	}

	sealed, err := cipher.Seal("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if sealed.IsZero() {
		t.Error("sealed secret is empty")
	}

	opened, err := cipher.Open(*sealed)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, opened, "hunter2", "plaintext is different")
}

func TestSecretCipherUniqueNonces(t *testing.T) {
	cipher, _ := NewSecretCipher(testCipherKey())

	first, _ := cipher.Seal("same value")
	second, _ := cipher.Seal("same value")

	if bytes.Equal(first.Nonce, second.Nonce) {
		t.Error("nonce reused across seals")
	}
	if bytes.Equal(first.Ciphertext, second.Ciphertext) {
		t.Error("ciphertext repeated across seals")
	}
}

func TestSecretCipherTamper(t *testing.T) {
	cipher, _ := NewSecretCipher(testCipherKey())

	sealed, _ := cipher.Seal("hunter2")
	sealed.Ciphertext[0] ^= 0xff

	_, err := cipher.Open(*sealed)
	if err == nil {
		t.Error("we are expecting error")
	}
}

func TestSecretCipherBadKey(t *testing.T) {
	_, err := NewSecretCipher([]byte("short"))
	if err == nil {
		t.Error("we are expecting error")
	}
}
