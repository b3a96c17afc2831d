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
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"access-core/core/model"
	"access-core/utils"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

const cipherKeyLength = 32

// SecretCipher seals and opens vault secrets with AES-256-GCM. A fresh
// nonce is generated per seal and stored alongside the ciphertext.
type SecretCipher struct {
	aead cipher.AEAD
}

// NewSecretCipher creates a cipher over the given 32 byte key
func NewSecretCipher(key []byte) (*SecretCipher, error) {
	if len(key) != cipherKeyLength {
		return nil, errors.ErrorData(logutils.StatusInvalid, "cipher key", &logutils.FieldArgs{"length": len(key)})
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionInitialize, "cipher", nil, err).SetStatus(utils.ErrorStatusCrypto)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionInitialize, "gcm", nil, err).SetStatus(utils.ErrorStatusCrypto)
	}
	return &SecretCipher{aead: aead}, nil
}

// Seal encrypts the plaintext into a storable secret
func (c *SecretCipher) Seal(plaintext string) (*model.Secret, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionGenerate, "nonce", nil, err).SetStatus(utils.ErrorStatusCrypto)
	}
	ciphertext := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return &model.Secret{Ciphertext: ciphertext, Nonce: nonce}, nil
}

// Open decrypts a stored secret. Tampered or foreign ciphertexts fail
// authentication and never produce partial output.
func (c *SecretCipher) Open(secret model.Secret) (string, error) {
	if secret.IsZero() || len(secret.Nonce) != c.aead.NonceSize() {
		return "", errors.ErrorData(logutils.StatusInvalid, "secret", nil).SetStatus(utils.ErrorStatusCrypto)
	}
	plaintext, err := c.aead.Open(nil, secret.Nonce, secret.Ciphertext, nil)
	if err != nil {
		return "", errors.WrapErrorAction("decrypting", "secret", nil, err).SetStatus(utils.ErrorStatusCrypto)
	}
	return string(plaintext), nil
}
