// Copyright 2022 Board of Trustees of the University of Illinois.
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

package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"strings"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// Error statuses attached to errors so the web adapter and clients can
// tell failure classes apart without parsing messages
const (
	// ErrorStatusInvalidCredentials bad email/password pair
	ErrorStatusInvalidCredentials string = "invalid-credentials"
	// ErrorStatusAccountSuspended account is suspended or pending
	ErrorStatusAccountSuspended string = "account-suspended"
	// ErrorStatusNoAccount no portal account behind a federated identity
	ErrorStatusNoAccount string = "no-account"
	// ErrorStatusOtpMismatch wrong two step code, attempts remain
	ErrorStatusOtpMismatch string = "otp-mismatch"
	// ErrorStatusTokenExpired token expired, consumed or burned
	ErrorStatusTokenExpired string = "token-expired"
	// ErrorStatusInvalidToken malformed or unknown token
	ErrorStatusInvalidToken string = "invalid-token"
	// ErrorStatusInvalidTransition disallowed device state change
	ErrorStatusInvalidTransition string = "invalid-transition"
	// ErrorStatusForbidden authenticated but not allowed
	ErrorStatusForbidden string = "forbidden"
	// ErrorStatusDevicePending device awaiting administrator review
	ErrorStatusDevicePending string = "device-pending"
	// ErrorStatusDeviceBlocked device rejected or revoked
	ErrorStatusDeviceBlocked string = "device-blocked"
	// ErrorStatusIPBlocked source address not allowed
	ErrorStatusIPBlocked string = "ip-blocked"
	// ErrorStatusCrypto seal/open failure in the secret cipher
	ErrorStatusCrypto string = "crypto-error"
	// ErrorStatusTransient storage or downstream hiccup, safe to retry
	ErrorStatusTransient string = "transient"
	// ErrorStatusNotFound entity does not exist
	ErrorStatusNotFound string = "not-found"
	// ErrorStatusAlreadyExists entity already exists
	ErrorStatusAlreadyExists string = "already-exists"
)

// GenerateRandomBytes returns securely generated random bytes
func GenerateRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionGenerate, "random bytes", nil, err)
	}
	return b, nil
}

// GenerateRandomString returns a URL safe securely generated random string
func GenerateRandomString(n int) (string, error) {
	b, err := GenerateRandomBytes(n)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateNumericCode returns a securely generated code of the given
// number of decimal digits, zero padded
func GenerateNumericCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", errors.WrapErrorAction(logutils.ActionGenerate, "numeric code", nil, err)
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

// HashToken returns the hex encoded SHA-256 digest of a token. Opaque
// tokens are stored only in this form.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}

// ClientIP extracts the originating address of a request, preferring the
// first X-Forwarded-For hop when the portal sits behind a proxy
func ClientIP(req *http.Request) string {
	if forwarded := req.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}

// Contains checks if the slice holds the given string
func Contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
