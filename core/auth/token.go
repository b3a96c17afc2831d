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
	stderrors "errors"
	"time"

	"access-core/core/model"
	"access-core/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

const minTokenSecretLength = 32

// SessionClaims are the claims carried by a portal session token
type SessionClaims struct {
	jwt.RegisteredClaims

	Email     string `json:"email"`
	Role      string `json:"role"`
	SessionID string `json:"sid"`
	DeviceID  string `json:"did,omitempty"`
}

// TokenService mints and verifies HS256 session tokens. Tokens are only
// honored while their backing login session record exists.
type TokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
}

// NewTokenService creates a token service over the given signing secret
func NewTokenService(secret []byte, expiry time.Duration, issuer string) (*TokenService, error) {
	if len(secret) < minTokenSecretLength {
		return nil, errors.ErrorData(logutils.StatusInvalid, "token secret", &logutils.FieldArgs{"length": len(secret)})
	}
	if expiry <= 0 {
		return nil, errors.ErrorData(logutils.StatusInvalid, "token expiry", &logutils.FieldArgs{"expiry": expiry.String()})
	}
	return &TokenService{secret: secret, expiry: expiry, issuer: issuer}, nil
}

// Expiry returns the configured session lifetime
func (t *TokenService) Expiry() time.Duration {
	return t.expiry
}

// Issue mints a signed session token for the account
func (t *TokenService) Issue(account model.Account, sessionID string, deviceID string) (string, time.Time, error) {
	now := time.Now().UTC()
	expires := now.Add(t.expiry)

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Email:     account.Email,
		Role:      account.Role,
		SessionID: sessionID,
		DeviceID:  deviceID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, errors.WrapErrorAction(logutils.ActionGenerate, model.TypeSessionToken, nil, err)
	}
	return signed, expires, nil
}

// Verify parses and validates a session token and returns its claims.
// Expired tokens and tokens with a bad signature are told apart through
// the error status.
func (t *TokenService) Verify(raw string) (*SessionClaims, error) {
	claims := SessionClaims{}
	_, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		status := utils.ErrorStatusInvalidToken
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			status = utils.ErrorStatusTokenExpired
		}
		return nil, errors.WrapErrorAction(logutils.ActionValidate, model.TypeSessionToken, nil, err).SetStatus(status)
	}
	if claims.SessionID == "" || claims.Subject == "" {
		return nil, errors.ErrorData(logutils.StatusMissing, logutils.TypeClaim, &logutils.FieldArgs{"sid": claims.SessionID}).SetStatus(utils.ErrorStatusInvalidToken)
	}
	return &claims, nil
}
