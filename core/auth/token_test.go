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
	"time"

	"access-core/core/model"
	"access-core/utils"

	"github.com/rokwire/logging-library-go/v2/errors"
	"gotest.tools/assert"
)

func testTokenSecret(fill byte) []byte {
	return bytes.Repeat([]byte{fill}, minTokenSecretLength)
}

func testAccount() model.Account {
	return model.Account{ID: "account-1", Email: "jordan@example.com", Name: "Jordan", Role: model.RoleUser, Status: model.AccountStatusActive}
}

func TestTokenIssueVerify(t *testing.T) {
	service, err := NewTokenService(testTokenSecret(1), time.Hour, "portal-core")
	if err != nil {
		t.Fatal(err)
	}

	signed, expires, err := service.Issue(testAccount(), "session-1", "device-1")
	if err != nil {
		t.Fatal(err)
	}
	if !expires.After(time.Now()) {
		t.Error("token already expired")
	}

	claims, err := service.Verify(signed)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, claims.Subject, "account-1", "subject is different")
	assert.Equal(t, claims.Email, "jordan@example.com", "email is different")
	assert.Equal(t, claims.Role, model.RoleUser, "role is different")
	assert.Equal(t, claims.SessionID, "session-1", "session id is different")
	assert.Equal(t, claims.DeviceID, "device-1", "device id is different")
}

func TestTokenVerifyWrongSecret(t *testing.T) {
	issuing, _ := NewTokenService(testTokenSecret(1), time.Hour, "portal-core")
	verifying, _ := NewTokenService(testTokenSecret(2), time.Hour, "portal-core")

	signed, _, _ := issuing.Issue(testAccount(), "session-1", "")

	_, err := verifying.Verify(signed)
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusInvalidToken, "status is different")
}

func TestTokenVerifyExpired(t *testing.T) {
	service, _ := NewTokenService(testTokenSecret(1), -time.Minute, "portal-core")

	signed, _, _ := service.Issue(testAccount(), "session-1", "")

	_, err := service.Verify(signed)
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusTokenExpired, "status is different")
}

func TestTokenVerifyGarbage(t *testing.T) {
	service, _ := NewTokenService(testTokenSecret(1), time.Hour, "portal-core")

	_, err := service.Verify("not-a-token")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusInvalidToken, "status is different")
}

func TestTokenServiceShortSecret(t *testing.T) {
	_, err := NewTokenService([]byte("short"), time.Hour, "portal-core")
	if err == nil {
		t.Error("we are expecting error")
	}
}
