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
	"context"
	"testing"
	"time"

	genmocks "access-core/core/mocks"
	"access-core/core/model"
	"access-core/utils"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/stretchr/testify/mock"
	"gotest.tools/assert"
)

func testAuth(t *testing.T, storage *genmocks.Storage, emailer *genmocks.Emailer) *Auth {
	t.Helper()
	config := Config{TokenSecret: testTokenSecret(1), SessionExpiry: time.Hour, Issuer: "portal-core"}
	auth, err := NewAuth(context.Background(), config, storage, emailer, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	return auth
}

func activeAccount(t *testing.T, auth *Auth, password string) model.Account {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	account := testAccount()
	account.PasswordHash = hash
	return account
}

func TestLoginWrongPassword(t *testing.T) {
	storage := genmocks.Storage{}
	auth := testAuth(t, &storage, &genmocks.Emailer{})
	account := activeAccount(t, auth, "correct horse")

	storage.On("FindAccountByEmail", "jordan@example.com").Return(&account, nil)
	storage.On("InsertAuditEvent", mock.AnythingOfType("model.AuditEvent")).Return(nil)

	_, err := auth.Login("jordan@example.com", "wrong", DeviceInfo{Fingerprint: "fp-1"}, "10.0.0.1")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusInvalidCredentials, "status is different")
}

func TestLoginUnknownEmail(t *testing.T) {
	storage := genmocks.Storage{}
	auth := testAuth(t, &storage, &genmocks.Emailer{})

	storage.On("FindAccountByEmail", "nobody@example.com").Return(nil, nil)
	storage.On("InsertAuditEvent", mock.AnythingOfType("model.AuditEvent")).Return(nil)

	//an unknown email reads exactly like a wrong password
	_, err := auth.Login("Nobody@Example.com", "whatever", DeviceInfo{Fingerprint: "fp-1"}, "10.0.0.1")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusInvalidCredentials, "status is different")
	storage.AssertCalled(t, "FindAccountByEmail", "nobody@example.com")
}

func TestLoginSuspended(t *testing.T) {
	storage := genmocks.Storage{}
	auth := testAuth(t, &storage, &genmocks.Emailer{})
	account := activeAccount(t, auth, "correct horse")
	account.Status = model.AccountStatusSuspended

	storage.On("FindAccountByEmail", "jordan@example.com").Return(&account, nil)
	storage.On("InsertAuditEvent", mock.AnythingOfType("model.AuditEvent")).Return(nil)

	_, err := auth.Login("jordan@example.com", "correct horse", DeviceInfo{Fingerprint: "fp-1"}, "10.0.0.1")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusAccountSuspended, "status is different")
}

func TestLoginPendingDeviceStillGetsSession(t *testing.T) {
	storage := genmocks.Storage{}
	auth := testAuth(t, &storage, &genmocks.Emailer{})
	account := activeAccount(t, auth, "correct horse")

	pending := model.Device{ID: "device-1", AccountID: account.ID, Fingerprint: "fp-1", Status: model.DeviceStatusPending}
	storage.On("FindAccountByEmail", "jordan@example.com").Return(&account, nil)
	storage.On("UpsertDevice", mock.AnythingOfType("model.Device")).Return(&pending, nil)
	storage.On("InsertLoginSession", mock.AnythingOfType("model.LoginSession")).Return(nil)
	storage.On("UpdateAccountLoginInfo", account.ID, "10.0.0.1", mock.AnythingOfType("time.Time")).Return(nil)
	storage.On("InsertAuditEvent", mock.AnythingOfType("model.AuditEvent")).Return(nil)

	//a first sight device does not block the sign in, it only shows up
	//as pending on the result
	result, err := auth.Login("jordan@example.com", "correct horse", DeviceInfo{Fingerprint: "fp-1"}, "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if result.Token == "" {
		t.Fatal("token is empty")
	}
	assert.Equal(t, result.Device.Status, model.DeviceStatusPending, "device status is different")
}

func TestLoginBlockedIP(t *testing.T) {
	storage := genmocks.Storage{}
	auth := testAuth(t, &storage, &genmocks.Emailer{})
	account := activeAccount(t, auth, "correct horse")
	account.IPRestricted = true
	account.AllowedIPs = []string{"203.0.113.5"}

	allowlist := []model.IPAllowlistEntry{{ID: "ip-1", IP: "192.168.1.1", Active: true}}
	storage.On("FindAccountByEmail", "jordan@example.com").Return(&account, nil)
	storage.On("FindIPAllowlist", true).Return(allowlist, nil)
	storage.On("InsertAuditEvent", mock.AnythingOfType("model.AuditEvent")).Return(nil)

	_, err := auth.Login("jordan@example.com", "correct horse", DeviceInfo{Fingerprint: "fp-1"}, "10.0.0.1")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusIPBlocked, "status is different")
}

func TestLoginUnrestrictedAccountIgnoresAllowlist(t *testing.T) {
	storage := genmocks.Storage{}
	auth := testAuth(t, &storage, &genmocks.Emailer{})
	account := activeAccount(t, auth, "correct horse")

	approved := model.Device{ID: "device-1", AccountID: account.ID, Fingerprint: "fp-1", Status: model.DeviceStatusApproved}
	storage.On("FindAccountByEmail", "jordan@example.com").Return(&account, nil)
	storage.On("UpsertDevice", mock.AnythingOfType("model.Device")).Return(&approved, nil)
	storage.On("InsertLoginSession", mock.AnythingOfType("model.LoginSession")).Return(nil)
	storage.On("UpdateAccountLoginInfo", account.ID, "10.0.0.1", mock.AnythingOfType("time.Time")).Return(nil)
	storage.On("InsertAuditEvent", mock.AnythingOfType("model.AuditEvent")).Return(nil)

	//the portal allowlist only applies to restricted accounts
	result, err := auth.Login("jordan@example.com", "correct horse", DeviceInfo{Fingerprint: "fp-1"}, "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if result.Token == "" {
		t.Fatal("token is empty")
	}
	storage.AssertNotCalled(t, "FindIPAllowlist", true)
}

func TestCheckIPAccessPortalAllowlistAdmitsRestricted(t *testing.T) {
	storage := genmocks.Storage{}
	auth := testAuth(t, &storage, &genmocks.Emailer{})

	account := testAccount()
	account.IPRestricted = true
	account.AllowedIPs = []string{"203.0.113.5"}
	allowlist := []model.IPAllowlistEntry{{ID: "ip-1", IP: "10.0.0.1", Active: true}}
	storage.On("FindIPAllowlist", true).Return(allowlist, nil)

	//the account list and the portal allowlist work as a union
	err := auth.CheckIPAccess(account, "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	err = auth.CheckIPAccess(account, "203.0.113.5")
	if err != nil {
		t.Fatal(err)
	}
	err = auth.CheckIPAccess(account, "198.51.100.9")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusIPBlocked, "status is different")
}

func TestLoginSuccess(t *testing.T) {
	storage := genmocks.Storage{}
	auth := testAuth(t, &storage, &genmocks.Emailer{})
	account := activeAccount(t, auth, "correct horse")

	approved := model.Device{ID: "device-1", AccountID: account.ID, Fingerprint: "fp-1", Status: model.DeviceStatusApproved}
	var session model.LoginSession
	storage.On("FindAccountByEmail", "jordan@example.com").Return(&account, nil)
	storage.On("UpsertDevice", mock.AnythingOfType("model.Device")).Return(&approved, nil)
	storage.On("InsertLoginSession", mock.AnythingOfType("model.LoginSession")).Run(func(args mock.Arguments) {
		session = args.Get(0).(model.LoginSession)
	}).Return(nil)
	storage.On("UpdateAccountLoginInfo", account.ID, "10.0.0.1", mock.AnythingOfType("time.Time")).Return(nil)
	storage.On("InsertAuditEvent", mock.AnythingOfType("model.AuditEvent")).Return(nil)

	result, err := auth.Login("jordan@example.com", "correct horse", DeviceInfo{Fingerprint: "fp-1"}, "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if result.TwoStepRequired {
		t.Error("two step must not trigger for this account")
	}
	if result.Token == "" {
		t.Fatal("token is empty")
	}
	assert.Equal(t, session.AccountID, account.ID, "session account is different")
	assert.Equal(t, session.DeviceID, "device-1", "session device is different")

	//the issued token resolves back to the account
	storage.On("FindLoginSession", session.ID).Return(&session, nil)
	storage.On("FindAccountByID", account.ID).Return(&account, nil)

	verified, claims, err := auth.VerifySession(result.Token)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, verified.ID, account.ID, "account is different")
	assert.Equal(t, claims.SessionID, session.ID, "session id is different")
}

func TestLoginSuperAdministratorBypassesGates(t *testing.T) {
	storage := genmocks.Storage{}
	auth := testAuth(t, &storage, &genmocks.Emailer{})
	account := activeAccount(t, auth, "correct horse")
	account.Role = model.RoleSuperAdministrator
	account.IPRestricted = true
	account.AllowedIPs = []string{"203.0.113.5"}

	approved := model.Device{ID: "device-1", AccountID: account.ID, Fingerprint: "fp-1", Status: model.DeviceStatusApproved}
	storage.On("FindAccountByEmail", "jordan@example.com").Return(&account, nil)
	storage.On("UpsertDevice", mock.AnythingOfType("model.Device")).Return(&approved, nil)
	storage.On("InsertLoginSession", mock.AnythingOfType("model.LoginSession")).Return(nil)
	storage.On("UpdateAccountLoginInfo", account.ID, "10.0.0.1", mock.AnythingOfType("time.Time")).Return(nil)
	storage.On("InsertAuditEvent", mock.AnythingOfType("model.AuditEvent")).Return(nil)

	result, err := auth.Login("jordan@example.com", "correct horse", DeviceInfo{Fingerprint: "fp-1"}, "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if result.Token == "" {
		t.Error("token is empty")
	}
	storage.AssertNotCalled(t, "FindIPAllowlist", true)
}

func TestLoginTwoStepFlow(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	auth := testAuth(t, &storage, &emailer)
	account := activeAccount(t, auth, "correct horse")
	account.TwoStepEnabled = true

	approved := model.Device{ID: "device-1", AccountID: account.ID, Fingerprint: "fp-1", Status: model.DeviceStatusApproved}
	var tempToken model.TempToken
	storage.On("FindAccountByEmail", "jordan@example.com").Return(&account, nil)
	storage.On("UpsertDevice", mock.AnythingOfType("model.Device")).Return(&approved, nil)
	storage.On("DeleteTempTokensByAccountID", account.ID).Return(nil)
	storage.On("InsertTempToken", mock.AnythingOfType("model.TempToken")).Run(func(args mock.Arguments) {
		tempToken = args.Get(0).(model.TempToken)
	}).Return(nil)
	storage.On("InsertAuditEvent", mock.AnythingOfType("model.AuditEvent")).Return(nil)
	emailer.On("Send", account.Email, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

	result, err := auth.Login("jordan@example.com", "correct horse", DeviceInfo{Fingerprint: "fp-1"}, "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if !result.TwoStepRequired {
		t.Fatal("two step must trigger for this account")
	}
	if result.Token != "" {
		t.Error("no session token before the second step")
	}
	assert.Equal(t, tempToken.TokenHash, utils.HashToken(result.TempToken), "stored hash does not match the issued temp token")

	//second step with the emailed code
	tallied := tempToken
	tallied.Attempts = 1
	storage.On("FindAndTallyTempToken", tempToken.TokenHash).Return(&tallied, nil)
	storage.On("ConsumeTempToken", tempToken.ID).Return(true, nil)
	storage.On("FindAccountByID", account.ID).Return(&account, nil)
	storage.On("FindDeviceByID", "device-1").Return(&approved, nil)
	storage.On("InsertLoginSession", mock.AnythingOfType("model.LoginSession")).Return(nil)
	storage.On("UpdateAccountLoginInfo", account.ID, "10.0.0.1", mock.AnythingOfType("time.Time")).Return(nil)

	completed, err := auth.CompleteTwoStep(result.TempToken, tempToken.Code, "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	if completed.Token == "" {
		t.Error("token is empty after the second step")
	}
	assert.Equal(t, completed.Account.ID, account.ID, "account is different")
}

func TestVerifySessionRevoked(t *testing.T) {
	storage := genmocks.Storage{}
	auth := testAuth(t, &storage, &genmocks.Emailer{})
	account := testAccount()

	signed, _, err := auth.tokens.Issue(account, "session-1", "")
	if err != nil {
		t.Fatal(err)
	}
	//the session record is gone, so the token is dead
	storage.On("FindLoginSession", "session-1").Return(nil, nil)

	_, _, err = auth.VerifySession(signed)
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusInvalidToken, "status is different")
}
