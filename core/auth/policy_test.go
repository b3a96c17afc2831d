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
	"testing"
	"time"

	genmocks "access-core/core/mocks"
	"access-core/core/model"
	"access-core/utils"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	"github.com/rokwire/logging-library-go/v2/errors"
	"gotest.tools/assert"
)

const testPolicyModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

func testEnforcer(t *testing.T) *casbin.Enforcer {
	t.Helper()
	m, err := casbinmodel.NewModelFromString(testPolicyModel)
	if err != nil {
		t.Fatal(err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = enforcer.AddPolicy(model.RoleUser, "tools", "access")
	_, _ = enforcer.AddPolicy(model.RoleAdministrator, "accounts", "manage")
	_, _ = enforcer.AddPolicy(model.RoleSuperAdministrator, "devices", "review")
	_, _ = enforcer.AddPolicy(model.RoleSuperAdministrator, "system", "manage")
	_, _ = enforcer.AddGroupingPolicy(model.RoleAdministrator, model.RoleUser)
	_, _ = enforcer.AddGroupingPolicy(model.RoleSuperAdministrator, model.RoleAdministrator)
	return enforcer
}

// sessionFor issues a token and wires the backing session and account
// into the storage mock
func sessionFor(t *testing.T, auth *Auth, storage *genmocks.Storage, account model.Account, deviceID string) string {
	t.Helper()
	signed, _, err := auth.tokens.Issue(account, "session-1", deviceID)
	if err != nil {
		t.Fatal(err)
	}
	session := model.LoginSession{ID: "session-1", AccountID: account.ID, Email: account.Email,
		Role: account.Role, DeviceID: deviceID, Expires: time.Now().Add(time.Hour)}
	storage.On("FindLoginSession", "session-1").Return(&session, nil)
	storage.On("FindAccountByID", account.ID).Return(&account, nil)
	return signed
}

func TestAuthorizeAllows(t *testing.T) {
	storage := genmocks.Storage{}
	auth := testAuth(t, &storage, &genmocks.Emailer{})
	policy := NewPolicyEvaluator(auth, testEnforcer(t))

	account := testAccount()
	approved := model.Device{ID: "device-1", Status: model.DeviceStatusApproved}
	token := sessionFor(t, auth, &storage, account, "device-1")
	storage.On("FindDeviceByID", "device-1").Return(&approved, nil)

	got, claims, err := policy.Authorize(token, "10.0.0.1", "tools", "access")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, got.ID, account.ID, "account is different")
	assert.Equal(t, claims.SessionID, "session-1", "session id is different")
}

func TestAuthorizeForbidden(t *testing.T) {
	storage := genmocks.Storage{}
	auth := testAuth(t, &storage, &genmocks.Emailer{})
	policy := NewPolicyEvaluator(auth, testEnforcer(t))

	account := testAccount()
	token := sessionFor(t, auth, &storage, account, "")

	_, _, err := policy.Authorize(token, "10.0.0.1", "system", "manage")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusForbidden, "status is different")
}

func TestAuthorizeRoleInheritance(t *testing.T) {
	storage := genmocks.Storage{}
	auth := testAuth(t, &storage, &genmocks.Emailer{})
	policy := NewPolicyEvaluator(auth, testEnforcer(t))

	account := testAccount()
	account.Role = model.RoleAdministrator
	token := sessionFor(t, auth, &storage, account, "")

	//administrators inherit the user permissions
	_, _, err := policy.Authorize(token, "10.0.0.1", "tools", "access")
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = policy.Authorize(token, "10.0.0.1", "accounts", "manage")
	if err != nil {
		t.Fatal(err)
	}
}

func TestAuthorizeDeviceGate(t *testing.T) {
	storage := genmocks.Storage{}
	auth := testAuth(t, &storage, &genmocks.Emailer{})
	policy := NewPolicyEvaluator(auth, testEnforcer(t))

	account := testAccount()
	revoked := model.Device{ID: "device-1", Status: model.DeviceStatusRevoked}
	token := sessionFor(t, auth, &storage, account, "device-1")
	storage.On("FindDeviceByID", "device-1").Return(&revoked, nil)

	_, _, err := policy.Authorize(token, "10.0.0.1", "tools", "access")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusDeviceBlocked, "status is different")
}

func TestAuthorizeSuspendedBeforePolicy(t *testing.T) {
	storage := genmocks.Storage{}
	auth := testAuth(t, &storage, &genmocks.Emailer{})
	policy := NewPolicyEvaluator(auth, testEnforcer(t))

	account := testAccount()
	account.Status = model.AccountStatusSuspended
	token := sessionFor(t, auth, &storage, account, "")

	//the suspension must surface, not a permission denial
	_, _, err := policy.Authorize(token, "10.0.0.1", "tools", "access")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusAccountSuspended, "status is different")
}

func TestAuthorizeSuperAdministratorBypass(t *testing.T) {
	storage := genmocks.Storage{}
	auth := testAuth(t, &storage, &genmocks.Emailer{})
	policy := NewPolicyEvaluator(auth, testEnforcer(t))

	account := testAccount()
	account.Role = model.RoleSuperAdministrator
	token := sessionFor(t, auth, &storage, account, "device-1")

	_, _, err := policy.Authorize(token, "10.0.0.1", "system", "manage")
	if err != nil {
		t.Fatal(err)
	}
	storage.AssertNotCalled(t, "FindIPAllowlist", true)
	storage.AssertNotCalled(t, "FindDeviceByID", "device-1")
}

func TestAuthorizeDevicePending(t *testing.T) {
	storage := genmocks.Storage{}
	auth := testAuth(t, &storage, &genmocks.Emailer{})
	policy := NewPolicyEvaluator(auth, testEnforcer(t))

	account := testAccount()
	pending := model.Device{ID: "device-1", Status: model.DeviceStatusPending}
	token := sessionFor(t, auth, &storage, account, "device-1")
	storage.On("FindDeviceByID", "device-1").Return(&pending, nil)

	//a pending device reports as pending, not as blocked
	_, _, err := policy.Authorize(token, "10.0.0.1", "tools", "access")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusDevicePending, "status is different")
}

func TestAuthorizeDeviceReviewNeedsSuperAdministrator(t *testing.T) {
	storage := genmocks.Storage{}
	auth := testAuth(t, &storage, &genmocks.Emailer{})
	policy := NewPolicyEvaluator(auth, testEnforcer(t))

	account := testAccount()
	account.Role = model.RoleAdministrator
	token := sessionFor(t, auth, &storage, account, "")

	_, _, err := policy.Authorize(token, "10.0.0.1", "devices", "review")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusForbidden, "status is different")
}
