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

package core_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	core "access-core/core"
	"access-core/core/auth"
	genmocks "access-core/core/mocks"
	"access-core/core/model"
	"access-core/utils"

	rokerrors "github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/stretchr/testify/mock"
	"gotest.tools/assert"
)

func testCoreAPIs(t *testing.T, storage *genmocks.Storage, emailer *genmocks.Emailer) (*core.APIs, *auth.SecretCipher) {
	logger := logs.NewLogger("test", nil)

	authInst, err := auth.NewAuth(context.Background(), auth.Config{TokenSecret: bytes.Repeat([]byte{3}, 32),
		SessionExpiry: time.Hour, Issuer: "portal-core"}, storage, emailer, logger)
	if err != nil {
		t.Fatalf("error creating auth: %v", err)
	}
	cipher, err := auth.NewSecretCipher(bytes.Repeat([]byte{9}, 32))
	if err != nil {
		t.Fatalf("error creating cipher: %v", err)
	}

	return core.NewCoreAPIs("local", "1.1.1", "build", storage, emailer, authInst, cipher, logger), cipher
}

func vaultAccount() *model.Account {
	return &model.Account{ID: "account-1", Email: "jordan@example.com", Role: model.RoleUser,
		Status: model.AccountStatusActive, AllowedTools: []string{"tool-1"}}
}

///

// Services

func TestGetVersion(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	coreAPIs, _ := testCoreAPIs(t, &storage, &emailer)

	got := coreAPIs.GetVersion()
	want := "1.1.1"

	assert.Equal(t, got, want, "result is different")
}

func TestSerCreateCredentialSealsThePassword(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	coreAPIs, cipher := testCoreAPIs(t, &storage, &emailer)

	storage.On("FindToolByID", "tool-1").Return(&model.Tool{ID: "tool-1", Name: "Wiki"}, nil)
	var inserted model.ToolCredential
	storage.On("InsertToolCredential", mock.AnythingOfType("model.ToolCredential")).Return(nil).
		Run(func(args mock.Arguments) {
			inserted = args.Get(0).(model.ToolCredential)
		})

	credential, err := coreAPIs.Services.SerCreateCredential(vaultAccount(), "tool-1", "work", "jordan", "hunter22")
	if err != nil {
		t.Fatalf("error creating credential: %v", err)
	}

	assert.Equal(t, credential.AccountID, "account-1", "owner is different")
	assert.Equal(t, inserted.Password.IsZero(), false, "password was not sealed")
	assert.Equal(t, bytes.Contains(inserted.Password.Ciphertext, []byte("hunter22")), false, "plaintext leaked into ciphertext")

	plaintext, err := cipher.Open(inserted.Password)
	if err != nil {
		t.Fatalf("error opening sealed password: %v", err)
	}
	assert.Equal(t, plaintext, "hunter22", "sealed password is different")
}

func TestSerCreateCredentialUnknownTool(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	coreAPIs, _ := testCoreAPIs(t, &storage, &emailer)

	storage.On("FindToolByID", "missing").Return(nil, nil)

	_, err := coreAPIs.Services.SerCreateCredential(vaultAccount(), "missing", "", "jordan", "hunter22")
	if err == nil {
		t.Error("we are expecting error")
		return
	}
	assert.Equal(t, err.(*rokerrors.Error).Status(), utils.ErrorStatusNotFound, "status is different")
	storage.AssertNotCalled(t, "InsertToolCredential", mock.Anything)
}

func TestSerRevealCredential(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	coreAPIs, cipher := testCoreAPIs(t, &storage, &emailer)

	sealed, err := cipher.Seal("hunter22")
	if err != nil {
		t.Fatalf("error sealing password: %v", err)
	}
	credential := model.ToolCredential{ID: "credential-1", AccountID: "account-1", ToolID: "tool-1",
		Username: "jordan", Password: *sealed}
	storage.On("FindToolCredentialByID", "credential-1").Return(&credential, nil)
	var audited model.AuditEvent
	storage.On("InsertAuditEvent", mock.AnythingOfType("model.AuditEvent")).Return(nil).
		Run(func(args mock.Arguments) {
			audited = args.Get(0).(model.AuditEvent)
		})

	plaintext, err := coreAPIs.Services.SerRevealCredential(vaultAccount(), "credential-1", "10.0.0.7")
	if err != nil {
		t.Fatalf("error revealing credential: %v", err)
	}

	assert.Equal(t, plaintext, "hunter22", "password is different")
	assert.Equal(t, audited.Action, model.AuditActionCredentialReveal, "audit action is different")
	assert.Equal(t, audited.ActorID, "account-1", "audit actor is different")
	assert.Equal(t, audited.IPAddress, "10.0.0.7", "audit ip is different")
}

func TestSerRevealCredentialNotOwner(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	coreAPIs, cipher := testCoreAPIs(t, &storage, &emailer)

	sealed, err := cipher.Seal("hunter22")
	if err != nil {
		t.Fatalf("error sealing password: %v", err)
	}
	credential := model.ToolCredential{ID: "credential-1", AccountID: "someone-else", ToolID: "tool-1",
		Password: *sealed}
	storage.On("FindToolCredentialByID", "credential-1").Return(&credential, nil)

	_, err = coreAPIs.Services.SerRevealCredential(vaultAccount(), "credential-1", "10.0.0.7")
	if err == nil {
		t.Error("we are expecting error")
		return
	}
	assert.Equal(t, err.(*rokerrors.Error).Status(), utils.ErrorStatusForbidden, "status is different")
	storage.AssertNotCalled(t, "InsertAuditEvent", mock.Anything)
}

func TestSerLaunchToolAndRedeemGrant(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	coreAPIs, cipher := testCoreAPIs(t, &storage, &emailer)

	sealedShared, err := cipher.Seal("shared-pass")
	if err != nil {
		t.Fatalf("error sealing shared password: %v", err)
	}
	tool := model.Tool{ID: "tool-1", Name: "Wiki", URL: "https://wiki.internal",
		SharedUsername: "portal-bot", SharedPassword: sealedShared}
	storage.On("FindToolByID", "tool-1").Return(&tool, nil)
	var grant model.AccessGrant
	storage.On("InsertAccessGrant", mock.AnythingOfType("model.AccessGrant")).Return(nil).
		Run(func(args mock.Arguments) {
			grant = args.Get(0).(model.AccessGrant)
		})
	storage.On("InsertAuditEvent", mock.AnythingOfType("model.AuditEvent")).Return(nil)

	rawToken, launched, err := coreAPIs.Services.SerLaunchTool(vaultAccount(), "tool-1", "10.0.0.7")
	if err != nil {
		t.Fatalf("error launching tool: %v", err)
	}
	assert.Equal(t, launched.ID, "tool-1", "tool is different")
	assert.Equal(t, grant.TokenHash, utils.HashToken(rawToken), "stored grant does not match the issued token")
	assert.Equal(t, grant.TokenHash == rawToken, false, "raw token was stored")

	//the launched grant redeems for the tool's shared sign in
	storage.On("ConsumeAccessGrant", grant.TokenHash).Return(&grant, nil)

	redeemed, redeemedTool, username, password, err := coreAPIs.Services.SerRedeemAccessGrant(rawToken)
	if err != nil {
		t.Fatalf("error redeeming grant: %v", err)
	}
	assert.Equal(t, redeemed.AccountID, "account-1", "grant account is different")
	assert.Equal(t, redeemedTool.URL, "https://wiki.internal", "tool url is different")
	assert.Equal(t, username, "portal-bot", "shared username is different")
	assert.Equal(t, password, "shared-pass", "shared password is different")
}

func TestSerLaunchToolNotGranted(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	coreAPIs, _ := testCoreAPIs(t, &storage, &emailer)

	storage.On("FindToolByID", "tool-2").Return(&model.Tool{ID: "tool-2", Name: "Billing"}, nil)

	_, _, err := coreAPIs.Services.SerLaunchTool(vaultAccount(), "tool-2", "10.0.0.7")
	if err == nil {
		t.Error("we are expecting error")
		return
	}
	assert.Equal(t, err.(*rokerrors.Error).Status(), utils.ErrorStatusForbidden, "status is different")
	storage.AssertNotCalled(t, "InsertAccessGrant", mock.Anything)
}

func TestSerRedeemAccessGrantUsed(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	coreAPIs, _ := testCoreAPIs(t, &storage, &emailer)

	//consume finds nothing when the grant was already redeemed
	storage.On("ConsumeAccessGrant", mock.AnythingOfType("string")).Return(nil, nil)

	_, _, _, _, err := coreAPIs.Services.SerRedeemAccessGrant("spent-token")
	if err == nil {
		t.Error("we are expecting error")
		return
	}
	assert.Equal(t, err.(*rokerrors.Error).Status(), utils.ErrorStatusInvalidToken, "status is different")
}

func TestSerRedeemAccessGrantExpired(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	coreAPIs, _ := testCoreAPIs(t, &storage, &emailer)

	grant := model.AccessGrant{ID: "grant-1", AccountID: "account-1", ToolID: "tool-1",
		Expires: time.Now().UTC().Add(-time.Minute)}
	storage.On("ConsumeAccessGrant", mock.AnythingOfType("string")).Return(&grant, nil)

	_, _, _, _, err := coreAPIs.Services.SerRedeemAccessGrant("stale-token")
	if err == nil {
		t.Error("we are expecting error")
		return
	}
	assert.Equal(t, err.(*rokerrors.Error).Status(), utils.ErrorStatusTokenExpired, "status is different")
}

///

// Administration

func TestAdmCreateAccount(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	coreAPIs, _ := testCoreAPIs(t, &storage, &emailer)

	storage.On("FindAccountByEmail", "casey@example.com").Return(nil, nil)
	var inserted model.Account
	storage.On("InsertAccount", mock.AnythingOfType("model.Account")).Return(nil).
		Run(func(args mock.Arguments) {
			inserted = args.Get(0).(model.Account)
		})
	storage.On("InsertAuditEvent", mock.AnythingOfType("model.AuditEvent")).Return(nil)
	emailer.On("Send", "casey@example.com", mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

	actor := &model.Account{ID: "admin-1", Email: "admin@example.com", Role: model.RoleAdministrator}
	account, err := coreAPIs.Administration.AdmCreateAccount(actor, "Casey@Example.com", "Casey", "first-password", model.RoleUser, []string{"tool-1"}, "10.0.0.7")
	if err != nil {
		t.Fatalf("error creating account: %v", err)
	}

	assert.Equal(t, account.Email, "casey@example.com", "email was not normalized")
	assert.Equal(t, inserted.Status, model.AccountStatusActive, "status is different")
	assert.Equal(t, inserted.PasswordHash == "", false, "password hash is empty")
	assert.Equal(t, inserted.PasswordHash == "first-password", false, "password was stored in plaintext")
	emailer.AssertCalled(t, "Send", "casey@example.com", mock.AnythingOfType("string"), mock.AnythingOfType("string"))
}

func TestAdmCreateAccountDuplicateEmail(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	coreAPIs, _ := testCoreAPIs(t, &storage, &emailer)

	existing := model.Account{ID: "account-9", Email: "casey@example.com"}
	storage.On("FindAccountByEmail", "casey@example.com").Return(&existing, nil)

	actor := &model.Account{ID: "admin-1", Role: model.RoleAdministrator}
	_, err := coreAPIs.Administration.AdmCreateAccount(actor, "casey@example.com", "Casey", "first-password", model.RoleUser, nil, "10.0.0.7")
	if err == nil {
		t.Error("we are expecting error")
		return
	}
	assert.Equal(t, err.(*rokerrors.Error).Status(), utils.ErrorStatusAlreadyExists, "status is different")
	storage.AssertNotCalled(t, "InsertAccount", mock.Anything)
}

func TestAdmCreateAccountAdministratorCannotGrantAdmin(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	coreAPIs, _ := testCoreAPIs(t, &storage, &emailer)

	actor := &model.Account{ID: "admin-1", Role: model.RoleAdministrator}
	_, err := coreAPIs.Administration.AdmCreateAccount(actor, "casey@example.com", "Casey", "first-password", model.RoleAdministrator, nil, "10.0.0.7")
	if err == nil {
		t.Error("we are expecting error")
		return
	}
	assert.Equal(t, err.(*rokerrors.Error).Status(), utils.ErrorStatusForbidden, "status is different")
	storage.AssertNotCalled(t, "FindAccountByEmail", mock.Anything)
}

func TestAdmSetAccountStatusOnlySuspendAndReactivate(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	coreAPIs, _ := testCoreAPIs(t, &storage, &emailer)

	actor := &model.Account{ID: "admin-1", Role: model.RoleAdministrator}
	err := coreAPIs.Administration.AdmSetAccountStatus(actor, "account-1", model.AccountStatusPending, "10.0.0.7")
	if err == nil {
		t.Error("we are expecting error")
		return
	}
	storage.AssertNotCalled(t, "UpdateAccountStatus", mock.Anything, mock.Anything)
}

func TestAdmListAuditEvents(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	coreAPIs, _ := testCoreAPIs(t, &storage, &emailer)

	events := []model.AuditEvent{{ID: "event-1", Action: model.AuditActionLogin}}
	storage.On("FindAuditEvents", 50, 0, (*string)(nil), (*string)(nil)).Return(events, nil)
	storage.On("CountAuditEvents", (*string)(nil), (*string)(nil)).Return(int64(7), nil)

	got, total, err := coreAPIs.Administration.AdmListAuditEvents(0, 0, nil, nil)
	if err != nil {
		t.Fatalf("error listing audit events: %v", err)
	}
	assert.Equal(t, len(got), 1, "events count is different")
	assert.Equal(t, total, int64(7), "total is different")
}

func TestSerCreateCredentialTrimsAndRequiresLabel(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	coreAPIs, _ := testCoreAPIs(t, &storage, &emailer)

	_, err := coreAPIs.Services.SerCreateCredential(vaultAccount(), "tool-1", "   ", "jordan", "hunter22")
	if err == nil {
		t.Error("we are expecting error")
		return
	}
	storage.AssertNotCalled(t, "InsertToolCredential", mock.Anything)

	storage.On("FindToolByID", "tool-1").Return(&model.Tool{ID: "tool-1", Name: "Wiki"}, nil)
	var inserted model.ToolCredential
	storage.On("InsertToolCredential", mock.AnythingOfType("model.ToolCredential")).Return(nil).
		Run(func(args mock.Arguments) {
			inserted = args.Get(0).(model.ToolCredential)
		})

	_, err = coreAPIs.Services.SerCreateCredential(vaultAccount(), "tool-1", "  work  ", " jordan ", "hunter22")
	if err != nil {
		t.Fatalf("error creating credential: %v", err)
	}
	assert.Equal(t, inserted.Label, "work", "label was not trimmed")
	assert.Equal(t, inserted.Username, "jordan", "username was not trimmed")
}

///

// System

func TestSysDeleteAccountProtectsAdministrators(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	coreAPIs, _ := testCoreAPIs(t, &storage, &emailer)

	target := model.Account{ID: "admin-2", Email: "other@example.com", Role: model.RoleAdministrator}
	storage.On("FindAccountByID", "admin-2").Return(&target, nil)

	actor := &model.Account{ID: "sa-1", Role: model.RoleSuperAdministrator}
	err := coreAPIs.System.SysDeleteAccount(actor, "admin-2", "10.0.0.7")
	if err == nil {
		t.Error("we are expecting error")
		return
	}
	assert.Equal(t, err.(*rokerrors.Error).Status(), utils.ErrorStatusForbidden, "status is different")
	storage.AssertNotCalled(t, "DeleteAccount", mock.Anything)
}
