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

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/stretchr/testify/mock"
	"gotest.tools/assert"
)

func TestTwoStepStartSendsCode(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	verifier := newTwoStepVerifier(&storage, &emailer)

	var inserted model.TempToken
	storage.On("DeleteTempTokensByAccountID", "account-1").Return(nil)
	storage.On("InsertTempToken", mock.AnythingOfType("model.TempToken")).Run(func(args mock.Arguments) {
		inserted = args.Get(0).(model.TempToken)
	}).Return(nil)
	emailer.On("Send", "jordan@example.com", mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

	account := testAccount()
	rawToken, err := verifier.start(account, "10.0.0.1", "device-1")
	if err != nil {
		t.Fatal(err)
	}
	if rawToken == "" {
		t.Fatal("raw token is empty")
	}

	assert.Equal(t, inserted.TokenHash, utils.HashToken(rawToken), "stored hash does not match the raw token")
	assert.Equal(t, len(inserted.Code), otpCodeDigits, "code length is different")
	assert.Equal(t, inserted.AccountID, "account-1", "account id is different")
	assert.Equal(t, inserted.DeviceID, "device-1", "device id is different")
	emailer.AssertCalled(t, "Send", "jordan@example.com", mock.AnythingOfType("string"), mock.AnythingOfType("string"))
}

func TestTwoStepVerify(t *testing.T) {
	storage := genmocks.Storage{}
	verifier := newTwoStepVerifier(&storage, &genmocks.Emailer{})

	now := time.Now().UTC()
	token := model.TempToken{ID: "tt-1", AccountID: "account-1", TokenHash: utils.HashToken("raw"),
		Code: "123456", Attempts: 1, Expires: now.Add(otpLifetime), DateCreated: now}
	storage.On("FindAndTallyTempToken", utils.HashToken("raw")).Return(&token, nil)
	storage.On("ConsumeTempToken", "tt-1").Return(true, nil)

	got, err := verifier.verify("raw", "123456")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, got.AccountID, "account-1", "account id is different")
}

func TestTwoStepVerifyMismatch(t *testing.T) {
	storage := genmocks.Storage{}
	verifier := newTwoStepVerifier(&storage, &genmocks.Emailer{})

	now := time.Now().UTC()
	token := model.TempToken{ID: "tt-1", AccountID: "account-1", TokenHash: utils.HashToken("raw"),
		Code: "123456", Attempts: 1, Expires: now.Add(otpLifetime), DateCreated: now}
	storage.On("FindAndTallyTempToken", utils.HashToken("raw")).Return(&token, nil)

	_, err := verifier.verify("raw", "654321")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusOtpMismatch, "status is different")
	storage.AssertNotCalled(t, "ConsumeTempToken", "tt-1")
}

func TestTwoStepVerifyBurnsAfterMaxAttempts(t *testing.T) {
	storage := genmocks.Storage{}
	verifier := newTwoStepVerifier(&storage, &genmocks.Emailer{})

	now := time.Now().UTC()
	token := model.TempToken{ID: "tt-1", AccountID: "account-1", TokenHash: utils.HashToken("raw"),
		Code: "123456", Attempts: otpMaxAttempts, Expires: now.Add(otpLifetime), DateCreated: now}
	storage.On("FindAndTallyTempToken", utils.HashToken("raw")).Return(&token, nil)
	storage.On("BurnTempToken", "tt-1").Return(nil)

	_, err := verifier.verify("raw", "000000")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusTokenExpired, "status is different")
	storage.AssertCalled(t, "BurnTempToken", "tt-1")

	//the right code no longer helps once the attempts are gone
	storage2 := genmocks.Storage{}
	verifier2 := newTwoStepVerifier(&storage2, &genmocks.Emailer{})
	exhausted := token
	exhausted.Attempts = otpMaxAttempts + 1
	storage2.On("FindAndTallyTempToken", utils.HashToken("raw")).Return(&exhausted, nil)
	storage2.On("BurnTempToken", "tt-1").Return(nil)

	_, err = verifier2.verify("raw", "123456")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusTokenExpired, "status is different")
}

func TestTwoStepVerifyExpired(t *testing.T) {
	storage := genmocks.Storage{}
	verifier := newTwoStepVerifier(&storage, &genmocks.Emailer{})

	now := time.Now().UTC()
	token := model.TempToken{ID: "tt-1", AccountID: "account-1", TokenHash: utils.HashToken("raw"),
		Code: "123456", Attempts: 1, Expires: now.Add(-time.Minute), DateCreated: now.Add(-10 * time.Minute)}
	storage.On("FindAndTallyTempToken", utils.HashToken("raw")).Return(&token, nil)

	_, err := verifier.verify("raw", "123456")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusTokenExpired, "status is different")
}

func TestTwoStepVerifySingleUse(t *testing.T) {
	storage := genmocks.Storage{}
	verifier := newTwoStepVerifier(&storage, &genmocks.Emailer{})

	now := time.Now().UTC()
	token := model.TempToken{ID: "tt-1", AccountID: "account-1", TokenHash: utils.HashToken("raw"),
		Code: "123456", Attempts: 2, Expires: now.Add(otpLifetime), DateCreated: now}
	storage.On("FindAndTallyTempToken", utils.HashToken("raw")).Return(&token, nil)
	//a concurrent submission consumed the token first
	storage.On("ConsumeTempToken", "tt-1").Return(false, nil)

	_, err := verifier.verify("raw", "123456")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusTokenExpired, "status is different")
}

func TestTwoStepResendCooldown(t *testing.T) {
	storage := genmocks.Storage{}
	verifier := newTwoStepVerifier(&storage, &genmocks.Emailer{})

	now := time.Now().UTC()
	token := model.TempToken{ID: "tt-1", AccountID: "account-1", TokenHash: utils.HashToken("raw"),
		Code: "123456", LastSent: now.Add(-10 * time.Second), Expires: now.Add(otpLifetime), DateCreated: now}
	storage.On("FindTempToken", utils.HashToken("raw")).Return(&token, nil)

	err := verifier.resend("raw")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*errors.Error).Status(), utils.ErrorStatusForbidden, "status is different")
}

func TestTwoStepResend(t *testing.T) {
	storage := genmocks.Storage{}
	emailer := genmocks.Emailer{}
	verifier := newTwoStepVerifier(&storage, &emailer)

	now := time.Now().UTC()
	token := model.TempToken{ID: "tt-1", AccountID: "account-1", TokenHash: utils.HashToken("raw"),
		Code: "123456", LastSent: now.Add(-2 * otpResendCooldown), Expires: now.Add(otpLifetime), DateCreated: now}
	account := testAccount()
	storage.On("FindTempToken", utils.HashToken("raw")).Return(&token, nil)
	storage.On("FindAccountByID", "account-1").Return(&account, nil)
	storage.On("UpdateTempTokenSent", "tt-1", mock.AnythingOfType("string"), mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(nil)
	emailer.On("Send", account.Email, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

	err := verifier.resend("raw")
	if err != nil {
		t.Fatal(err)
	}
	emailer.AssertCalled(t, "Send", account.Email, mock.AnythingOfType("string"), mock.AnythingOfType("string"))
}
