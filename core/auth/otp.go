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
	"crypto/subtle"
	"fmt"
	"time"

	"access-core/core/interfaces"
	"access-core/core/model"
	"access-core/utils"

	"github.com/google/uuid"
	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

const (
	otpCodeDigits     = 6
	otpTokenLength    = 32
	otpLifetime       = 5 * time.Minute
	otpResendCooldown = 60 * time.Second
	otpMaxAttempts    = 3
)

// twoStepVerifier drives the emailed code second step. The opaque token
// handed to the client is stored only as a SHA-256 digest, and the code
// burns after three wrong attempts.
type twoStepVerifier struct {
	storage interfaces.Storage
	emailer interfaces.Emailer
}

func newTwoStepVerifier(storage interfaces.Storage, emailer interfaces.Emailer) *twoStepVerifier {
	return &twoStepVerifier{storage: storage, emailer: emailer}
}

// start opens a verification for the account and returns the raw temp
// token for the client to hold. Any older pending verifications for the
// account are dropped.
func (v *twoStepVerifier) start(account model.Account, ip string, deviceID string) (string, error) {
	err := v.storage.DeleteTempTokensByAccountID(account.ID)
	if err != nil {
		return "", errors.WrapErrorAction(logutils.ActionDelete, model.TypeTempToken, nil, err)
	}

	code, err := utils.GenerateNumericCode(otpCodeDigits)
	if err != nil {
		return "", err
	}
	rawToken, err := utils.GenerateRandomString(otpTokenLength)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	token := model.TempToken{ID: uuid.NewString(), AccountID: account.ID, TokenHash: utils.HashToken(rawToken),
		Code: code, IPAddress: ip, DeviceID: deviceID, LastSent: now, Expires: now.Add(otpLifetime), DateCreated: now}
	err = v.storage.InsertTempToken(token)
	if err != nil {
		return "", errors.WrapErrorAction(logutils.ActionInsert, model.TypeTempToken, nil, err)
	}

	err = v.sendCode(account, code)
	if err != nil {
		return "", err
	}
	return rawToken, nil
}

// verify checks the submitted code against the pending verification.
// Every call counts as an attempt, and only one concurrent caller can
// win the consume.
func (v *twoStepVerifier) verify(rawToken string, code string) (*model.TempToken, error) {
	token, err := v.storage.FindAndTallyTempToken(utils.HashToken(rawToken))
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeTempToken, nil, err)
	}
	if token == nil {
		return nil, errors.ErrorData(logutils.StatusInvalid, model.TypeTempToken, nil).SetStatus(utils.ErrorStatusInvalidToken)
	}
	if token.IsExpired() {
		return nil, errors.ErrorData(logutils.StatusInvalid, model.TypeTempToken, logutils.StringArgs("expired")).SetStatus(utils.ErrorStatusTokenExpired)
	}
	if token.Attempts > otpMaxAttempts {
		//already burned by earlier attempts
		v.burn(token.ID)
		return nil, errors.ErrorData(logutils.StatusInvalid, model.TypeTempToken, logutils.StringArgs("attempts exhausted")).SetStatus(utils.ErrorStatusTokenExpired)
	}

	if subtle.ConstantTimeCompare([]byte(token.Code), []byte(code)) != 1 {
		if token.Attempts >= otpMaxAttempts {
			v.burn(token.ID)
			return nil, errors.ErrorData(logutils.StatusInvalid, model.TypeTempToken, logutils.StringArgs("attempts exhausted")).SetStatus(utils.ErrorStatusTokenExpired)
		}
		return nil, errors.ErrorData(logutils.StatusInvalid, "verification code", nil).SetStatus(utils.ErrorStatusOtpMismatch)
	}

	claimed, err := v.storage.ConsumeTempToken(token.ID)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionUpdate, model.TypeTempToken, nil, err)
	}
	if !claimed {
		//a concurrent submission already won
		return nil, errors.ErrorData(logutils.StatusInvalid, model.TypeTempToken, logutils.StringArgs("consumed")).SetStatus(utils.ErrorStatusTokenExpired)
	}
	return token, nil
}

// resend emails a fresh code for the pending verification, rate limited
// by a cooldown. The previous code stops working.
func (v *twoStepVerifier) resend(rawToken string) error {
	token, err := v.storage.FindTempToken(utils.HashToken(rawToken))
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeTempToken, nil, err)
	}
	if token == nil {
		return errors.ErrorData(logutils.StatusInvalid, model.TypeTempToken, nil).SetStatus(utils.ErrorStatusInvalidToken)
	}
	if token.IsExpired() || token.Consumed {
		return errors.ErrorData(logutils.StatusInvalid, model.TypeTempToken, logutils.StringArgs("expired")).SetStatus(utils.ErrorStatusTokenExpired)
	}

	now := time.Now().UTC()
	if now.Sub(token.LastSent) < otpResendCooldown {
		return errors.ErrorData(logutils.StatusInvalid, model.TypeTempToken, logutils.StringArgs("resend cooldown")).SetStatus(utils.ErrorStatusForbidden)
	}

	account, err := v.storage.FindAccountByID(token.AccountID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeAccount, nil, err)
	}
	if account == nil {
		return errors.ErrorData(logutils.StatusMissing, model.TypeAccount, nil).SetStatus(utils.ErrorStatusInvalidToken)
	}

	code, err := utils.GenerateNumericCode(otpCodeDigits)
	if err != nil {
		return err
	}
	err = v.storage.UpdateTempTokenSent(token.ID, code, now, now.Add(otpLifetime))
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeTempToken, nil, err)
	}
	return v.sendCode(*account, code)
}

func (v *twoStepVerifier) burn(id string) {
	//best effort, verification fails closed either way
	_ = v.storage.BurnTempToken(id)
}

func (v *twoStepVerifier) sendCode(account model.Account, code string) error {
	subject := "Your access portal verification code"
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your verification code is:</p>"+
		"<h2 style=\"letter-spacing: 4px;\">%s</h2>"+
		"<p>The code expires in %d minutes. If you did not try to sign in, contact your administrator.</p>",
		account.Name, code, int(otpLifetime.Minutes()))
	err := v.emailer.Send(account.Email, subject, body)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionSend, "verification code email", nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return nil
}
