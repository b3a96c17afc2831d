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

package auth

import (
	"access-core/core/model"
	"access-core/utils"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// passwordAuth verifies the email/password first factor. Failures are
// reported uniformly so callers cannot tell a missing account from a
// wrong password.
type passwordAuth struct{}

func (a passwordAuth) check(account *model.Account, password string) error {
	if account == nil || account.PasswordHash == "" {
		//burn a comparison so both paths cost the same
		bcrypt.CompareHashAndPassword([]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"), []byte(password))
		return errors.ErrorData(logutils.StatusInvalid, "credentials", nil).SetStatus(utils.ErrorStatusInvalidCredentials)
	}
	err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password))
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionValidate, "credentials", nil, err).SetStatus(utils.ErrorStatusInvalidCredentials)
	}
	return nil
}

func (a passwordAuth) hash(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", errors.ErrorData(logutils.StatusInvalid, "password", logutils.StringArgs("too short"))
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.WrapErrorAction(logutils.ActionGenerate, "password hash", nil, err)
	}
	return string(hashed), nil
}
