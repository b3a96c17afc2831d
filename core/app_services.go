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

package core

import (
	"strings"
	"time"

	"access-core/core/model"
	"access-core/utils"

	"github.com/google/uuid"
	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

const accessGrantTokenLength = 32

func (app *application) serGetAccount(accountID string) (*model.Account, error) {
	account, err := app.storage.FindAccountByID(accountID)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeAccount, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	if account == nil {
		return nil, errors.ErrorData(logutils.StatusMissing, model.TypeAccount, &logutils.FieldArgs{"id": accountID}).SetStatus(utils.ErrorStatusNotFound)
	}
	return account, nil
}

func (app *application) serUpdateProfile(account *model.Account, name *string, twoStep *bool) (*model.Account, error) {
	if name != nil {
		account.Name = *name
	}
	if twoStep != nil {
		account.TwoStepEnabled = *twoStep
	}

	err := app.storage.UpdateAccount(*account)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionUpdate, model.TypeAccount, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return account, nil
}

func (app *application) serChangePassword(account *model.Account, current string, updated string) error {
	err := app.auth.CheckPassword(account, current)
	if err != nil {
		return err
	}
	hash, err := app.auth.HashPassword(updated)
	if err != nil {
		return err
	}
	err = app.storage.UpdateAccountPassword(account.ID, hash)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeAccount, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return nil
}

func (app *application) serListTools(account *model.Account) ([]model.Tool, error) {
	tools, err := app.storage.FindTools()
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeTool, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	if account.IsAdministrator() {
		return tools, nil
	}

	granted := make([]model.Tool, 0)
	for _, tool := range tools {
		if account.HasTool(tool.ID) {
			granted = append(granted, tool)
		}
	}
	return granted, nil
}

// serLaunchTool issues a short lived single use access grant for the
// tool. The raw grant token goes to the client, only its digest stays.
func (app *application) serLaunchTool(account *model.Account, toolID string, ip string) (string, *model.Tool, error) {
	tool, err := app.storage.FindToolByID(toolID)
	if err != nil {
		return "", nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeTool, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	if tool == nil {
		return "", nil, errors.ErrorData(logutils.StatusMissing, model.TypeTool, &logutils.FieldArgs{"id": toolID}).SetStatus(utils.ErrorStatusNotFound)
	}
	if !account.HasTool(toolID) {
		return "", nil, errors.ErrorData(logutils.StatusInvalid, model.TypeTool, logutils.StringArgs("not granted")).SetStatus(utils.ErrorStatusForbidden)
	}

	rawToken, err := utils.GenerateRandomString(accessGrantTokenLength)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	grant := model.AccessGrant{ID: uuid.NewString(), AccountID: account.ID, ToolID: toolID,
		TokenHash: utils.HashToken(rawToken), Expires: now.Add(model.AccessGrantLifetime), DateCreated: now}
	err = app.storage.InsertAccessGrant(grant)
	if err != nil {
		return "", nil, errors.WrapErrorAction(logutils.ActionInsert, model.TypeAccessGrant, nil, err).SetStatus(utils.ErrorStatusTransient)
	}

	app.audit(model.AuditActionToolLaunch, account, tool.Name, "", ip)
	app.events.Publish(EventToolLaunched, map[string]interface{}{"account_id": account.ID, "tool_id": toolID})
	return rawToken, tool, nil
}

// serRedeemAccessGrant consumes a grant token and resolves the tool's
// shared sign in. A grant redeems exactly once.
func (app *application) serRedeemAccessGrant(rawToken string) (*model.AccessGrant, *model.Tool, string, string, error) {
	grant, err := app.storage.ConsumeAccessGrant(utils.HashToken(rawToken))
	if err != nil {
		return nil, nil, "", "", errors.WrapErrorAction(logutils.ActionFind, model.TypeAccessGrant, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	if grant == nil {
		return nil, nil, "", "", errors.ErrorData(logutils.StatusInvalid, model.TypeAccessGrant, nil).SetStatus(utils.ErrorStatusInvalidToken)
	}
	if grant.IsExpired() {
		return nil, nil, "", "", errors.ErrorData(logutils.StatusInvalid, model.TypeAccessGrant, logutils.StringArgs("expired")).SetStatus(utils.ErrorStatusTokenExpired)
	}

	tool, err := app.storage.FindToolByID(grant.ToolID)
	if err != nil {
		return nil, nil, "", "", errors.WrapErrorAction(logutils.ActionFind, model.TypeTool, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	if tool == nil {
		return nil, nil, "", "", errors.ErrorData(logutils.StatusMissing, model.TypeTool, nil).SetStatus(utils.ErrorStatusNotFound)
	}

	username := tool.SharedUsername
	password := ""
	if tool.SharedPassword != nil && !tool.SharedPassword.IsZero() {
		password, err = app.cipher.Open(*tool.SharedPassword)
		if err != nil {
			return nil, nil, "", "", err
		}
	}
	return grant, tool, username, password, nil
}

func (app *application) serListCredentials(account *model.Account, toolID *string) ([]model.ToolCredential, error) {
	credentials, err := app.storage.FindToolCredentials(account.ID, toolID)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeToolCredential, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return credentials, nil
}

func (app *application) serCreateCredential(account *model.Account, toolID string, label string, username string, password string) (*model.ToolCredential, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, errors.ErrorData(logutils.StatusMissing, "label", nil)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.ErrorData(logutils.StatusMissing, "username", nil)
	}

	tool, err := app.storage.FindToolByID(toolID)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeTool, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	if tool == nil {
		return nil, errors.ErrorData(logutils.StatusMissing, model.TypeTool, &logutils.FieldArgs{"id": toolID}).SetStatus(utils.ErrorStatusNotFound)
	}

	sealed, err := app.cipher.Seal(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	credential := model.ToolCredential{ID: uuid.NewString(), AccountID: account.ID, ToolID: toolID,
		Label: label, Username: username, Password: *sealed, DateCreated: now}
	err = app.storage.InsertToolCredential(credential)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionInsert, model.TypeToolCredential, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return &credential, nil
}

func (app *application) serUpdateCredential(account *model.Account, id string, label *string, username *string, password *string) (*model.ToolCredential, error) {
	credential, err := app.ownedCredential(account, id)
	if err != nil {
		return nil, err
	}

	if label != nil {
		trimmed := strings.TrimSpace(*label)
		if trimmed == "" {
			return nil, errors.ErrorData(logutils.StatusMissing, "label", nil)
		}
		credential.Label = trimmed
	}
	if username != nil {
		trimmed := strings.TrimSpace(*username)
		if trimmed == "" {
			return nil, errors.ErrorData(logutils.StatusMissing, "username", nil)
		}
		credential.Username = trimmed
	}
	if password != nil {
		sealed, err := app.cipher.Seal(*password)
		if err != nil {
			return nil, err
		}
		credential.Password = *sealed
	}

	err = app.storage.UpdateToolCredential(*credential)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionUpdate, model.TypeToolCredential, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return credential, nil
}

func (app *application) serDeleteCredential(account *model.Account, id string) error {
	credential, err := app.ownedCredential(account, id)
	if err != nil {
		return err
	}

	err = app.storage.DeleteToolCredential(credential.ID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeToolCredential, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return nil
}

// serRevealCredential decrypts a stored password for its owner. There
// is no administrative override, and every reveal is audited.
func (app *application) serRevealCredential(account *model.Account, id string, ip string) (string, error) {
	credential, err := app.ownedCredential(account, id)
	if err != nil {
		return "", err
	}

	plaintext, err := app.cipher.Open(credential.Password)
	if err != nil {
		return "", err
	}

	app.audit(model.AuditActionCredentialReveal, account, credential.ID, credential.ToolID, ip)
	return plaintext, nil
}

func (app *application) serListDevices(accountID string) ([]model.Device, error) {
	devices, err := app.storage.FindDevices(&accountID, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeDevice, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return devices, nil
}

// ownedCredential loads a credential and enforces that the account owns it
func (app *application) ownedCredential(account *model.Account, id string) (*model.ToolCredential, error) {
	credential, err := app.storage.FindToolCredentialByID(id)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeToolCredential, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	if credential == nil {
		return nil, errors.ErrorData(logutils.StatusMissing, model.TypeToolCredential, &logutils.FieldArgs{"id": id}).SetStatus(utils.ErrorStatusNotFound)
	}
	if credential.AccountID != account.ID {
		return nil, errors.ErrorData(logutils.StatusInvalid, model.TypeToolCredential, logutils.StringArgs("not owner")).SetStatus(utils.ErrorStatusForbidden)
	}
	return credential, nil
}
