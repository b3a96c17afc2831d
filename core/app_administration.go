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

func (app *application) admListDevices(status *model.DeviceStatus, accountID *string) ([]model.Device, error) {
	devices, err := app.storage.FindDevices(accountID, status)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeDevice, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return devices, nil
}

func (app *application) admReviewDevice(actor *model.Account, deviceID string, to model.DeviceStatus, note string, ip string) (*model.Device, error) {
	device, err := app.auth.SetDeviceStatus(*actor, deviceID, to, note, ip)
	if err != nil {
		return nil, err
	}

	app.events.Publish(EventDeviceReviewed, map[string]interface{}{
		"device_id": device.ID, "account_id": device.AccountID, "status": string(to), "reviewer": actor.ID})
	return device, nil
}

func (app *application) admDeleteDevice(actor *model.Account, deviceID string) error {
	device, err := app.storage.FindDeviceByID(deviceID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeDevice, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	if device == nil {
		return errors.ErrorData(logutils.StatusMissing, model.TypeDevice, &logutils.FieldArgs{"id": deviceID}).SetStatus(utils.ErrorStatusNotFound)
	}

	err = app.storage.DeleteDevice(deviceID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeDevice, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return nil
}

func (app *application) admListAccounts(role *string, status *string) ([]model.Account, error) {
	if role != nil && !model.ValidRole(*role) {
		return nil, errors.ErrorData(logutils.StatusInvalid, "role", logutils.StringArgs(*role))
	}
	if status != nil && !model.ValidAccountStatus(*status) {
		return nil, errors.ErrorData(logutils.StatusInvalid, "status", logutils.StringArgs(*status))
	}
	accounts, err := app.storage.FindAccounts(role, status)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeAccount, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return accounts, nil
}

func (app *application) admGetAccount(id string) (*model.Account, error) {
	return app.serGetAccount(id)
}

func (app *application) admCreateAccount(actor *model.Account, email string, name string, password string, role string, tools []string, ip string) (*model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !model.ValidRole(role) {
		return nil, errors.ErrorData(logutils.StatusInvalid, "role", logutils.StringArgs(role))
	}
	//only super administrators hand out administrative roles
	if role != model.RoleUser && !actor.IsSuperAdministrator() {
		return nil, errors.ErrorData(logutils.StatusInvalid, "role", logutils.StringArgs(role)).SetStatus(utils.ErrorStatusForbidden)
	}

	existing, err := app.storage.FindAccountByEmail(email)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeAccount, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	if existing != nil {
		return nil, errors.ErrorData(logutils.StatusInvalid, model.TypeAccount, &logutils.FieldArgs{"email": email}).SetStatus(utils.ErrorStatusAlreadyExists)
	}

	hash, err := app.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := model.Account{ID: uuid.NewString(), Email: email, Name: name, PasswordHash: hash,
		Role: role, Status: model.AccountStatusActive, AllowedTools: tools, DateCreated: now}
	err = app.storage.InsertAccount(account)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionInsert, model.TypeAccount, nil, err).SetStatus(utils.ErrorStatusTransient)
	}

	app.sendWelcome(account)
	app.audit(model.AuditActionAccountCreated, actor, email, role, ip)
	app.events.Publish(EventAccountCreated, map[string]interface{}{"account_id": account.ID, "email": email})
	return &account, nil
}

func (app *application) admUpdateAccount(actor *model.Account, id string, name *string, twoStep *bool, ip string) (*model.Account, error) {
	account, err := app.serGetAccount(id)
	if err != nil {
		return nil, err
	}
	if account.IsSuperAdministrator() && !actor.IsSuperAdministrator() {
		return nil, errors.ErrorData(logutils.StatusInvalid, model.TypeAccount, logutils.StringArgs("protected")).SetStatus(utils.ErrorStatusForbidden)
	}

	updated, err := app.serUpdateProfile(account, name, twoStep)
	if err != nil {
		return nil, err
	}

	app.audit(model.AuditActionAccountUpdated, actor, account.Email, "", ip)
	app.events.Publish(EventAccountUpdated, map[string]interface{}{"account_id": account.ID})
	return updated, nil
}

func (app *application) admSetAccountStatus(actor *model.Account, id string, status string, ip string) error {
	//suspend and reactivate only, accounts never go back to pending
	if status != model.AccountStatusSuspended && status != model.AccountStatusActive {
		return errors.ErrorData(logutils.StatusInvalid, "status", logutils.StringArgs(status))
	}
	if id == actor.ID {
		return errors.ErrorData(logutils.StatusInvalid, model.TypeAccount, logutils.StringArgs("own account")).SetStatus(utils.ErrorStatusForbidden)
	}

	account, err := app.serGetAccount(id)
	if err != nil {
		return err
	}
	if account.IsSuperAdministrator() && !actor.IsSuperAdministrator() {
		return errors.ErrorData(logutils.StatusInvalid, model.TypeAccount, logutils.StringArgs("protected")).SetStatus(utils.ErrorStatusForbidden)
	}

	err = app.storage.UpdateAccountStatus(id, status)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeAccount, nil, err).SetStatus(utils.ErrorStatusTransient)
	}

	//suspension cuts live sessions immediately
	if status == model.AccountStatusSuspended {
		err = app.auth.LogoutAll(id)
		if err != nil {
			app.logger.Errorf("error revoking sessions for suspended account %s: %v", id, err)
		}
		app.audit(model.AuditActionAccountSuspended, actor, account.Email, "", ip)
	} else {
		app.audit(model.AuditActionAccountUpdated, actor, account.Email, "status "+status, ip)
	}
	app.events.Publish(EventAccountUpdated, map[string]interface{}{"account_id": id, "status": status})
	return nil
}

func (app *application) admSetAccountTools(actor *model.Account, id string, tools []string, ip string) error {
	account, err := app.serGetAccount(id)
	if err != nil {
		return err
	}

	for _, toolID := range tools {
		tool, err := app.storage.FindToolByID(toolID)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionFind, model.TypeTool, nil, err).SetStatus(utils.ErrorStatusTransient)
		}
		if tool == nil {
			return errors.ErrorData(logutils.StatusMissing, model.TypeTool, &logutils.FieldArgs{"id": toolID}).SetStatus(utils.ErrorStatusNotFound)
		}
	}

	err = app.storage.UpdateAccountTools(id, tools)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeAccount, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	app.audit(model.AuditActionAccountUpdated, actor, account.Email, "tools", ip)
	return nil
}

func (app *application) admListAuditEvents(limit int, offset int, actorID *string, action *string) ([]model.AuditEvent, int64, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	events, err := app.storage.FindAuditEvents(limit, offset, actorID, action)
	if err != nil {
		return nil, 0, errors.WrapErrorAction(logutils.ActionFind, model.TypeAuditEvent, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	total, err := app.storage.CountAuditEvents(actorID, action)
	if err != nil {
		return nil, 0, errors.WrapErrorAction(logutils.ActionCount, model.TypeAuditEvent, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return events, total, nil
}

func (app *application) sendWelcome(account model.Account) {
	subject := "Your access portal account"
	body := "<p>Hi " + account.Name + ",</p><p>An access portal account has been created for " + account.Email +
		". Sign in with the password you were given and change it right away.</p>"
	err := app.emailer.Send(account.Email, subject, body)
	if err != nil {
		app.logger.Errorf("error sending welcome email to %s: %v", account.Email, err)
	}
}
