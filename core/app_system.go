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

package core

import (
	"net"
	"time"

	"access-core/core/model"
	"access-core/utils"

	"github.com/google/uuid"
	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

func (app *application) sysSetAccountRole(actor *model.Account, id string, role string, ip string) error {
	if !model.ValidRole(role) {
		return errors.ErrorData(logutils.StatusInvalid, "role", logutils.StringArgs(role))
	}
	if id == actor.ID {
		return errors.ErrorData(logutils.StatusInvalid, model.TypeAccount, logutils.StringArgs("own role")).SetStatus(utils.ErrorStatusForbidden)
	}

	account, err := app.serGetAccount(id)
	if err != nil {
		return err
	}

	err = app.storage.UpdateAccountRole(id, role)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeAccount, nil, err).SetStatus(utils.ErrorStatusTransient)
	}

	//tokens carry the old role until they are reissued, so cut them
	err = app.auth.LogoutAll(id)
	if err != nil {
		app.logger.Errorf("error revoking sessions for account %s: %v", id, err)
	}

	app.audit(model.AuditActionAccountUpdated, actor, account.Email, "role "+role, ip)
	app.events.Publish(EventAccountUpdated, map[string]interface{}{"account_id": id, "role": role})
	return nil
}

func (app *application) sysDeleteAccount(actor *model.Account, id string, ip string) error {
	if id == actor.ID {
		return errors.ErrorData(logutils.StatusInvalid, model.TypeAccount, logutils.StringArgs("own account")).SetStatus(utils.ErrorStatusForbidden)
	}

	account, err := app.serGetAccount(id)
	if err != nil {
		return err
	}
	//administrative accounts are demoted first, never deleted directly
	if account.IsAdministrator() {
		return errors.ErrorData(logutils.StatusInvalid, model.TypeAccount, logutils.StringArgs("protected")).SetStatus(utils.ErrorStatusForbidden)
	}

	err = app.storage.DeleteAccount(id)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeAccount, nil, err).SetStatus(utils.ErrorStatusTransient)
	}

	//owned records go with the account
	if err := app.storage.DeleteLoginSessionsByAccountID(id); err != nil {
		app.logger.Errorf("error deleting sessions for account %s: %v", id, err)
	}
	if err := app.storage.DeleteDevicesByAccountID(id); err != nil {
		app.logger.Errorf("error deleting devices for account %s: %v", id, err)
	}
	if err := app.storage.DeleteToolCredentialsByAccountID(id); err != nil {
		app.logger.Errorf("error deleting credentials for account %s: %v", id, err)
	}
	if err := app.storage.DeleteTempTokensByAccountID(id); err != nil {
		app.logger.Errorf("error deleting temp tokens for account %s: %v", id, err)
	}

	app.audit(model.AuditActionAccountDeleted, actor, account.Email, "", ip)
	return nil
}

func (app *application) sysSetAccountIPRestriction(actor *model.Account, id string, restricted bool, ips []string, ip string) error {
	for _, address := range ips {
		if net.ParseIP(address) == nil {
			return errors.ErrorData(logutils.StatusInvalid, "ip address", logutils.StringArgs(address))
		}
	}

	account, err := app.serGetAccount(id)
	if err != nil {
		return err
	}

	err = app.storage.UpdateAccountIPSettings(id, restricted, ips)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeAccount, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	app.audit(model.AuditActionAccountUpdated, actor, account.Email, "ip restriction", ip)
	return nil
}

func (app *application) sysCreateTool(actor *model.Account, tool model.Tool, sharedPassword *string) (*model.Tool, error) {
	if tool.Name == "" || tool.URL == "" {
		return nil, errors.ErrorData(logutils.StatusMissing, model.TypeTool, logutils.StringArgs("name or url"))
	}

	tool.ID = uuid.NewString()
	tool.DateCreated = time.Now().UTC()
	if sharedPassword != nil {
		sealed, err := app.cipher.Seal(*sharedPassword)
		if err != nil {
			return nil, err
		}
		tool.SharedPassword = sealed
	}

	err := app.storage.InsertTool(tool)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionInsert, model.TypeTool, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	app.audit(model.AuditActionToolChanged, actor, tool.Name, "created", "")
	return &tool, nil
}

func (app *application) sysUpdateTool(actor *model.Account, tool model.Tool, sharedPassword *string) (*model.Tool, error) {
	existing, err := app.storage.FindToolByID(tool.ID)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeTool, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	if existing == nil {
		return nil, errors.ErrorData(logutils.StatusMissing, model.TypeTool, &logutils.FieldArgs{"id": tool.ID}).SetStatus(utils.ErrorStatusNotFound)
	}

	tool.DateCreated = existing.DateCreated
	tool.SharedPassword = existing.SharedPassword
	if sharedPassword != nil {
		sealed, err := app.cipher.Seal(*sharedPassword)
		if err != nil {
			return nil, err
		}
		tool.SharedPassword = sealed
	}

	err = app.storage.UpdateTool(tool)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionUpdate, model.TypeTool, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	app.audit(model.AuditActionToolChanged, actor, tool.Name, "updated", "")
	return &tool, nil
}

func (app *application) sysDeleteTool(actor *model.Account, id string) error {
	tool, err := app.storage.FindToolByID(id)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeTool, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	if tool == nil {
		return errors.ErrorData(logutils.StatusMissing, model.TypeTool, &logutils.FieldArgs{"id": id}).SetStatus(utils.ErrorStatusNotFound)
	}

	err = app.storage.DeleteTool(id)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeTool, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	//drop the tool from every account's grants
	err = app.storage.RemoveToolFromAccounts(id)
	if err != nil {
		app.logger.Errorf("error removing tool %s from accounts: %v", id, err)
	}
	app.audit(model.AuditActionToolChanged, actor, tool.Name, "deleted", "")
	return nil
}

func (app *application) sysListIPAllowlist() ([]model.IPAllowlistEntry, error) {
	entries, err := app.storage.FindIPAllowlist(false)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeIPAllowlistEntry, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return entries, nil
}

func (app *application) sysAddIPAllowlistEntry(actor *model.Account, ip string, description string) (*model.IPAllowlistEntry, error) {
	if net.ParseIP(ip) == nil {
		return nil, errors.ErrorData(logutils.StatusInvalid, "ip address", logutils.StringArgs(ip))
	}

	now := time.Now().UTC()
	entry := model.IPAllowlistEntry{ID: uuid.NewString(), IP: ip, Description: description,
		Active: true, AddedBy: actor.ID, DateCreated: now}
	err := app.storage.InsertIPAllowlistEntry(entry)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionInsert, model.TypeIPAllowlistEntry, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return &entry, nil
}

func (app *application) sysUpdateIPAllowlistEntry(actor *model.Account, id string, description *string, active *bool) (*model.IPAllowlistEntry, error) {
	entries, err := app.storage.FindIPAllowlist(false)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeIPAllowlistEntry, nil, err).SetStatus(utils.ErrorStatusTransient)
	}

	var entry *model.IPAllowlistEntry
	for i := range entries {
		if entries[i].ID == id {
			entry = &entries[i]
			break
		}
	}
	if entry == nil {
		return nil, errors.ErrorData(logutils.StatusMissing, model.TypeIPAllowlistEntry, &logutils.FieldArgs{"id": id}).SetStatus(utils.ErrorStatusNotFound)
	}

	if description != nil {
		entry.Description = *description
	}
	if active != nil {
		entry.Active = *active
	}
	err = app.storage.UpdateIPAllowlistEntry(*entry)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionUpdate, model.TypeIPAllowlistEntry, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return entry, nil
}

func (app *application) sysRemoveIPAllowlistEntry(actor *model.Account, id string) error {
	err := app.storage.DeleteIPAllowlistEntry(id)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeIPAllowlistEntry, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return nil
}
