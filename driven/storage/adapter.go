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

package storage

import (
	stderrors "errors"
	"strconv"
	"time"

	"access-core/core/model"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Adapter implements the Storage interface
type Adapter struct {
	db *database
}

// NewStorageAdapter creates a new storage adapter instance
func NewStorageAdapter(mongoDBAuth string, mongoDBName string, mongoTimeout string, logger *logs.Logger) *Adapter {
	timeout, err := strconv.Atoi(mongoTimeout)
	if err != nil {
		logger.Warn("setting default mongo timeout - 500")
		timeout = 500
	}
	timeoutMS := time.Millisecond * time.Duration(timeout)

	db := &database{mongoDBAuth: mongoDBAuth, mongoDBName: mongoDBName, mongoTimeout: timeoutMS, logger: logger}
	return &Adapter{db: db}
}

// Start starts the storage
func (sa *Adapter) Start() error {
	err := sa.db.start()
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionInitialize, "storage adapter", nil, err)
	}
	return nil
}

//Accounts

// FindAccountByEmail finds an account by email, nil when missing
func (sa *Adapter) FindAccountByEmail(email string) (*model.Account, error) {
	return sa.findAccount(bson.M{"email": email})
}

// FindAccountByID finds an account by id, nil when missing
func (sa *Adapter) FindAccountByID(id string) (*model.Account, error) {
	return sa.findAccount(bson.M{"_id": id})
}

func (sa *Adapter) findAccount(filter bson.M) (*model.Account, error) {
	var account model.Account
	err := sa.db.accounts.FindOne(filter, &account, nil)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeAccount, nil, err)
	}
	return &account, nil
}

// FindAccounts finds accounts, optionally filtered by role and status
func (sa *Adapter) FindAccounts(role *string, status *string) ([]model.Account, error) {
	filter := bson.M{}
	if role != nil {
		filter["role"] = *role
	}
	if status != nil {
		filter["status"] = *status
	}

	var accounts []model.Account
	findOptions := options.Find().SetSort(bson.D{primitive.E{Key: "date_created", Value: 1}})
	err := sa.db.accounts.Find(filter, &accounts, findOptions)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeAccount, nil, err)
	}
	return accounts, nil
}

// InsertAccount inserts a new account
func (sa *Adapter) InsertAccount(account model.Account) error {
	_, err := sa.db.accounts.InsertOne(account)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionInsert, model.TypeAccount, nil, err)
	}
	return nil
}

// UpdateAccount saves the account's mutable profile fields
func (sa *Adapter) UpdateAccount(account model.Account) error {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{"name": account.Name, "two_step_enabled": account.TwoStepEnabled, "date_updated": now}}
	return sa.updateAccountFields(account.ID, update)
}

// UpdateAccountStatus sets the account status
func (sa *Adapter) UpdateAccountStatus(id string, status string) error {
	return sa.updateAccountFields(id, bson.M{"$set": bson.M{"status": status, "date_updated": time.Now().UTC()}})
}

// UpdateAccountRole sets the account role
func (sa *Adapter) UpdateAccountRole(id string, role string) error {
	return sa.updateAccountFields(id, bson.M{"$set": bson.M{"role": role, "date_updated": time.Now().UTC()}})
}

// UpdateAccountTools sets the account's granted tools
func (sa *Adapter) UpdateAccountTools(id string, tools []string) error {
	return sa.updateAccountFields(id, bson.M{"$set": bson.M{"allowed_tools": tools, "date_updated": time.Now().UTC()}})
}

// UpdateAccountIPSettings sets the account's address restriction
func (sa *Adapter) UpdateAccountIPSettings(id string, restricted bool, ips []string) error {
	return sa.updateAccountFields(id, bson.M{"$set": bson.M{"ip_restricted": restricted, "allowed_ips": ips, "date_updated": time.Now().UTC()}})
}

// UpdateAccountPassword sets the account's password hash
func (sa *Adapter) UpdateAccountPassword(id string, passwordHash string) error {
	return sa.updateAccountFields(id, bson.M{"$set": bson.M{"password_hash": passwordHash, "date_updated": time.Now().UTC()}})
}

// UpdateAccountLoginInfo records the last sign in address and time
func (sa *Adapter) UpdateAccountLoginInfo(id string, ip string, at time.Time) error {
	return sa.updateAccountFields(id, bson.M{"$set": bson.M{"last_login_ip": ip, "last_login": at}})
}

func (sa *Adapter) updateAccountFields(id string, update bson.M) error {
	res, err := sa.db.accounts.UpdateOne(bson.M{"_id": id}, update, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeAccount, &logutils.FieldArgs{"id": id}, err)
	}
	if res.MatchedCount == 0 {
		return errors.ErrorData(logutils.StatusMissing, model.TypeAccount, &logutils.FieldArgs{"id": id})
	}
	return nil
}

// DeleteAccount deletes an account
func (sa *Adapter) DeleteAccount(id string) error {
	_, err := sa.db.accounts.DeleteOne(bson.M{"_id": id}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeAccount, &logutils.FieldArgs{"id": id}, err)
	}
	return nil
}

//LoginSessions

// InsertLoginSession inserts a login session
func (sa *Adapter) InsertLoginSession(session model.LoginSession) error {
	_, err := sa.db.loginSessions.InsertOne(session)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionInsert, model.TypeLoginSession, nil, err)
	}
	return nil
}

// FindLoginSession finds a login session by id, nil when missing
func (sa *Adapter) FindLoginSession(id string) (*model.LoginSession, error) {
	var session model.LoginSession
	err := sa.db.loginSessions.FindOne(bson.M{"_id": id}, &session, nil)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeLoginSession, nil, err)
	}
	return &session, nil
}

// DeleteLoginSession deletes a login session
func (sa *Adapter) DeleteLoginSession(id string) error {
	_, err := sa.db.loginSessions.DeleteOne(bson.M{"_id": id}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeLoginSession, &logutils.FieldArgs{"id": id}, err)
	}
	return nil
}

// DeleteLoginSessionsByAccountID deletes all sessions of an account
func (sa *Adapter) DeleteLoginSessionsByAccountID(accountID string) error {
	_, err := sa.db.loginSessions.DeleteMany(bson.M{"account_id": accountID}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeLoginSession, &logutils.FieldArgs{"account_id": accountID}, err)
	}
	return nil
}

//TempTokens

// InsertTempToken inserts a temp token
func (sa *Adapter) InsertTempToken(token model.TempToken) error {
	_, err := sa.db.tempTokens.InsertOne(token)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionInsert, model.TypeTempToken, nil, err)
	}
	return nil
}

// FindTempToken finds a temp token by digest, nil when missing
func (sa *Adapter) FindTempToken(tokenHash string) (*model.TempToken, error) {
	var token model.TempToken
	err := sa.db.tempTokens.FindOne(bson.M{"token_hash": tokenHash}, &token, nil)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeTempToken, nil, err)
	}
	return &token, nil
}

// FindAndTallyTempToken finds an unconsumed temp token by digest and
// atomically counts the verification attempt, nil when missing
func (sa *Adapter) FindAndTallyTempToken(tokenHash string) (*model.TempToken, error) {
	filter := bson.M{"token_hash": tokenHash, "consumed": false}
	update := bson.M{"$inc": bson.M{"attempts": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var token model.TempToken
	err := sa.db.tempTokens.FindOneAndUpdate(filter, update, &token, opts)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeTempToken, nil, err)
	}
	return &token, nil
}

// ConsumeTempToken marks the temp token consumed. Exactly one of any
// concurrent callers gets true back.
func (sa *Adapter) ConsumeTempToken(id string) (bool, error) {
	res, err := sa.db.tempTokens.UpdateOne(bson.M{"_id": id, "consumed": false}, bson.M{"$set": bson.M{"consumed": true}}, nil)
	if err != nil {
		return false, errors.WrapErrorAction(logutils.ActionUpdate, model.TypeTempToken, &logutils.FieldArgs{"id": id}, err)
	}
	return res.ModifiedCount == 1, nil
}

// BurnTempToken invalidates the temp token
func (sa *Adapter) BurnTempToken(id string) error {
	_, err := sa.db.tempTokens.UpdateOne(bson.M{"_id": id}, bson.M{"$set": bson.M{"consumed": true}}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeTempToken, &logutils.FieldArgs{"id": id}, err)
	}
	return nil
}

// UpdateTempTokenSent stores a fresh code and send time, resetting attempts
func (sa *Adapter) UpdateTempTokenSent(id string, code string, lastSent time.Time, expires time.Time) error {
	update := bson.M{"$set": bson.M{"code": code, "last_sent": lastSent, "expires": expires, "attempts": 0}}
	_, err := sa.db.tempTokens.UpdateOne(bson.M{"_id": id}, update, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeTempToken, &logutils.FieldArgs{"id": id}, err)
	}
	return nil
}

// DeleteTempTokensByAccountID deletes all temp tokens of an account
func (sa *Adapter) DeleteTempTokensByAccountID(accountID string) error {
	_, err := sa.db.tempTokens.DeleteMany(bson.M{"account_id": accountID}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeTempToken, &logutils.FieldArgs{"account_id": accountID}, err)
	}
	return nil
}

//Devices

// FindDevice finds a device by account and fingerprint, nil when missing
func (sa *Adapter) FindDevice(accountID string, fingerprint string) (*model.Device, error) {
	var device model.Device
	err := sa.db.devices.FindOne(bson.M{"account_id": accountID, "fingerprint": fingerprint}, &device, nil)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeDevice, nil, err)
	}
	return &device, nil
}

// FindDeviceByID finds a device by id, nil when missing
func (sa *Adapter) FindDeviceByID(id string) (*model.Device, error) {
	var device model.Device
	err := sa.db.devices.FindOne(bson.M{"_id": id}, &device, nil)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeDevice, nil, err)
	}
	return &device, nil
}

// FindDevices finds devices, optionally filtered by account and status
func (sa *Adapter) FindDevices(accountID *string, status *model.DeviceStatus) ([]model.Device, error) {
	filter := bson.M{}
	if accountID != nil {
		filter["account_id"] = *accountID
	}
	if status != nil {
		filter["status"] = *status
	}

	var devices []model.Device
	findOptions := options.Find().SetSort(bson.D{primitive.E{Key: "last_seen", Value: -1}})
	err := sa.db.devices.Find(filter, &devices, findOptions)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeDevice, nil, err)
	}
	return devices, nil
}

// UpsertDevice inserts the device or refreshes the existing record for
// the same account and fingerprint. Concurrent registrations settle on
// a single record through the unique index.
func (sa *Adapter) UpsertDevice(device model.Device) (*model.Device, error) {
	filter := bson.M{"account_id": device.AccountID, "fingerprint": device.Fingerprint}
	update := bson.M{
		"$set": bson.M{"name": device.Name, "browser": device.Browser, "os": device.OS,
			"ip_address": device.IPAddress, "last_seen": device.LastSeen, "date_updated": time.Now().UTC()},
		"$setOnInsert": bson.M{"_id": device.ID, "account_id": device.AccountID, "fingerprint": device.Fingerprint,
			"status": device.Status, "date_created": device.DateCreated},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored model.Device
	err := sa.db.devices.FindOneAndUpdate(filter, update, &stored, opts)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionUpdate, model.TypeDevice, nil, err)
	}
	return &stored, nil
}

// UpdateDeviceStatus applies a review conditionally on the current
// status. False means the device was not in the expected state.
func (sa *Adapter) UpdateDeviceStatus(id string, from model.DeviceStatus, to model.DeviceStatus, reviewer string, note string) (bool, error) {
	now := time.Now().UTC()
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "admin_note": note, "reviewed_by": reviewer,
		"reviewed_at": now, "date_updated": now}}

	res, err := sa.db.devices.UpdateOne(filter, update, nil)
	if err != nil {
		return false, errors.WrapErrorAction(logutils.ActionUpdate, model.TypeDevice, &logutils.FieldArgs{"id": id}, err)
	}
	return res.ModifiedCount == 1, nil
}

// DeleteDevice deletes a device
func (sa *Adapter) DeleteDevice(id string) error {
	_, err := sa.db.devices.DeleteOne(bson.M{"_id": id}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeDevice, &logutils.FieldArgs{"id": id}, err)
	}
	return nil
}

// DeleteDevicesByAccountID deletes all devices of an account
func (sa *Adapter) DeleteDevicesByAccountID(accountID string) error {
	_, err := sa.db.devices.DeleteMany(bson.M{"account_id": accountID}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeDevice, &logutils.FieldArgs{"account_id": accountID}, err)
	}
	return nil
}

//Tools

// FindTools finds all tools
func (sa *Adapter) FindTools() ([]model.Tool, error) {
	var tools []model.Tool
	findOptions := options.Find().SetSort(bson.D{primitive.E{Key: "name", Value: 1}})
	err := sa.db.tools.Find(nil, &tools, findOptions)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeTool, nil, err)
	}
	return tools, nil
}

// FindToolByID finds a tool by id, nil when missing
func (sa *Adapter) FindToolByID(id string) (*model.Tool, error) {
	var tool model.Tool
	err := sa.db.tools.FindOne(bson.M{"_id": id}, &tool, nil)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeTool, nil, err)
	}
	return &tool, nil
}

// InsertTool inserts a tool
func (sa *Adapter) InsertTool(tool model.Tool) error {
	_, err := sa.db.tools.InsertOne(tool)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionInsert, model.TypeTool, nil, err)
	}
	return nil
}

// UpdateTool replaces a tool
func (sa *Adapter) UpdateTool(tool model.Tool) error {
	now := time.Now().UTC()
	tool.DateUpdated = &now
	err := sa.db.tools.ReplaceOne(bson.M{"_id": tool.ID}, tool, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeTool, &logutils.FieldArgs{"id": tool.ID}, err)
	}
	return nil
}

// DeleteTool deletes a tool
func (sa *Adapter) DeleteTool(id string) error {
	_, err := sa.db.tools.DeleteOne(bson.M{"_id": id}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeTool, &logutils.FieldArgs{"id": id}, err)
	}
	return nil
}

// RemoveToolFromAccounts pulls the tool from every account's grants
func (sa *Adapter) RemoveToolFromAccounts(toolID string) error {
	_, err := sa.db.accounts.UpdateMany(bson.M{}, bson.M{"$pull": bson.M{"allowed_tools": toolID}}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeAccount, &logutils.FieldArgs{"tool_id": toolID}, err)
	}
	return nil
}

//ToolCredentials

// FindToolCredentialByID finds a tool credential by id, nil when missing
func (sa *Adapter) FindToolCredentialByID(id string) (*model.ToolCredential, error) {
	var credential model.ToolCredential
	err := sa.db.toolCredentials.FindOne(bson.M{"_id": id}, &credential, nil)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeToolCredential, nil, err)
	}
	return &credential, nil
}

// FindToolCredentials finds the account's credentials, optionally for one tool
func (sa *Adapter) FindToolCredentials(accountID string, toolID *string) ([]model.ToolCredential, error) {
	filter := bson.M{"account_id": accountID}
	if toolID != nil {
		filter["tool_id"] = *toolID
	}

	var credentials []model.ToolCredential
	findOptions := options.Find().SetSort(bson.D{primitive.E{Key: "date_created", Value: 1}})
	err := sa.db.toolCredentials.Find(filter, &credentials, findOptions)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeToolCredential, nil, err)
	}
	return credentials, nil
}

// InsertToolCredential inserts a tool credential
func (sa *Adapter) InsertToolCredential(credential model.ToolCredential) error {
	_, err := sa.db.toolCredentials.InsertOne(credential)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionInsert, model.TypeToolCredential, nil, err)
	}
	return nil
}

// UpdateToolCredential replaces a tool credential
func (sa *Adapter) UpdateToolCredential(credential model.ToolCredential) error {
	now := time.Now().UTC()
	credential.DateUpdated = &now
	err := sa.db.toolCredentials.ReplaceOne(bson.M{"_id": credential.ID}, credential, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeToolCredential, &logutils.FieldArgs{"id": credential.ID}, err)
	}
	return nil
}

// DeleteToolCredential deletes a tool credential
func (sa *Adapter) DeleteToolCredential(id string) error {
	_, err := sa.db.toolCredentials.DeleteOne(bson.M{"_id": id}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeToolCredential, &logutils.FieldArgs{"id": id}, err)
	}
	return nil
}

// DeleteToolCredentialsByAccountID deletes all credentials of an account
func (sa *Adapter) DeleteToolCredentialsByAccountID(accountID string) error {
	_, err := sa.db.toolCredentials.DeleteMany(bson.M{"account_id": accountID}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeToolCredential, &logutils.FieldArgs{"account_id": accountID}, err)
	}
	return nil
}

//AccessGrants

// InsertAccessGrant inserts an access grant
func (sa *Adapter) InsertAccessGrant(grant model.AccessGrant) error {
	_, err := sa.db.accessGrants.InsertOne(grant)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionInsert, model.TypeAccessGrant, nil, err)
	}
	return nil
}

// ConsumeAccessGrant atomically redeems an unused grant by token digest,
// nil when the grant is unknown or already used
func (sa *Adapter) ConsumeAccessGrant(tokenHash string) (*model.AccessGrant, error) {
	filter := bson.M{"token_hash": tokenHash, "used": false}
	update := bson.M{"$set": bson.M{"used": true}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var grant model.AccessGrant
	err := sa.db.accessGrants.FindOneAndUpdate(filter, update, &grant, opts)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeAccessGrant, nil, err)
	}
	return &grant, nil
}

//IPAllowlist

// FindIPAllowlist finds the allowlist, optionally only active entries
func (sa *Adapter) FindIPAllowlist(activeOnly bool) ([]model.IPAllowlistEntry, error) {
	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}

	var entries []model.IPAllowlistEntry
	err := sa.db.ipAllowlist.Find(filter, &entries, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeIPAllowlistEntry, nil, err)
	}
	return entries, nil
}

// InsertIPAllowlistEntry inserts an allowlist entry
func (sa *Adapter) InsertIPAllowlistEntry(entry model.IPAllowlistEntry) error {
	_, err := sa.db.ipAllowlist.InsertOne(entry)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionInsert, model.TypeIPAllowlistEntry, nil, err)
	}
	return nil
}

// UpdateIPAllowlistEntry replaces an allowlist entry
func (sa *Adapter) UpdateIPAllowlistEntry(entry model.IPAllowlistEntry) error {
	now := time.Now().UTC()
	entry.DateUpdated = &now
	err := sa.db.ipAllowlist.ReplaceOne(bson.M{"_id": entry.ID}, entry, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeIPAllowlistEntry, &logutils.FieldArgs{"id": entry.ID}, err)
	}
	return nil
}

// DeleteIPAllowlistEntry deletes an allowlist entry
func (sa *Adapter) DeleteIPAllowlistEntry(id string) error {
	_, err := sa.db.ipAllowlist.DeleteOne(bson.M{"_id": id}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeIPAllowlistEntry, &logutils.FieldArgs{"id": id}, err)
	}
	return nil
}

//AuditEvents

// InsertAuditEvent inserts an audit event
func (sa *Adapter) InsertAuditEvent(event model.AuditEvent) error {
	_, err := sa.db.auditEvents.InsertOne(event)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionInsert, model.TypeAuditEvent, nil, err)
	}
	return nil
}

// FindAuditEvents finds audit events newest first
func (sa *Adapter) FindAuditEvents(limit int, offset int, actorID *string, action *string) ([]model.AuditEvent, error) {
	filter := bson.M{}
	if actorID != nil {
		filter["actor_id"] = *actorID
	}
	if action != nil {
		filter["action"] = *action
	}

	var events []model.AuditEvent
	findOptions := options.Find().SetSort(bson.D{primitive.E{Key: "date_created", Value: -1}}).
		SetLimit(int64(limit)).SetSkip(int64(offset))
	err := sa.db.auditEvents.Find(filter, &events, findOptions)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeAuditEvent, nil, err)
	}
	return events, nil
}

// CountAuditEvents counts the audit events matching the filter
func (sa *Adapter) CountAuditEvents(actorID *string, action *string) (int64, error) {
	filter := bson.M{}
	if actorID != nil {
		filter["actor_id"] = *actorID
	}
	if action != nil {
		filter["action"] = *action
	}

	count, err := sa.db.auditEvents.CountDocuments(filter)
	if err != nil {
		return 0, errors.WrapErrorAction(logutils.ActionCount, model.TypeAuditEvent, nil, err)
	}
	return count, nil
}
