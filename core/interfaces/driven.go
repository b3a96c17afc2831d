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

package interfaces

import (
	"time"

	"access-core/core/model"
)

// Storage interface to communicate with the storage
type Storage interface {
	//Accounts
	FindAccountByEmail(email string) (*model.Account, error)
	FindAccountByID(id string) (*model.Account, error)
	FindAccounts(role *string, status *string) ([]model.Account, error)
	InsertAccount(account model.Account) error
	UpdateAccount(account model.Account) error
	UpdateAccountStatus(id string, status string) error
	UpdateAccountRole(id string, role string) error
	UpdateAccountTools(id string, tools []string) error
	UpdateAccountIPSettings(id string, restricted bool, ips []string) error
	UpdateAccountPassword(id string, passwordHash string) error
	UpdateAccountLoginInfo(id string, ip string, at time.Time) error
	DeleteAccount(id string) error

	//LoginSessions
	InsertLoginSession(session model.LoginSession) error
	FindLoginSession(id string) (*model.LoginSession, error)
	DeleteLoginSession(id string) error
	DeleteLoginSessionsByAccountID(accountID string) error

	//TempTokens
	InsertTempToken(token model.TempToken) error
	FindTempToken(tokenHash string) (*model.TempToken, error)
	FindAndTallyTempToken(tokenHash string) (*model.TempToken, error)
	ConsumeTempToken(id string) (bool, error)
	BurnTempToken(id string) error
	UpdateTempTokenSent(id string, code string, lastSent time.Time, expires time.Time) error
	DeleteTempTokensByAccountID(accountID string) error

	//Devices
	FindDevice(accountID string, fingerprint string) (*model.Device, error)
	FindDeviceByID(id string) (*model.Device, error)
	FindDevices(accountID *string, status *model.DeviceStatus) ([]model.Device, error)
	UpsertDevice(device model.Device) (*model.Device, error)
	UpdateDeviceStatus(id string, from model.DeviceStatus, to model.DeviceStatus, reviewer string, note string) (bool, error)
	DeleteDevice(id string) error
	DeleteDevicesByAccountID(accountID string) error

	//Tools
	FindTools() ([]model.Tool, error)
	FindToolByID(id string) (*model.Tool, error)
	InsertTool(tool model.Tool) error
	UpdateTool(tool model.Tool) error
	DeleteTool(id string) error
	RemoveToolFromAccounts(toolID string) error

	//ToolCredentials
	FindToolCredentialByID(id string) (*model.ToolCredential, error)
	FindToolCredentials(accountID string, toolID *string) ([]model.ToolCredential, error)
	InsertToolCredential(credential model.ToolCredential) error
	UpdateToolCredential(credential model.ToolCredential) error
	DeleteToolCredential(id string) error
	DeleteToolCredentialsByAccountID(accountID string) error

	//AccessGrants
	InsertAccessGrant(grant model.AccessGrant) error
	ConsumeAccessGrant(tokenHash string) (*model.AccessGrant, error)

	//IPAllowlist
	FindIPAllowlist(activeOnly bool) ([]model.IPAllowlistEntry, error)
	InsertIPAllowlistEntry(entry model.IPAllowlistEntry) error
	UpdateIPAllowlistEntry(entry model.IPAllowlistEntry) error
	DeleteIPAllowlistEntry(id string) error

	//AuditEvents
	InsertAuditEvent(event model.AuditEvent) error
	FindAuditEvents(limit int, offset int, actorID *string, action *string) ([]model.AuditEvent, error)
	CountAuditEvents(actorID *string, action *string) (int64, error)
}

// Emailer interface for sending emails
type Emailer interface {
	Send(toEmail string, subject string, body string) error
}
