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

// Package mocks holds hand maintained testify mocks for the driven
// adapters, shared by the core and auth tests.
package mocks

import (
	"time"

	"access-core/core/model"

	"github.com/stretchr/testify/mock"
)

// Storage is a mock of the storage interface
type Storage struct {
	mock.Mock
}

// FindAccountByEmail mocks the matching storage operation
func (m *Storage) FindAccountByEmail(email string) (*model.Account, error) {
	args := m.Called(email)
	var account *model.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*model.Account)
	}
	return account, args.Error(1)
}

// FindAccountByID mocks the matching storage operation
func (m *Storage) FindAccountByID(id string) (*model.Account, error) {
	args := m.Called(id)
	var account *model.Account
	if args.Get(0) != nil {
		account = args.Get(0).(*model.Account)
	}
	return account, args.Error(1)
}

// FindAccounts mocks the matching storage operation
func (m *Storage) FindAccounts(role *string, status *string) ([]model.Account, error) {
	args := m.Called(role, status)
	var accounts []model.Account
	if args.Get(0) != nil {
		accounts = args.Get(0).([]model.Account)
	}
	return accounts, args.Error(1)
}

// InsertAccount mocks the matching storage operation
func (m *Storage) InsertAccount(account model.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

// UpdateAccount mocks the matching storage operation
func (m *Storage) UpdateAccount(account model.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

// UpdateAccountStatus mocks the matching storage operation
func (m *Storage) UpdateAccountStatus(id string, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

// UpdateAccountRole mocks the matching storage operation
func (m *Storage) UpdateAccountRole(id string, role string) error {
	args := m.Called(id, role)
	return args.Error(0)
}

// UpdateAccountTools mocks the matching storage operation
func (m *Storage) UpdateAccountTools(id string, tools []string) error {
	args := m.Called(id, tools)
	return args.Error(0)
}

// UpdateAccountIPSettings mocks the matching storage operation
func (m *Storage) UpdateAccountIPSettings(id string, restricted bool, ips []string) error {
	args := m.Called(id, restricted, ips)
	return args.Error(0)
}

// UpdateAccountPassword mocks the matching storage operation
func (m *Storage) UpdateAccountPassword(id string, passwordHash string) error {
	args := m.Called(id, passwordHash)
	return args.Error(0)
}

// UpdateAccountLoginInfo mocks the matching storage operation
func (m *Storage) UpdateAccountLoginInfo(id string, ip string, at time.Time) error {
	args := m.Called(id, ip, at)
	return args.Error(0)
}

// DeleteAccount mocks the matching storage operation
func (m *Storage) DeleteAccount(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// InsertLoginSession mocks the matching storage operation
func (m *Storage) InsertLoginSession(session model.LoginSession) error {
	args := m.Called(session)
	return args.Error(0)
}

// FindLoginSession mocks the matching storage operation
func (m *Storage) FindLoginSession(id string) (*model.LoginSession, error) {
	args := m.Called(id)
	var session *model.LoginSession
	if args.Get(0) != nil {
		session = args.Get(0).(*model.LoginSession)
	}
	return session, args.Error(1)
}

// DeleteLoginSession mocks the matching storage operation
func (m *Storage) DeleteLoginSession(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// DeleteLoginSessionsByAccountID mocks the matching storage operation
func (m *Storage) DeleteLoginSessionsByAccountID(accountID string) error {
	args := m.Called(accountID)
	return args.Error(0)
}

// InsertTempToken mocks the matching storage operation
func (m *Storage) InsertTempToken(token model.TempToken) error {
	args := m.Called(token)
	return args.Error(0)
}

// FindTempToken mocks the matching storage operation
func (m *Storage) FindTempToken(tokenHash string) (*model.TempToken, error) {
	args := m.Called(tokenHash)
	var token *model.TempToken
	if args.Get(0) != nil {
		token = args.Get(0).(*model.TempToken)
	}
	return token, args.Error(1)
}

// FindAndTallyTempToken mocks the matching storage operation
func (m *Storage) FindAndTallyTempToken(tokenHash string) (*model.TempToken, error) {
	args := m.Called(tokenHash)
	var token *model.TempToken
	if args.Get(0) != nil {
		token = args.Get(0).(*model.TempToken)
	}
	return token, args.Error(1)
}

// ConsumeTempToken mocks the matching storage operation
func (m *Storage) ConsumeTempToken(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

// BurnTempToken mocks the matching storage operation
func (m *Storage) BurnTempToken(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// UpdateTempTokenSent mocks the matching storage operation
func (m *Storage) UpdateTempTokenSent(id string, code string, lastSent time.Time, expires time.Time) error {
	args := m.Called(id, code, lastSent, expires)
	return args.Error(0)
}

// DeleteTempTokensByAccountID mocks the matching storage operation
func (m *Storage) DeleteTempTokensByAccountID(accountID string) error {
	args := m.Called(accountID)
	return args.Error(0)
}

// FindDevice mocks the matching storage operation
func (m *Storage) FindDevice(accountID string, fingerprint string) (*model.Device, error) {
	args := m.Called(accountID, fingerprint)
	var device *model.Device
	if args.Get(0) != nil {
		device = args.Get(0).(*model.Device)
	}
	return device, args.Error(1)
}

// FindDeviceByID mocks the matching storage operation
func (m *Storage) FindDeviceByID(id string) (*model.Device, error) {
	args := m.Called(id)
	var device *model.Device
	if args.Get(0) != nil {
		device = args.Get(0).(*model.Device)
	}
	return device, args.Error(1)
}

// FindDevices mocks the matching storage operation
func (m *Storage) FindDevices(accountID *string, status *model.DeviceStatus) ([]model.Device, error) {
	args := m.Called(accountID, status)
	var devices []model.Device
	if args.Get(0) != nil {
		devices = args.Get(0).([]model.Device)
	}
	return devices, args.Error(1)
}

// UpsertDevice mocks the matching storage operation
func (m *Storage) UpsertDevice(device model.Device) (*model.Device, error) {
	args := m.Called(device)
	var stored *model.Device
	if args.Get(0) != nil {
		stored = args.Get(0).(*model.Device)
	}
	return stored, args.Error(1)
}

// UpdateDeviceStatus mocks the matching storage operation
func (m *Storage) UpdateDeviceStatus(id string, from model.DeviceStatus, to model.DeviceStatus, reviewer string, note string) (bool, error) {
	args := m.Called(id, from, to, reviewer, note)
	return args.Bool(0), args.Error(1)
}

// DeleteDevice mocks the matching storage operation
func (m *Storage) DeleteDevice(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// DeleteDevicesByAccountID mocks the matching storage operation
func (m *Storage) DeleteDevicesByAccountID(accountID string) error {
	args := m.Called(accountID)
	return args.Error(0)
}

// FindTools mocks the matching storage operation
func (m *Storage) FindTools() ([]model.Tool, error) {
	args := m.Called()
	var tools []model.Tool
	if args.Get(0) != nil {
		tools = args.Get(0).([]model.Tool)
	}
	return tools, args.Error(1)
}

// FindToolByID mocks the matching storage operation
func (m *Storage) FindToolByID(id string) (*model.Tool, error) {
	args := m.Called(id)
	var tool *model.Tool
	if args.Get(0) != nil {
		tool = args.Get(0).(*model.Tool)
	}
	return tool, args.Error(1)
}

// InsertTool mocks the matching storage operation
func (m *Storage) InsertTool(tool model.Tool) error {
	args := m.Called(tool)
	return args.Error(0)
}

// UpdateTool mocks the matching storage operation
func (m *Storage) UpdateTool(tool model.Tool) error {
	args := m.Called(tool)
	return args.Error(0)
}

// DeleteTool mocks the matching storage operation
func (m *Storage) DeleteTool(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// RemoveToolFromAccounts mocks the matching storage operation
func (m *Storage) RemoveToolFromAccounts(toolID string) error {
	args := m.Called(toolID)
	return args.Error(0)
}

// FindToolCredentialByID mocks the matching storage operation
func (m *Storage) FindToolCredentialByID(id string) (*model.ToolCredential, error) {
	args := m.Called(id)
	var credential *model.ToolCredential
	if args.Get(0) != nil {
		credential = args.Get(0).(*model.ToolCredential)
	}
	return credential, args.Error(1)
}

// FindToolCredentials mocks the matching storage operation
func (m *Storage) FindToolCredentials(accountID string, toolID *string) ([]model.ToolCredential, error) {
	args := m.Called(accountID, toolID)
	var credentials []model.ToolCredential
	if args.Get(0) != nil {
		credentials = args.Get(0).([]model.ToolCredential)
	}
	return credentials, args.Error(1)
}

// InsertToolCredential mocks the matching storage operation
func (m *Storage) InsertToolCredential(credential model.ToolCredential) error {
	args := m.Called(credential)
	return args.Error(0)
}

// UpdateToolCredential mocks the matching storage operation
func (m *Storage) UpdateToolCredential(credential model.ToolCredential) error {
	args := m.Called(credential)
	return args.Error(0)
}

// DeleteToolCredential mocks the matching storage operation
func (m *Storage) DeleteToolCredential(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// DeleteToolCredentialsByAccountID mocks the matching storage operation
func (m *Storage) DeleteToolCredentialsByAccountID(accountID string) error {
	args := m.Called(accountID)
	return args.Error(0)
}

// InsertAccessGrant mocks the matching storage operation
func (m *Storage) InsertAccessGrant(grant model.AccessGrant) error {
	args := m.Called(grant)
	return args.Error(0)
}

// ConsumeAccessGrant mocks the matching storage operation
func (m *Storage) ConsumeAccessGrant(tokenHash string) (*model.AccessGrant, error) {
	args := m.Called(tokenHash)
	var grant *model.AccessGrant
	if args.Get(0) != nil {
		grant = args.Get(0).(*model.AccessGrant)
	}
	return grant, args.Error(1)
}

// FindIPAllowlist mocks the matching storage operation
func (m *Storage) FindIPAllowlist(activeOnly bool) ([]model.IPAllowlistEntry, error) {
	args := m.Called(activeOnly)
	var entries []model.IPAllowlistEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]model.IPAllowlistEntry)
	}
	return entries, args.Error(1)
}

// InsertIPAllowlistEntry mocks the matching storage operation
func (m *Storage) InsertIPAllowlistEntry(entry model.IPAllowlistEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

// UpdateIPAllowlistEntry mocks the matching storage operation
func (m *Storage) UpdateIPAllowlistEntry(entry model.IPAllowlistEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

// DeleteIPAllowlistEntry mocks the matching storage operation
func (m *Storage) DeleteIPAllowlistEntry(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// InsertAuditEvent mocks the matching storage operation
func (m *Storage) InsertAuditEvent(event model.AuditEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

// FindAuditEvents mocks the matching storage operation
func (m *Storage) FindAuditEvents(limit int, offset int, actorID *string, action *string) ([]model.AuditEvent, error) {
	args := m.Called(limit, offset, actorID, action)
	var events []model.AuditEvent
	if args.Get(0) != nil {
		events = args.Get(0).([]model.AuditEvent)
	}
	return events, args.Error(1)
}

// CountAuditEvents mocks the matching storage operation
func (m *Storage) CountAuditEvents(actorID *string, action *string) (int64, error) {
	args := m.Called(actorID, action)
	return args.Get(0).(int64), args.Error(1)
}

// Emailer is a mock of the emailer interface
type Emailer struct {
	mock.Mock
}

// Send mocks sending an email
func (m *Emailer) Send(toEmail string, subject string, body string) error {
	args := m.Called(toEmail, subject, body)
	return args.Error(0)
}
