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
	"access-core/core/auth"
	"access-core/core/interfaces"
	"access-core/core/model"

	"github.com/rokwire/logging-library-go/v2/logs"
)

// APIs exposes to the drivers adapters access to the core functionality
type APIs struct {
	Services       interfaces.Services       //expose to the drivers adapters
	Administration interfaces.Administration //expose to the drivers adapters
	System         interfaces.System         //expose to the drivers adapters

	Auth   *auth.Auth //expose to the drivers auth
	Events *EventBus

	app *application
}

// Start starts the core part of the application
func (c *APIs) Start() {
	c.app.start()
}

// GetVersion gives the service version
func (c *APIs) GetVersion() string {
	return c.app.version
}

// NewCoreAPIs creates new CoreAPIs
func NewCoreAPIs(env string, version string, build string, storage interfaces.Storage, emailer interfaces.Emailer,
	authInst *auth.Auth, cipher *auth.SecretCipher, logger *logs.Logger) *APIs {
	events := NewEventBus()
	application := application{env: env, version: version, build: build, storage: storage, emailer: emailer,
		auth: authInst, cipher: cipher, events: events, logger: logger}

	servicesImpl := &servicesImpl{app: &application}
	administrationImpl := &administrationImpl{app: &application}
	systemImpl := &systemImpl{app: &application}

	coreAPIs := APIs{Services: servicesImpl, Administration: administrationImpl, System: systemImpl,
		Auth: authInst, Events: events, app: &application}

	return &coreAPIs
}

///

// servicesImpl
type servicesImpl struct {
	app *application
}

func (s *servicesImpl) SerGetAccount(accountID string) (*model.Account, error) {
	return s.app.serGetAccount(accountID)
}

func (s *servicesImpl) SerUpdateProfile(account *model.Account, name *string, twoStep *bool) (*model.Account, error) {
	return s.app.serUpdateProfile(account, name, twoStep)
}

func (s *servicesImpl) SerChangePassword(account *model.Account, current string, updated string) error {
	return s.app.serChangePassword(account, current, updated)
}

func (s *servicesImpl) SerListTools(account *model.Account) ([]model.Tool, error) {
	return s.app.serListTools(account)
}

func (s *servicesImpl) SerLaunchTool(account *model.Account, toolID string, ip string) (string, *model.Tool, error) {
	return s.app.serLaunchTool(account, toolID, ip)
}

func (s *servicesImpl) SerRedeemAccessGrant(rawToken string) (*model.AccessGrant, *model.Tool, string, string, error) {
	return s.app.serRedeemAccessGrant(rawToken)
}

func (s *servicesImpl) SerListCredentials(account *model.Account, toolID *string) ([]model.ToolCredential, error) {
	return s.app.serListCredentials(account, toolID)
}

func (s *servicesImpl) SerCreateCredential(account *model.Account, toolID string, label string, username string, password string) (*model.ToolCredential, error) {
	return s.app.serCreateCredential(account, toolID, label, username, password)
}

func (s *servicesImpl) SerUpdateCredential(account *model.Account, id string, label *string, username *string, password *string) (*model.ToolCredential, error) {
	return s.app.serUpdateCredential(account, id, label, username, password)
}

func (s *servicesImpl) SerDeleteCredential(account *model.Account, id string) error {
	return s.app.serDeleteCredential(account, id)
}

func (s *servicesImpl) SerRevealCredential(account *model.Account, id string, ip string) (string, error) {
	return s.app.serRevealCredential(account, id, ip)
}

func (s *servicesImpl) SerListDevices(accountID string) ([]model.Device, error) {
	return s.app.serListDevices(accountID)
}

///

// administrationImpl
type administrationImpl struct {
	app *application
}

func (s *administrationImpl) AdmListDevices(status *model.DeviceStatus, accountID *string) ([]model.Device, error) {
	return s.app.admListDevices(status, accountID)
}

func (s *administrationImpl) AdmReviewDevice(actor *model.Account, deviceID string, to model.DeviceStatus, note string, ip string) (*model.Device, error) {
	return s.app.admReviewDevice(actor, deviceID, to, note, ip)
}

func (s *administrationImpl) AdmDeleteDevice(actor *model.Account, deviceID string) error {
	return s.app.admDeleteDevice(actor, deviceID)
}

func (s *administrationImpl) AdmListAccounts(role *string, status *string) ([]model.Account, error) {
	return s.app.admListAccounts(role, status)
}

func (s *administrationImpl) AdmGetAccount(id string) (*model.Account, error) {
	return s.app.admGetAccount(id)
}

func (s *administrationImpl) AdmCreateAccount(actor *model.Account, email string, name string, password string, role string, tools []string, ip string) (*model.Account, error) {
	return s.app.admCreateAccount(actor, email, name, password, role, tools, ip)
}

func (s *administrationImpl) AdmUpdateAccount(actor *model.Account, id string, name *string, twoStep *bool, ip string) (*model.Account, error) {
	return s.app.admUpdateAccount(actor, id, name, twoStep, ip)
}

func (s *administrationImpl) AdmSetAccountStatus(actor *model.Account, id string, status string, ip string) error {
	return s.app.admSetAccountStatus(actor, id, status, ip)
}

func (s *administrationImpl) AdmSetAccountTools(actor *model.Account, id string, tools []string, ip string) error {
	return s.app.admSetAccountTools(actor, id, tools, ip)
}

func (s *administrationImpl) AdmListAuditEvents(limit int, offset int, actorID *string, action *string) ([]model.AuditEvent, int64, error) {
	return s.app.admListAuditEvents(limit, offset, actorID, action)
}

///

// systemImpl
type systemImpl struct {
	app *application
}

func (s *systemImpl) SysSetAccountRole(actor *model.Account, id string, role string, ip string) error {
	return s.app.sysSetAccountRole(actor, id, role, ip)
}

func (s *systemImpl) SysDeleteAccount(actor *model.Account, id string, ip string) error {
	return s.app.sysDeleteAccount(actor, id, ip)
}

func (s *systemImpl) SysSetAccountIPRestriction(actor *model.Account, id string, restricted bool, ips []string, ip string) error {
	return s.app.sysSetAccountIPRestriction(actor, id, restricted, ips, ip)
}

func (s *systemImpl) SysCreateTool(actor *model.Account, tool model.Tool, sharedPassword *string) (*model.Tool, error) {
	return s.app.sysCreateTool(actor, tool, sharedPassword)
}

func (s *systemImpl) SysUpdateTool(actor *model.Account, tool model.Tool, sharedPassword *string) (*model.Tool, error) {
	return s.app.sysUpdateTool(actor, tool, sharedPassword)
}

func (s *systemImpl) SysDeleteTool(actor *model.Account, id string) error {
	return s.app.sysDeleteTool(actor, id)
}

func (s *systemImpl) SysListIPAllowlist() ([]model.IPAllowlistEntry, error) {
	return s.app.sysListIPAllowlist()
}

func (s *systemImpl) SysAddIPAllowlistEntry(actor *model.Account, ip string, description string) (*model.IPAllowlistEntry, error) {
	return s.app.sysAddIPAllowlistEntry(actor, ip, description)
}

func (s *systemImpl) SysUpdateIPAllowlistEntry(actor *model.Account, id string, description *string, active *bool) (*model.IPAllowlistEntry, error) {
	return s.app.sysUpdateIPAllowlistEntry(actor, id, description, active)
}

func (s *systemImpl) SysRemoveIPAllowlistEntry(actor *model.Account, id string) error {
	return s.app.sysRemoveIPAllowlistEntry(actor, id)
}
