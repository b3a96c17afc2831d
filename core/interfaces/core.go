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
	"access-core/core/model"
)

// Services exposes the APIs for signed in users
type Services interface {
	SerGetAccount(accountID string) (*model.Account, error)
	SerUpdateProfile(account *model.Account, name *string, twoStep *bool) (*model.Account, error)
	SerChangePassword(account *model.Account, current string, updated string) error

	SerListTools(account *model.Account) ([]model.Tool, error)
	SerLaunchTool(account *model.Account, toolID string, ip string) (string, *model.Tool, error)
	SerRedeemAccessGrant(rawToken string) (*model.AccessGrant, *model.Tool, string, string, error)

	SerListCredentials(account *model.Account, toolID *string) ([]model.ToolCredential, error)
	SerCreateCredential(account *model.Account, toolID string, label string, username string, password string) (*model.ToolCredential, error)
	SerUpdateCredential(account *model.Account, id string, label *string, username *string, password *string) (*model.ToolCredential, error)
	SerDeleteCredential(account *model.Account, id string) error
	SerRevealCredential(account *model.Account, id string, ip string) (string, error)

	SerListDevices(accountID string) ([]model.Device, error)
}

// Administration exposes the APIs for portal administrators
type Administration interface {
	AdmListDevices(status *model.DeviceStatus, accountID *string) ([]model.Device, error)
	AdmReviewDevice(actor *model.Account, deviceID string, to model.DeviceStatus, note string, ip string) (*model.Device, error)
	AdmDeleteDevice(actor *model.Account, deviceID string) error

	AdmListAccounts(role *string, status *string) ([]model.Account, error)
	AdmGetAccount(id string) (*model.Account, error)
	AdmCreateAccount(actor *model.Account, email string, name string, password string, role string, tools []string, ip string) (*model.Account, error)
	AdmUpdateAccount(actor *model.Account, id string, name *string, twoStep *bool, ip string) (*model.Account, error)
	AdmSetAccountStatus(actor *model.Account, id string, status string, ip string) error
	AdmSetAccountTools(actor *model.Account, id string, tools []string, ip string) error

	AdmListAuditEvents(limit int, offset int, actorID *string, action *string) ([]model.AuditEvent, int64, error)
}

// System exposes the APIs reserved for super administrators
type System interface {
	SysSetAccountRole(actor *model.Account, id string, role string, ip string) error
	SysDeleteAccount(actor *model.Account, id string, ip string) error
	SysSetAccountIPRestriction(actor *model.Account, id string, restricted bool, ips []string, ip string) error

	SysCreateTool(actor *model.Account, tool model.Tool, sharedPassword *string) (*model.Tool, error)
	SysUpdateTool(actor *model.Account, tool model.Tool, sharedPassword *string) (*model.Tool, error)
	SysDeleteTool(actor *model.Account, id string) error

	SysListIPAllowlist() ([]model.IPAllowlistEntry, error)
	SysAddIPAllowlistEntry(actor *model.Account, ip string, description string) (*model.IPAllowlistEntry, error)
	SysUpdateIPAllowlistEntry(actor *model.Account, id string, description *string, active *bool) (*model.IPAllowlistEntry, error)
	SysRemoveIPAllowlistEntry(actor *model.Account, id string) error
}
