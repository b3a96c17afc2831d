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

package model

import (
	"time"

	"github.com/rokwire/logging-library-go/v2/logutils"
)

const (
	// TypeAccount account type
	TypeAccount logutils.MessageDataType = "account"

	// RoleUser regular portal user
	RoleUser string = "User"
	// RoleAdministrator portal administrator
	RoleAdministrator string = "Administrator"
	// RoleSuperAdministrator portal super administrator
	RoleSuperAdministrator string = "Super Administrator"

	// AccountStatusActive active account
	AccountStatusActive string = "Active"
	// AccountStatusSuspended suspended account
	AccountStatusSuspended string = "Suspended"
	// AccountStatusPending invited account which has not completed setup
	AccountStatusPending string = "Pending"
)

// Account represents a portal account
type Account struct {
	ID string `bson:"_id"`

	Email        string `bson:"email"`
	Name         string `bson:"name"`
	PasswordHash string `bson:"password_hash,omitempty"` //empty for federated-only accounts

	Role   string `bson:"role"`
	Status string `bson:"status"`

	TwoStepEnabled bool `bson:"two_step_enabled"`

	IPRestricted bool     `bson:"ip_restricted"`
	AllowedIPs   []string `bson:"allowed_ips,omitempty"`

	AllowedTools []string `bson:"allowed_tools,omitempty"`

	LastLoginIP string     `bson:"last_login_ip,omitempty"`
	LastLogin   *time.Time `bson:"last_login,omitempty"`

	DateCreated time.Time  `bson:"date_created"`
	DateUpdated *time.Time `bson:"date_updated,omitempty"`
}

// IsSuperAdministrator says if the account carries the super administrator role
func (a Account) IsSuperAdministrator() bool {
	return a.Role == RoleSuperAdministrator
}

// IsAdministrator says if the account carries an administrative role
func (a Account) IsAdministrator() bool {
	return a.Role == RoleAdministrator || a.Role == RoleSuperAdministrator
}

// IsActive says if the account may sign in
func (a Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// HasTool says if the account has been granted the given tool.
// Administrators have every tool implicitly.
func (a Account) HasTool(toolID string) bool {
	if a.IsAdministrator() {
		return true
	}
	for _, t := range a.AllowedTools {
		if t == toolID {
			return true
		}
	}
	return false
}

// IPAllowed checks the account level IP restriction. Accounts without
// a restriction accept any address.
func (a Account) IPAllowed(ip string) bool {
	if !a.IPRestricted {
		return true
	}
	for _, allowed := range a.AllowedIPs {
		if allowed == ip {
			return true
		}
	}
	return false
}

// ValidRole says if the value is one of the known roles
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdministrator || role == RoleSuperAdministrator
}

// ValidAccountStatus says if the value is one of the known account statuses
func ValidAccountStatus(status string) bool {
	return status == AccountStatusActive || status == AccountStatusSuspended || status == AccountStatusPending
}
