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

package model

import (
	"time"

	"github.com/rokwire/logging-library-go/v2/logutils"
)

// TypeAuditEvent audit event type
const TypeAuditEvent logutils.MessageDataType = "audit event"

// Audit actions recorded by the portal
const (
	AuditActionLogin            string = "login"
	AuditActionLoginFailed      string = "login_failed"
	AuditActionLogout           string = "logout"
	AuditActionTwoStepSent      string = "two_step_sent"
	AuditActionTwoStepFailed    string = "two_step_failed"
	AuditActionDeviceRegistered string = "device_registered"
	AuditActionDeviceReviewed   string = "device_reviewed"
	AuditActionCredentialReveal string = "credential_reveal"
	AuditActionToolLaunch       string = "tool_launch"
	AuditActionAccountCreated   string = "account_created"
	AuditActionAccountUpdated   string = "account_updated"
	AuditActionAccountSuspended string = "account_suspended"
	AuditActionAccountDeleted   string = "account_deleted"
	AuditActionToolChanged      string = "tool_changed"
	AuditActionIPBlocked        string = "ip_blocked"
)

// AuditEvent is a single recorded portal action
type AuditEvent struct {
	ID string `bson:"_id"`

	ActorID    string `bson:"actor_id,omitempty"`
	ActorEmail string `bson:"actor_email,omitempty"`

	Action  string `bson:"action"`
	Target  string `bson:"target,omitempty"`
	Details string `bson:"details,omitempty"`

	IPAddress string `bson:"ip_address,omitempty"`

	DateCreated time.Time `bson:"date_created"`
}
