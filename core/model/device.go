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
	// TypeDevice device type
	TypeDevice logutils.MessageDataType = "device"
	// TypeDeviceStatus device status type
	TypeDeviceStatus logutils.MessageDataType = "device status"
)

// DeviceStatus is the review state of a registered device
type DeviceStatus string

const (
	// DeviceStatusPending awaiting administrator review
	DeviceStatusPending DeviceStatus = "pending"
	// DeviceStatusApproved cleared for sign in
	DeviceStatusApproved DeviceStatus = "approved"
	// DeviceStatusRejected denied by an administrator
	DeviceStatusRejected DeviceStatus = "rejected"
	// DeviceStatusRevoked approval withdrawn
	DeviceStatusRevoked DeviceStatus = "revoked"
)

// Valid says if the value is one of the known device statuses
func (s DeviceStatus) Valid() bool {
	switch s {
	case DeviceStatusPending, DeviceStatusApproved, DeviceStatusRejected, DeviceStatusRevoked:
		return true
	}
	return false
}

// CanTransition says if the status may move to the given one.
// Pending devices may be approved or rejected, approved devices may be
// revoked. Rejected and revoked are terminal.
func (s DeviceStatus) CanTransition(to DeviceStatus) bool {
	switch s {
	case DeviceStatusPending:
		return to == DeviceStatusApproved || to == DeviceStatusRejected
	case DeviceStatusApproved:
		return to == DeviceStatusRevoked
	}
	return false
}

// Device represents a browser/machine fingerprint registered by an account
type Device struct {
	ID string `bson:"_id"`

	AccountID   string `bson:"account_id"`
	Fingerprint string `bson:"fingerprint"`

	Name      string `bson:"name,omitempty"`
	Browser   string `bson:"browser,omitempty"`
	OS        string `bson:"os,omitempty"`
	IPAddress string `bson:"ip_address,omitempty"`

	Status    DeviceStatus `bson:"status"`
	AdminNote string       `bson:"admin_note,omitempty"`

	ReviewedBy *string    `bson:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `bson:"reviewed_at,omitempty"`

	LastSeen    time.Time  `bson:"last_seen"`
	DateCreated time.Time  `bson:"date_created"`
	DateUpdated *time.Time `bson:"date_updated,omitempty"`
}

// IsApproved says if the device passes the access gate
func (d Device) IsApproved() bool {
	return d.Status == DeviceStatusApproved
}
