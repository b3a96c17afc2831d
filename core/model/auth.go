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
	// TypeLoginSession login session type
	TypeLoginSession logutils.MessageDataType = "login session"
	// TypeTempToken temp token type
	TypeTempToken logutils.MessageDataType = "temp token"
	// TypeSessionToken session token type
	TypeSessionToken logutils.MessageDataType = "session token"
	// TypeIPAllowlistEntry ip allowlist entry type
	TypeIPAllowlistEntry logutils.MessageDataType = "ip allowlist entry"
)

// LoginSession is the server side record behind an issued session token.
// Deleting the record revokes the token before its expiry.
type LoginSession struct {
	ID string `bson:"_id"`

	AccountID string `bson:"account_id"`
	Email     string `bson:"email"`
	Role      string `bson:"role"`

	DeviceID  string `bson:"device_id,omitempty"`
	IPAddress string `bson:"ip_address,omitempty"`

	Expires     time.Time `bson:"expires"`
	DateCreated time.Time `bson:"date_created"`
}

// IsExpired says if the session has passed its expiry
func (s LoginSession) IsExpired() bool {
	return !s.Expires.After(time.Now().UTC())
}

// TempToken is the record behind an opaque two step verification token.
// Only a SHA-256 digest of the token leaves the server, and the code is
// good for a bounded number of attempts before the record is burned.
type TempToken struct {
	ID string `bson:"_id"`

	AccountID string `bson:"account_id"`
	TokenHash string `bson:"token_hash"`
	Code      string `bson:"code"`

	Attempts int  `bson:"attempts"`
	Consumed bool `bson:"consumed"`

	IPAddress string `bson:"ip_address,omitempty"`
	DeviceID  string `bson:"device_id,omitempty"`

	LastSent    time.Time `bson:"last_sent"`
	Expires     time.Time `bson:"expires"`
	DateCreated time.Time `bson:"date_created"`
}

// IsExpired says if the temp token has passed its expiry
func (t TempToken) IsExpired() bool {
	return !t.Expires.After(time.Now().UTC())
}

// IPAllowlistEntry is a portal wide allowed source address
type IPAllowlistEntry struct {
	ID string `bson:"_id"`

	IP          string `bson:"ip"`
	Description string `bson:"description,omitempty"`
	Active      bool   `bson:"active"`

	AddedBy     string     `bson:"added_by,omitempty"`
	DateCreated time.Time  `bson:"date_created"`
	DateUpdated *time.Time `bson:"date_updated,omitempty"`
}
