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

const (
	// TypeTool tool type
	TypeTool logutils.MessageDataType = "tool"
	// TypeToolCredential tool credential type
	TypeToolCredential logutils.MessageDataType = "tool credential"
	// TypeAccessGrant access grant type
	TypeAccessGrant logutils.MessageDataType = "access grant"
)

// AccessGrantLifetime is how long a launch token stays redeemable
const AccessGrantLifetime = 60 * time.Second

// Secret is an AES-GCM sealed value. The nonce is stored next to the
// ciphertext and is unique per encryption.
type Secret struct {
	Ciphertext []byte `bson:"ciphertext"`
	Nonce      []byte `bson:"nonce"`
}

// IsZero says if the secret holds no sealed value
func (s Secret) IsZero() bool {
	return len(s.Ciphertext) == 0
}

// Tool is an internal tool reachable through the portal
type Tool struct {
	ID string `bson:"_id"`

	Name        string `bson:"name"`
	Category    string `bson:"category,omitempty"`
	Description string `bson:"description,omitempty"`
	Icon        string `bson:"icon,omitempty"`
	URL         string `bson:"url"`

	//shared sign in identity for the tool, managed by administrators
	SharedUsername string  `bson:"shared_username,omitempty"`
	SharedPassword *Secret `bson:"shared_password,omitempty"`

	DateCreated time.Time  `bson:"date_created"`
	DateUpdated *time.Time `bson:"date_updated,omitempty"`
}

// ToolCredential is an account's stored sign in for a tool. The password
// is sealed at rest and only decrypted on an explicit reveal by the owner.
type ToolCredential struct {
	ID string `bson:"_id"`

	AccountID string `bson:"account_id"`
	ToolID    string `bson:"tool_id"`

	Label    string `bson:"label,omitempty"`
	Username string `bson:"username"`
	Password Secret `bson:"password"`

	DateCreated time.Time  `bson:"date_created"`
	DateUpdated *time.Time `bson:"date_updated,omitempty"`
}

// AccessGrant is a short lived single use pass for launching a tool.
// Like temp tokens only a digest of the issued value is stored.
type AccessGrant struct {
	ID string `bson:"_id"`

	AccountID string `bson:"account_id"`
	ToolID    string `bson:"tool_id"`
	TokenHash string `bson:"token_hash"`

	Used    bool      `bson:"used"`
	Expires time.Time `bson:"expires"`

	DateCreated time.Time `bson:"date_created"`
}

// IsExpired says if the grant has passed its expiry
func (g AccessGrant) IsExpired() bool {
	return !g.Expires.After(time.Now().UTC())
}
