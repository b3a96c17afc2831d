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

package web

import (
	"time"

	"access-core/core/model"
)

//Response payloads. Password hashes and sealed secrets never appear here.

type accountResponse struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	TwoStepEnabled bool       `json:"two_step_enabled"`
	IPRestricted   bool       `json:"ip_restricted"`
	AllowedIPs     []string   `json:"allowed_ips,omitempty"`
	AllowedTools   []string   `json:"allowed_tools,omitempty"`
	LastLoginIP    string     `json:"last_login_ip,omitempty"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	DateCreated    time.Time  `json:"date_created"`
}

func accountToResponse(account model.Account) accountResponse {
	return accountResponse{ID: account.ID, Email: account.Email, Name: account.Name, Role: account.Role,
		Status: account.Status, TwoStepEnabled: account.TwoStepEnabled, IPRestricted: account.IPRestricted,
		AllowedIPs: account.AllowedIPs, AllowedTools: account.AllowedTools,
		LastLoginIP: account.LastLoginIP, LastLogin: account.LastLogin, DateCreated: account.DateCreated}
}

func accountsToResponse(accounts []model.Account) []accountResponse {
	result := make([]accountResponse, len(accounts))
	for i, account := range accounts {
		result[i] = accountToResponse(account)
	}
	return result
}

type deviceResponse struct {
	ID          string     `json:"id"`
	AccountID   string     `json:"account_id"`
	Fingerprint string     `json:"fingerprint"`
	Name        string     `json:"name,omitempty"`
	Browser     string     `json:"browser,omitempty"`
	OS          string     `json:"os,omitempty"`
	IPAddress   string     `json:"ip_address,omitempty"`
	Status      string     `json:"status"`
	AdminNote   string     `json:"admin_note,omitempty"`
	ReviewedBy  *string    `json:"reviewed_by,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	LastSeen    time.Time  `json:"last_seen"`
	DateCreated time.Time  `json:"date_created"`
}

func deviceToResponse(device model.Device) deviceResponse {
	return deviceResponse{ID: device.ID, AccountID: device.AccountID, Fingerprint: device.Fingerprint,
		Name: device.Name, Browser: device.Browser, OS: device.OS, IPAddress: device.IPAddress,
		Status: string(device.Status), AdminNote: device.AdminNote, ReviewedBy: device.ReviewedBy,
		ReviewedAt: device.ReviewedAt, LastSeen: device.LastSeen, DateCreated: device.DateCreated}
}

func devicesToResponse(devices []model.Device) []deviceResponse {
	result := make([]deviceResponse, len(devices))
	for i, device := range devices {
		result[i] = deviceToResponse(device)
	}
	return result
}

type toolResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	URL         string    `json:"url"`
	HasShared   bool      `json:"has_shared_credential"`
	DateCreated time.Time `json:"date_created"`
}

func toolToResponse(tool model.Tool) toolResponse {
	return toolResponse{ID: tool.ID, Name: tool.Name, Category: tool.Category, Description: tool.Description,
		Icon: tool.Icon, URL: tool.URL, HasShared: tool.SharedPassword != nil && !tool.SharedPassword.IsZero(),
		DateCreated: tool.DateCreated}
}

func toolsToResponse(tools []model.Tool) []toolResponse {
	result := make([]toolResponse, len(tools))
	for i, tool := range tools {
		result[i] = toolToResponse(tool)
	}
	return result
}

type credentialResponse struct {
	ID          string    `json:"id"`
	ToolID      string    `json:"tool_id"`
	Label       string    `json:"label,omitempty"`
	Username    string    `json:"username"`
	DateCreated time.Time `json:"date_created"`
}

func credentialToResponse(credential model.ToolCredential) credentialResponse {
	return credentialResponse{ID: credential.ID, ToolID: credential.ToolID, Label: credential.Label,
		Username: credential.Username, DateCreated: credential.DateCreated}
}

func credentialsToResponse(credentials []model.ToolCredential) []credentialResponse {
	result := make([]credentialResponse, len(credentials))
	for i, credential := range credentials {
		result[i] = credentialToResponse(credential)
	}
	return result
}

type auditEventResponse struct {
	ID          string    `json:"id"`
	ActorID     string    `json:"actor_id,omitempty"`
	ActorEmail  string    `json:"actor_email,omitempty"`
	Action      string    `json:"action"`
	Target      string    `json:"target,omitempty"`
	Details     string    `json:"details,omitempty"`
	IPAddress   string    `json:"ip_address,omitempty"`
	DateCreated time.Time `json:"date_created"`
}

func auditEventsToResponse(events []model.AuditEvent) []auditEventResponse {
	result := make([]auditEventResponse, len(events))
	for i, event := range events {
		result[i] = auditEventResponse{ID: event.ID, ActorID: event.ActorID, ActorEmail: event.ActorEmail,
			Action: event.Action, Target: event.Target, Details: event.Details,
			IPAddress: event.IPAddress, DateCreated: event.DateCreated}
	}
	return result
}

type auditEventsPageResponse struct {
	Events []auditEventResponse `json:"audit_events"`
	Total  int64                `json:"total"`
}

type ipAllowlistEntryResponse struct {
	ID          string    `json:"id"`
	IP          string    `json:"ip"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	AddedBy     string    `json:"added_by,omitempty"`
	DateCreated time.Time `json:"date_created"`
}

func ipAllowlistEntryToResponse(entry model.IPAllowlistEntry) ipAllowlistEntryResponse {
	return ipAllowlistEntryResponse{ID: entry.ID, IP: entry.IP, Description: entry.Description,
		Active: entry.Active, AddedBy: entry.AddedBy, DateCreated: entry.DateCreated}
}

func ipAllowlistToResponse(entries []model.IPAllowlistEntry) []ipAllowlistEntryResponse {
	result := make([]ipAllowlistEntryResponse, len(entries))
	for i, entry := range entries {
		result[i] = ipAllowlistEntryToResponse(entry)
	}
	return result
}
