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
	"net/http"

	"access-core/core"
	coreauth "access-core/core/auth"
	"access-core/core/model"
	"access-core/utils"

	"github.com/gorilla/mux"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// SystemApisHandler handles the rest APIs reserved for super administrators
type SystemApisHandler struct {
	coreAPIs *core.APIs
}

// NewSystemApisHandler creates a new system APIs handler
func NewSystemApisHandler(coreAPIs *core.APIs) SystemApisHandler {
	return SystemApisHandler{coreAPIs: coreAPIs}
}

type setAccountRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// SetAccountRole changes an account role
func (h SystemApisHandler) SetAccountRole(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	id := mux.Vars(r)["id"]
	if id == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeString, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	var requestData setAccountRoleRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	err := h.coreAPIs.System.SysSetAccountRole(account, id, requestData.Role, utils.ClientIP(r))
	if err != nil {
		return l.HTTPResponseError("Error setting account role", err, errorStatusCode(err), true)
	}

	return l.HTTPResponseSuccess()
}

// DeleteAccount removes an account and everything it owns
func (h SystemApisHandler) DeleteAccount(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	id := mux.Vars(r)["id"]
	if id == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeString, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	err := h.coreAPIs.System.SysDeleteAccount(account, id, utils.ClientIP(r))
	if err != nil {
		return l.HTTPResponseError("Error deleting account", err, errorStatusCode(err), true)
	}

	return l.HTTPResponseSuccess()
}

type setIPRestrictionRequest struct {
	Restricted bool     `json:"restricted"`
	IPs        []string `json:"ips"`
}

// SetAccountIPRestriction pins an account to a set of source addresses
func (h SystemApisHandler) SetAccountIPRestriction(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	id := mux.Vars(r)["id"]
	if id == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeString, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	var requestData setIPRestrictionRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	err := h.coreAPIs.System.SysSetAccountIPRestriction(account, id, requestData.Restricted, requestData.IPs, utils.ClientIP(r))
	if err != nil {
		return l.HTTPResponseError("Error setting account IP restriction", err, errorStatusCode(err), true)
	}

	return l.HTTPResponseSuccess()
}

type toolRequest struct {
	Name           string  `json:"name" validate:"required"`
	Category       string  `json:"category"`
	Description    string  `json:"description"`
	Icon           string  `json:"icon"`
	URL            string  `json:"url" validate:"required,url"`
	SharedUsername string  `json:"shared_username"`
	SharedPassword *string `json:"shared_password"`
}

// CreateTool registers a new tool in the catalog
func (h SystemApisHandler) CreateTool(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	var requestData toolRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	tool := model.Tool{Name: requestData.Name, Category: requestData.Category, Description: requestData.Description,
		Icon: requestData.Icon, URL: requestData.URL, SharedUsername: requestData.SharedUsername}
	created, err := h.coreAPIs.System.SysCreateTool(account, tool, requestData.SharedPassword)
	if err != nil {
		return l.HTTPResponseError("Error creating tool", err, errorStatusCode(err), true)
	}

	return successJSON(l, toolToResponse(*created))
}

// UpdateTool updates a tool in the catalog
func (h SystemApisHandler) UpdateTool(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	id := mux.Vars(r)["id"]
	if id == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeString, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	var requestData toolRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	tool := model.Tool{ID: id, Name: requestData.Name, Category: requestData.Category, Description: requestData.Description,
		Icon: requestData.Icon, URL: requestData.URL, SharedUsername: requestData.SharedUsername}
	updated, err := h.coreAPIs.System.SysUpdateTool(account, tool, requestData.SharedPassword)
	if err != nil {
		return l.HTTPResponseError("Error updating tool", err, errorStatusCode(err), true)
	}

	return successJSON(l, toolToResponse(*updated))
}

// DeleteTool removes a tool from the catalog
func (h SystemApisHandler) DeleteTool(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	id := mux.Vars(r)["id"]
	if id == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeString, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	err := h.coreAPIs.System.SysDeleteTool(account, id)
	if err != nil {
		return l.HTTPResponseError("Error deleting tool", err, errorStatusCode(err), true)
	}

	return l.HTTPResponseSuccess()
}

// GetIPAllowlist lists the portal wide allowed source addresses
func (h SystemApisHandler) GetIPAllowlist(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	entries, err := h.coreAPIs.System.SysListIPAllowlist()
	if err != nil {
		return l.HTTPResponseError("Error getting IP allowlist", err, errorStatusCode(err), true)
	}

	return successJSON(l, ipAllowlistToResponse(entries))
}

type addIPAllowlistRequest struct {
	IP          string `json:"ip" validate:"required"`
	Description string `json:"description"`
}

// AddIPAllowlistEntry adds an address to the portal wide allowlist
func (h SystemApisHandler) AddIPAllowlistEntry(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	var requestData addIPAllowlistRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	entry, err := h.coreAPIs.System.SysAddIPAllowlistEntry(account, requestData.IP, requestData.Description)
	if err != nil {
		return l.HTTPResponseError("Error adding IP allowlist entry", err, errorStatusCode(err), true)
	}

	return successJSON(l, ipAllowlistEntryToResponse(*entry))
}

type updateIPAllowlistRequest struct {
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// UpdateIPAllowlistEntry updates an allowlist entry
func (h SystemApisHandler) UpdateIPAllowlistEntry(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	id := mux.Vars(r)["id"]
	if id == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeString, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	var requestData updateIPAllowlistRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	entry, err := h.coreAPIs.System.SysUpdateIPAllowlistEntry(account, id, requestData.Description, requestData.Active)
	if err != nil {
		return l.HTTPResponseError("Error updating IP allowlist entry", err, errorStatusCode(err), true)
	}

	return successJSON(l, ipAllowlistEntryToResponse(*entry))
}

// RemoveIPAllowlistEntry removes an address from the allowlist
func (h SystemApisHandler) RemoveIPAllowlistEntry(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	id := mux.Vars(r)["id"]
	if id == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeString, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	err := h.coreAPIs.System.SysRemoveIPAllowlistEntry(account, id)
	if err != nil {
		return l.HTTPResponseError("Error removing IP allowlist entry", err, errorStatusCode(err), true)
	}

	return l.HTTPResponseSuccess()
}
