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
	"strconv"

	"access-core/core"
	coreauth "access-core/core/auth"
	"access-core/core/model"
	"access-core/utils"

	"github.com/gorilla/mux"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// AdminApisHandler handles the rest APIs for portal administrators
type AdminApisHandler struct {
	coreAPIs *core.APIs
}

// NewAdminApisHandler creates a new admin APIs handler
func NewAdminApisHandler(coreAPIs *core.APIs) AdminApisHandler {
	return AdminApisHandler{coreAPIs: coreAPIs}
}

// GetDevices lists devices, optionally filtered by status or account
func (h AdminApisHandler) GetDevices(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	var status *model.DeviceStatus
	if value := r.URL.Query().Get("status"); value != "" {
		candidate := model.DeviceStatus(value)
		if !candidate.Valid() {
			return l.HTTPResponseErrorData(logutils.StatusInvalid, model.TypeDeviceStatus, logutils.StringArgs(value), nil, http.StatusBadRequest, false)
		}
		status = &candidate
	}
	var accountID *string
	if value := r.URL.Query().Get("account_id"); value != "" {
		accountID = &value
	}

	devices, err := h.coreAPIs.Administration.AdmListDevices(status, accountID)
	if err != nil {
		return l.HTTPResponseError("Error getting devices", err, errorStatusCode(err), true)
	}

	return successJSON(l, devicesToResponse(devices))
}

type reviewDeviceRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note"`
}

// ReviewDevice approves, rejects or revokes a device
func (h AdminApisHandler) ReviewDevice(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	id := mux.Vars(r)["id"]
	if id == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeString, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	var requestData reviewDeviceRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	to := model.DeviceStatus(requestData.Status)
	if !to.Valid() {
		return l.HTTPResponseErrorData(logutils.StatusInvalid, model.TypeDeviceStatus, logutils.StringArgs(requestData.Status), nil, http.StatusBadRequest, false)
	}

	device, err := h.coreAPIs.Administration.AdmReviewDevice(account, id, to, requestData.Note, utils.ClientIP(r))
	if err != nil {
		return l.HTTPResponseError("Error reviewing device", err, errorStatusCode(err), true)
	}

	return successJSON(l, deviceToResponse(*device))
}

// DeleteDevice removes a device record
func (h AdminApisHandler) DeleteDevice(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	id := mux.Vars(r)["id"]
	if id == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeString, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	err := h.coreAPIs.Administration.AdmDeleteDevice(account, id)
	if err != nil {
		return l.HTTPResponseError("Error deleting device", err, errorStatusCode(err), true)
	}

	return l.HTTPResponseSuccess()
}

// GetAccounts lists accounts, optionally filtered by role or status
func (h AdminApisHandler) GetAccounts(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	var role *string
	if value := r.URL.Query().Get("role"); value != "" {
		role = &value
	}
	var status *string
	if value := r.URL.Query().Get("status"); value != "" {
		status = &value
	}

	accounts, err := h.coreAPIs.Administration.AdmListAccounts(role, status)
	if err != nil {
		return l.HTTPResponseError("Error getting accounts", err, errorStatusCode(err), true)
	}

	return successJSON(l, accountsToResponse(accounts))
}

// GetAccount returns one account
func (h AdminApisHandler) GetAccount(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	id := mux.Vars(r)["id"]
	if id == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeString, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	found, err := h.coreAPIs.Administration.AdmGetAccount(id)
	if err != nil {
		return l.HTTPResponseError("Error getting account", err, errorStatusCode(err), true)
	}

	return successJSON(l, accountToResponse(*found))
}

type createAccountRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Name     string   `json:"name" validate:"required"`
	Password string   `json:"password" validate:"required,min=8"`
	Role     string   `json:"role" validate:"required"`
	Tools    []string `json:"tools"`
}

// CreateAccount provisions a new portal account
func (h AdminApisHandler) CreateAccount(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	var requestData createAccountRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	created, err := h.coreAPIs.Administration.AdmCreateAccount(account, requestData.Email, requestData.Name,
		requestData.Password, requestData.Role, requestData.Tools, utils.ClientIP(r))
	if err != nil {
		return l.HTTPResponseError("Error creating account", err, errorStatusCode(err), true)
	}

	return successJSON(l, accountToResponse(*created))
}

type adminUpdateAccountRequest struct {
	Name    *string `json:"name"`
	TwoStep *bool   `json:"two_step_enabled"`
}

// UpdateAccount updates an account profile
func (h AdminApisHandler) UpdateAccount(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	id := mux.Vars(r)["id"]
	if id == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeString, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	var requestData adminUpdateAccountRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	updated, err := h.coreAPIs.Administration.AdmUpdateAccount(account, id, requestData.Name, requestData.TwoStep, utils.ClientIP(r))
	if err != nil {
		return l.HTTPResponseError("Error updating account", err, errorStatusCode(err), true)
	}

	return successJSON(l, accountToResponse(*updated))
}

type setAccountStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SetAccountStatus suspends or reactivates an account
func (h AdminApisHandler) SetAccountStatus(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	id := mux.Vars(r)["id"]
	if id == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeString, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	var requestData setAccountStatusRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	err := h.coreAPIs.Administration.AdmSetAccountStatus(account, id, requestData.Status, utils.ClientIP(r))
	if err != nil {
		return l.HTTPResponseError("Error setting account status", err, errorStatusCode(err), true)
	}

	return l.HTTPResponseSuccess()
}

type setAccountToolsRequest struct {
	Tools []string `json:"tools" validate:"required"`
}

// SetAccountTools replaces the tools an account may use
func (h AdminApisHandler) SetAccountTools(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	id := mux.Vars(r)["id"]
	if id == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeString, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	var requestData setAccountToolsRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	err := h.coreAPIs.Administration.AdmSetAccountTools(account, id, requestData.Tools, utils.ClientIP(r))
	if err != nil {
		return l.HTTPResponseError("Error setting account tools", err, errorStatusCode(err), true)
	}

	return l.HTTPResponseSuccess()
}

// GetAuditEvents pages through the audit trail
func (h AdminApisHandler) GetAuditEvents(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	query := r.URL.Query()

	limit := 0
	if value := query.Get("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return l.HTTPResponseErrorData(logutils.StatusInvalid, logutils.TypeString, logutils.StringArgs("limit"), err, http.StatusBadRequest, false)
		}
		limit = parsed
	}
	offset := 0
	if value := query.Get("offset"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return l.HTTPResponseErrorData(logutils.StatusInvalid, logutils.TypeString, logutils.StringArgs("offset"), err, http.StatusBadRequest, false)
		}
		offset = parsed
	}
	var actorID *string
	if value := query.Get("actor_id"); value != "" {
		actorID = &value
	}
	var action *string
	if value := query.Get("action"); value != "" {
		action = &value
	}

	events, total, err := h.coreAPIs.Administration.AdmListAuditEvents(limit, offset, actorID, action)
	if err != nil {
		return l.HTTPResponseError("Error getting audit events", err, errorStatusCode(err), true)
	}

	return successJSON(l, auditEventsPageResponse{Events: auditEventsToResponse(events), Total: total})
}
