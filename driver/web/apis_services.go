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
	"time"

	"access-core/core"
	coreauth "access-core/core/auth"
	"access-core/core/model"
	"access-core/utils"

	"github.com/gorilla/mux"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// ServicesApisHandler handles the rest APIs for signed in users
type ServicesApisHandler struct {
	coreAPIs *core.APIs
}

// NewServicesApisHandler creates a new services APIs handler
func NewServicesApisHandler(coreAPIs *core.APIs) ServicesApisHandler {
	return ServicesApisHandler{coreAPIs: coreAPIs}
}

// GetAccount returns the signed in account
func (h ServicesApisHandler) GetAccount(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	current, err := h.coreAPIs.Services.SerGetAccount(account.ID)
	if err != nil {
		return l.HTTPResponseError("Error getting account", err, errorStatusCode(err), true)
	}
	return successJSON(l, accountToResponse(*current))
}

type updateProfileRequest struct {
	Name    *string `json:"name"`
	TwoStep *bool   `json:"two_step_enabled"`
}

// UpdateProfile updates the signed in account profile
func (h ServicesApisHandler) UpdateProfile(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	var requestData updateProfileRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	updated, err := h.coreAPIs.Services.SerUpdateProfile(account, requestData.Name, requestData.TwoStep)
	if err != nil {
		return l.HTTPResponseError("Error updating profile", err, errorStatusCode(err), true)
	}

	return successJSON(l, accountToResponse(*updated))
}

type changePasswordRequest struct {
	Current string `json:"current" validate:"required"`
	Updated string `json:"updated" validate:"required,min=8"`
}

// ChangePassword changes the signed in account password
func (h ServicesApisHandler) ChangePassword(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	var requestData changePasswordRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	err := h.coreAPIs.Services.SerChangePassword(account, requestData.Current, requestData.Updated)
	if err != nil {
		return l.HTTPResponseError("Error changing password", err, errorStatusCode(err), true)
	}

	return l.HTTPResponseSuccess()
}

// GetTools lists the tools the signed in account may use
func (h ServicesApisHandler) GetTools(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	tools, err := h.coreAPIs.Services.SerListTools(account)
	if err != nil {
		return l.HTTPResponseError("Error getting tools", err, errorStatusCode(err), true)
	}

	return successJSON(l, toolsToResponse(tools))
}

type launchToolResponse struct {
	Token   string       `json:"token"`
	Tool    toolResponse `json:"tool"`
	Expires time.Time    `json:"expires"`
}

// LaunchTool issues a short lived single use grant for a tool
func (h ServicesApisHandler) LaunchTool(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	params := mux.Vars(r)
	toolID := params["id"]
	if toolID == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeString, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	token, tool, err := h.coreAPIs.Services.SerLaunchTool(account, toolID, utils.ClientIP(r))
	if err != nil {
		return l.HTTPResponseError("Error launching tool", err, errorStatusCode(err), true)
	}

	responseData := launchToolResponse{Token: token, Tool: toolToResponse(*tool), Expires: time.Now().Add(model.AccessGrantLifetime)}
	return successJSON(l, responseData)
}

type redeemAccessResponse struct {
	Tool     toolResponse `json:"tool"`
	Username string       `json:"username,omitempty"`
	Password string       `json:"password,omitempty"`
}

// RedeemAccessGrant exchanges a launch token for the tool address and
// its shared credential. The token dies on first use.
func (h ServicesApisHandler) RedeemAccessGrant(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	token := r.URL.Query().Get("token")
	if token == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeToken, nil, nil, http.StatusBadRequest, false)
	}

	_, tool, username, password, err := h.coreAPIs.Services.SerRedeemAccessGrant(token)
	if err != nil {
		return l.HTTPResponseError("Error redeeming access grant", err, errorStatusCode(err), true)
	}

	responseData := redeemAccessResponse{Tool: toolToResponse(*tool), Username: username, Password: password}
	return successJSON(l, responseData)
}

// GetCredentials lists the signed in account vault entries
func (h ServicesApisHandler) GetCredentials(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	var toolID *string
	if value := r.URL.Query().Get("tool_id"); value != "" {
		toolID = &value
	}

	credentials, err := h.coreAPIs.Services.SerListCredentials(account, toolID)
	if err != nil {
		return l.HTTPResponseError("Error getting credentials", err, errorStatusCode(err), true)
	}

	return successJSON(l, credentialsToResponse(credentials))
}

type createCredentialRequest struct {
	ToolID   string `json:"tool_id" validate:"required"`
	Label    string `json:"label" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// CreateCredential stores a new vault entry for the signed in account
func (h ServicesApisHandler) CreateCredential(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	var requestData createCredentialRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	credential, err := h.coreAPIs.Services.SerCreateCredential(account, requestData.ToolID, requestData.Label, requestData.Username, requestData.Password)
	if err != nil {
		return l.HTTPResponseError("Error creating credential", err, errorStatusCode(err), true)
	}

	return successJSON(l, credentialToResponse(*credential))
}

type updateCredentialRequest struct {
	Label    *string `json:"label"`
	Username *string `json:"username"`
	Password *string `json:"password"`
}

// UpdateCredential updates a vault entry owned by the signed in account
func (h ServicesApisHandler) UpdateCredential(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	id := mux.Vars(r)["id"]
	if id == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeString, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	var requestData updateCredentialRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	credential, err := h.coreAPIs.Services.SerUpdateCredential(account, id, requestData.Label, requestData.Username, requestData.Password)
	if err != nil {
		return l.HTTPResponseError("Error updating credential", err, errorStatusCode(err), true)
	}

	return successJSON(l, credentialToResponse(*credential))
}

// DeleteCredential removes a vault entry owned by the signed in account
func (h ServicesApisHandler) DeleteCredential(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	id := mux.Vars(r)["id"]
	if id == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeString, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	err := h.coreAPIs.Services.SerDeleteCredential(account, id)
	if err != nil {
		return l.HTTPResponseError("Error deleting credential", err, errorStatusCode(err), true)
	}

	return l.HTTPResponseSuccess()
}

type revealCredentialResponse struct {
	Password string `json:"password"`
}

// RevealCredential returns the plaintext password of a vault entry. The
// reveal lands in the audit trail.
func (h ServicesApisHandler) RevealCredential(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	id := mux.Vars(r)["id"]
	if id == "" {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypeString, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	password, err := h.coreAPIs.Services.SerRevealCredential(account, id, utils.ClientIP(r))
	if err != nil {
		return l.HTTPResponseError("Error revealing credential", err, errorStatusCode(err), true)
	}

	return successJSON(l, revealCredentialResponse{Password: password})
}

// GetDevices lists the signed in account devices
func (h ServicesApisHandler) GetDevices(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	devices, err := h.coreAPIs.Services.SerListDevices(account.ID)
	if err != nil {
		return l.HTTPResponseError("Error getting devices", err, errorStatusCode(err), true)
	}

	return successJSON(l, devicesToResponse(devices))
}

// Version returns the service version
func (h ServicesApisHandler) Version(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	return l.HTTPResponseSuccessMessage(h.coreAPIs.GetVersion())
}
