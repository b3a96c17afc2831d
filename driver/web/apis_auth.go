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

	"github.com/rokwire/logging-library-go/v2/logs"
)

// AuthApisHandler handles the sign in and sign out APIs
type AuthApisHandler struct {
	coreAPIs *core.APIs
}

// NewAuthApisHandler creates a new auth APIs handler
func NewAuthApisHandler(coreAPIs *core.APIs) AuthApisHandler {
	return AuthApisHandler{coreAPIs: coreAPIs}
}

type deviceInfoRequest struct {
	Fingerprint string `json:"fingerprint" validate:"required"`
	Name        string `json:"name"`
	Browser     string `json:"browser"`
	OS          string `json:"os"`
}

func (d deviceInfoRequest) toDeviceInfo() coreauth.DeviceInfo {
	return coreauth.DeviceInfo{Fingerprint: d.Fingerprint, Name: d.Name, Browser: d.Browser, OS: d.OS}
}

type loginRequest struct {
	Email    string            `json:"email" validate:"required,email"`
	Password string            `json:"password" validate:"required"`
	Device   deviceInfoRequest `json:"device" validate:"required"`
}

type loginResponse struct {
	TwoStepRequired bool             `json:"two_step_required"`
	TempToken       string           `json:"temp_token,omitempty"`
	Token           string           `json:"token,omitempty"`
	Expires         *time.Time       `json:"expires,omitempty"`
	Account         *accountResponse `json:"account,omitempty"`
	DeviceStatus    string           `json:"device_status,omitempty"`
}

func loginResultToResponse(result *coreauth.LoginResult) loginResponse {
	response := loginResponse{TwoStepRequired: result.TwoStepRequired, TempToken: result.TempToken, Token: result.Token}
	if !result.Expires.IsZero() {
		expires := result.Expires
		response.Expires = &expires
	}
	if result.Account != nil {
		account := accountToResponse(*result.Account)
		response.Account = &account
	}
	if result.Device != nil {
		response.DeviceStatus = string(result.Device.Status)
	}
	return response
}

// Login handles the email and password sign in
func (h AuthApisHandler) Login(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	var requestData loginRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	result, err := h.coreAPIs.Auth.Login(requestData.Email, requestData.Password, requestData.Device.toDeviceInfo(), utils.ClientIP(r))
	if err != nil {
		return l.HTTPResponseError("Error logging in", err, errorStatusCode(err), true)
	}

	return successJSON(l, loginResultToResponse(result))
}

type loginExternalRequest struct {
	IDToken string            `json:"id_token" validate:"required"`
	Device  deviceInfoRequest `json:"device" validate:"required"`
}

// LoginExternal handles sign in with an identity provider issued token
func (h AuthApisHandler) LoginExternal(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	var requestData loginExternalRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	result, err := h.coreAPIs.Auth.LoginExternal(r.Context(), requestData.IDToken, requestData.Device.toDeviceInfo(), utils.ClientIP(r))
	if err != nil {
		return l.HTTPResponseError("Error logging in", err, errorStatusCode(err), true)
	}

	return successJSON(l, loginResultToResponse(result))
}

type twoStepVerifyRequest struct {
	TempToken string `json:"temp_token" validate:"required"`
	Code      string `json:"code" validate:"required,len=6"`
}

// TwoStepVerify handles the emailed code verification step
func (h AuthApisHandler) TwoStepVerify(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	var requestData twoStepVerifyRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	result, err := h.coreAPIs.Auth.CompleteTwoStep(requestData.TempToken, requestData.Code, utils.ClientIP(r))
	if err != nil {
		return l.HTTPResponseError("Error verifying code", err, errorStatusCode(err), true)
	}

	return successJSON(l, loginResultToResponse(result))
}

type twoStepResendRequest struct {
	TempToken string `json:"temp_token" validate:"required"`
}

// TwoStepResend sends the verification code again
func (h AuthApisHandler) TwoStepResend(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	var requestData twoStepResendRequest
	response := readRequest(l, r, &requestData)
	if response != nil {
		return *response
	}

	err := h.coreAPIs.Auth.ResendCode(requestData.TempToken)
	if err != nil {
		return l.HTTPResponseError("Error resending code", err, errorStatusCode(err), true)
	}

	return l.HTTPResponseSuccess()
}

// Logout revokes the session behind the presented token
func (h AuthApisHandler) Logout(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	err := h.coreAPIs.Auth.Logout(claims, utils.ClientIP(r))
	if err != nil {
		return l.HTTPResponseError("Error logging out", err, errorStatusCode(err), true)
	}

	return l.HTTPResponseSuccess()
}

// LogoutAll revokes every session of the signed in account
func (h AuthApisHandler) LogoutAll(l *logs.Log, r *http.Request, account *model.Account, claims *coreauth.SessionClaims) logs.HTTPResponse {
	err := h.coreAPIs.Auth.LogoutAll(account.ID)
	if err != nil {
		return l.HTTPResponseError("Error logging out", err, errorStatusCode(err), true)
	}

	return l.HTTPResponseSuccess()
}
