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
	"strings"

	coreauth "access-core/core/auth"
	"access-core/core/model"
	"access-core/utils"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

const typeCheckPermission logutils.MessageActionType = "checking permission"

// Auth builds per route authorization checks over the policy evaluator
type Auth struct {
	policy *coreauth.PolicyEvaluator
}

// Authorization is an interface for auth types
type Authorization interface {
	check(req *http.Request) (int, *model.Account, *coreauth.SessionClaims, error)
}

// NewAuth creates new auth handler
func NewAuth(policy *coreauth.PolicyEvaluator) *Auth {
	return &Auth{policy: policy}
}

// require returns the authorization for an object/action pair
func (auth *Auth) require(object string, action string) Authorization {
	return policyAuth{policy: auth.policy, object: object, action: action}
}

// authenticated returns an authorization that only validates the session
func (auth *Auth) authenticated() Authorization {
	return sessionAuth{policy: auth.policy}
}

// sessionAuth validates the token and session without a policy check
type sessionAuth struct {
	policy *coreauth.PolicyEvaluator
}

func (a sessionAuth) check(req *http.Request) (int, *model.Account, *coreauth.SessionClaims, error) {
	token, err := bearerToken(req)
	if err != nil {
		return http.StatusUnauthorized, nil, nil, err
	}

	account, claims, err := a.policy.Authenticate(token)
	if err != nil {
		return errorStatusCode(err), nil, nil, errors.WrapErrorAction(typeCheckPermission, logutils.TypeRequest, nil, err)
	}
	return http.StatusOK, account, claims, nil
}

// policyAuth runs the full evaluator chain for a request
type policyAuth struct {
	policy *coreauth.PolicyEvaluator
	object string
	action string
}

func (a policyAuth) check(req *http.Request) (int, *model.Account, *coreauth.SessionClaims, error) {
	token, err := bearerToken(req)
	if err != nil {
		return http.StatusUnauthorized, nil, nil, err
	}

	account, claims, err := a.policy.Authorize(token, utils.ClientIP(req), a.object, a.action)
	if err != nil {
		return errorStatusCode(err), nil, nil, errors.WrapErrorAction(typeCheckPermission, logutils.TypeRequest, nil, err)
	}
	return http.StatusOK, account, claims, nil
}

func bearerToken(req *http.Request) (string, error) {
	header := req.Header.Get("Authorization")
	if header == "" {
		return "", errors.ErrorData(logutils.StatusMissing, logutils.TypeToken, nil)
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.ErrorData(logutils.StatusInvalid, logutils.TypeToken, nil)
	}
	return parts[1], nil
}

// errorStatusCode maps the error taxonomy onto HTTP statuses
func errorStatusCode(err error) int {
	loggingErr, ok := err.(*errors.Error)
	if !ok {
		return http.StatusInternalServerError
	}
	switch loggingErr.Status() {
	case utils.ErrorStatusInvalidCredentials, utils.ErrorStatusInvalidToken, utils.ErrorStatusTokenExpired, utils.ErrorStatusOtpMismatch:
		return http.StatusUnauthorized
	case utils.ErrorStatusAccountSuspended, utils.ErrorStatusNoAccount, utils.ErrorStatusForbidden,
		utils.ErrorStatusDevicePending, utils.ErrorStatusDeviceBlocked, utils.ErrorStatusIPBlocked:
		return http.StatusForbidden
	case utils.ErrorStatusNotFound:
		return http.StatusNotFound
	case utils.ErrorStatusAlreadyExists, utils.ErrorStatusInvalidTransition:
		return http.StatusConflict
	case utils.ErrorStatusTransient:
		return http.StatusServiceUnavailable
	case utils.ErrorStatusCrypto:
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}
