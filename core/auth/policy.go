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

package auth

import (
	"access-core/core/model"
	"access-core/utils"

	"github.com/casbin/casbin/v2"
	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// PolicyEvaluator authorizes requests in a fixed order: token, backing
// session, account status, source address, device gate, then role
// policy. The first failed check decides the error, so a suspended
// account reads as suspended and not as a permission problem.
type PolicyEvaluator struct {
	auth     *Auth
	enforcer *casbin.Enforcer
}

// NewPolicyEvaluator creates a policy evaluator over the auth pipeline
// and a role policy enforcer
func NewPolicyEvaluator(auth *Auth, enforcer *casbin.Enforcer) *PolicyEvaluator {
	return &PolicyEvaluator{auth: auth, enforcer: enforcer}
}

// Authenticate validates the token and its backing session without any
// policy check. Sign out and other session scoped calls use it.
func (p *PolicyEvaluator) Authenticate(rawToken string) (*model.Account, *SessionClaims, error) {
	return p.auth.VerifySession(rawToken)
}

// Authorize validates the token and checks that its account may perform
// the action on the object from the given address
func (p *PolicyEvaluator) Authorize(rawToken string, ip string, object string, action string) (*model.Account, *SessionClaims, error) {
	account, claims, err := p.auth.VerifySession(rawToken)
	if err != nil {
		return nil, nil, err
	}

	if !account.IsSuperAdministrator() {
		err = p.auth.CheckIPAccess(*account, ip)
		if err != nil {
			return nil, nil, err
		}

		if claims.DeviceID != "" {
			device, err := p.auth.storage.FindDeviceByID(claims.DeviceID)
			if err != nil {
				return nil, nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeDevice, nil, err).SetStatus(utils.ErrorStatusTransient)
			}
			if device == nil {
				return nil, nil, errors.ErrorData(logutils.StatusInvalid, model.TypeDevice, logutils.StringArgs("not approved")).SetStatus(utils.ErrorStatusDeviceBlocked)
			}
			err = gateError(*device)
			if err != nil {
				return nil, nil, err
			}
		}
	}

	allowed, err := p.enforcer.Enforce(account.Role, object, action)
	if err != nil {
		return nil, nil, errors.WrapErrorAction("enforcing", "policy", &logutils.FieldArgs{"object": object, "action": action}, err)
	}
	if !allowed {
		return nil, nil, errors.ErrorData(logutils.StatusInvalid, logutils.TypeClaim,
			&logutils.FieldArgs{"role": account.Role, "object": object, "action": action}).SetStatus(utils.ErrorStatusForbidden)
	}
	return account, claims, nil
}
