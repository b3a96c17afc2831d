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

package auth

import (
	"context"
	"strings"

	"access-core/utils"

	"github.com/coreos/go-oidc"
	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// oidcAuthImpl verifies ID tokens from the configured identity provider
// for federated sign in. The portal trusts the provider for the first
// factor and any provider side MFA.
type oidcAuthImpl struct {
	issuer   string
	verifier *oidc.IDTokenVerifier
}

func newOidcAuth(ctx context.Context, issuer string, clientID string) (*oidcAuthImpl, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionInitialize, "oidc provider", &logutils.FieldArgs{"issuer": issuer}, err)
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: clientID})
	return &oidcAuthImpl{issuer: issuer, verifier: verifier}, nil
}

// check validates the raw ID token and extracts the federated identity
func (a *oidcAuthImpl) check(ctx context.Context, rawIDToken string) (string, string, error) {
	idToken, err := a.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", "", errors.WrapErrorAction(logutils.ActionValidate, logutils.TypeToken, nil, err).SetStatus(utils.ErrorStatusInvalidToken)
	}

	var claims struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Verified bool   `json:"email_verified"`
	}
	err = idToken.Claims(&claims)
	if err != nil {
		return "", "", errors.WrapErrorAction(logutils.ActionUnmarshal, logutils.TypeClaim, nil, err).SetStatus(utils.ErrorStatusInvalidToken)
	}
	if claims.Email == "" {
		return "", "", errors.ErrorData(logutils.StatusMissing, logutils.TypeClaim, logutils.StringArgs("email")).SetStatus(utils.ErrorStatusInvalidToken)
	}
	return strings.ToLower(claims.Email), claims.Name, nil
}
