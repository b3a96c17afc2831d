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
	"time"

	"access-core/core/interfaces"
	"access-core/core/model"
	"access-core/utils"

	"github.com/google/uuid"
	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// Config holds the auth setup
type Config struct {
	TokenSecret   []byte
	SessionExpiry time.Duration
	Issuer        string

	//federated sign in, optional
	OidcIssuer   string
	OidcClientID string

	DeviceFailOpen bool
}

// LoginResult is the outcome of the first sign in step
type LoginResult struct {
	TwoStepRequired bool
	TempToken       string

	Token   string
	Expires time.Time

	Account *model.Account
	Device  *model.Device
}

// Auth runs the sign in pipeline: first factor, account status, source
// address checks, the device gate and the optional emailed second step.
type Auth struct {
	storage interfaces.Storage
	emailer interfaces.Emailer
	logger  *logs.Logger

	tokens   *TokenService
	twoStep  *twoStepVerifier
	password passwordAuth
	external *oidcAuthImpl //nil when federated sign in is not configured
	devices  *deviceRegistry
}

// NewAuth creates and configures a new Auth instance
func NewAuth(ctx context.Context, config Config, storage interfaces.Storage, emailer interfaces.Emailer, logger *logs.Logger) (*Auth, error) {
	tokens, err := NewTokenService(config.TokenSecret, config.SessionExpiry, config.Issuer)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionInitialize, "token service", nil, err)
	}

	auth := Auth{storage: storage, emailer: emailer, logger: logger, tokens: tokens,
		twoStep: newTwoStepVerifier(storage, emailer), password: passwordAuth{},
		devices: newDeviceRegistry(storage, config.DeviceFailOpen, logger)}

	if config.OidcIssuer != "" {
		external, err := newOidcAuth(ctx, config.OidcIssuer, config.OidcClientID)
		if err != nil {
			return nil, err
		}
		auth.external = external
	}
	return &auth, nil
}

// Login runs the email/password sign in. When the account has two step
// verification enabled the result carries a temp token instead of a
// session token.
func (a *Auth) Login(email string, password string, device DeviceInfo, ip string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := a.storage.FindAccountByEmail(email)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeAccount, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	err = a.password.check(account, password)
	if err != nil {
		a.audit(model.AuditActionLoginFailed, nil, email, "bad credentials", ip)
		return nil, err
	}

	return a.admit(*account, device, ip, true)
}

// LoginExternal signs in with an ID token from the federated identity
// provider. The provider vouches for the first factor and its own MFA,
// so the emailed second step is skipped.
func (a *Auth) LoginExternal(ctx context.Context, rawIDToken string, device DeviceInfo, ip string) (*LoginResult, error) {
	if a.external == nil {
		return nil, errors.ErrorData(logutils.StatusInvalid, "external login", logutils.StringArgs("not configured")).SetStatus(utils.ErrorStatusForbidden)
	}

	email, _, err := a.external.check(ctx, rawIDToken)
	if err != nil {
		a.audit(model.AuditActionLoginFailed, nil, "external", "bad id token", ip)
		return nil, err
	}

	account, err := a.storage.FindAccountByEmail(email)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeAccount, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	if account == nil {
		a.audit(model.AuditActionLoginFailed, nil, email, "no portal account", ip)
		return nil, errors.ErrorData(logutils.StatusMissing, model.TypeAccount, nil).SetStatus(utils.ErrorStatusNoAccount)
	}

	return a.admit(*account, device, ip, false)
}

// admit runs the shared checks after the first factor has passed
func (a *Auth) admit(account model.Account, device DeviceInfo, ip string, twoStep bool) (*LoginResult, error) {
	if !account.IsActive() {
		a.audit(model.AuditActionLoginFailed, &account, account.Email, "account "+strings.ToLower(account.Status), ip)
		return nil, errors.ErrorData(logutils.StatusInvalid, model.TypeAccount, logutils.StringArgs(account.Status)).SetStatus(utils.ErrorStatusAccountSuspended)
	}

	//super administrators bypass the address check
	if !account.IsSuperAdministrator() {
		err := a.CheckIPAccess(account, ip)
		if err != nil {
			a.audit(model.AuditActionIPBlocked, &account, account.Email, ip, ip)
			return nil, err
		}
	}

	//the session is issued whatever the device status says. The policy
	//evaluator holds unapproved devices back from protected resources,
	//and the status on the result tells the client what to show.
	registered, err := a.devices.register(account, device, ip)
	if err != nil {
		return nil, err
	}
	a.audit(model.AuditActionDeviceRegistered, &account, registered.Fingerprint, string(registered.Status), ip)

	if twoStep && account.TwoStepEnabled {
		tempToken, err := a.twoStep.start(account, ip, registered.ID)
		if err != nil {
			return nil, err
		}
		a.audit(model.AuditActionTwoStepSent, &account, account.Email, "", ip)
		return &LoginResult{TwoStepRequired: true, TempToken: tempToken, Account: &account, Device: registered}, nil
	}

	return a.completeLogin(account, registered, ip)
}

// CompleteTwoStep exchanges a temp token and code for a session token
func (a *Auth) CompleteTwoStep(rawTempToken string, code string, ip string) (*LoginResult, error) {
	token, err := a.twoStep.verify(rawTempToken, code)
	if err != nil {
		a.audit(model.AuditActionTwoStepFailed, nil, "", "", ip)
		return nil, err
	}

	account, err := a.storage.FindAccountByID(token.AccountID)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeAccount, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	if account == nil || !account.IsActive() {
		return nil, errors.ErrorData(logutils.StatusInvalid, model.TypeAccount, nil).SetStatus(utils.ErrorStatusAccountSuspended)
	}

	var device *model.Device
	if token.DeviceID != "" {
		device, err = a.storage.FindDeviceByID(token.DeviceID)
		if err != nil {
			return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeDevice, nil, err).SetStatus(utils.ErrorStatusTransient)
		}
	}

	return a.completeLogin(*account, device, ip)
}

// ResendCode emails a fresh verification code for a pending two step
func (a *Auth) ResendCode(rawTempToken string) error {
	return a.twoStep.resend(rawTempToken)
}

func (a *Auth) completeLogin(account model.Account, device *model.Device, ip string) (*LoginResult, error) {
	now := time.Now().UTC()
	deviceID := ""
	if device != nil {
		deviceID = device.ID
	}

	session := model.LoginSession{ID: uuid.NewString(), AccountID: account.ID, Email: account.Email,
		Role: account.Role, DeviceID: deviceID, IPAddress: ip,
		Expires: now.Add(a.tokens.Expiry()), DateCreated: now}
	err := a.storage.InsertLoginSession(session)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionInsert, model.TypeLoginSession, nil, err).SetStatus(utils.ErrorStatusTransient)
	}

	signed, expires, err := a.tokens.Issue(account, session.ID, deviceID)
	if err != nil {
		return nil, err
	}

	err = a.storage.UpdateAccountLoginInfo(account.ID, ip, now)
	if err != nil {
		a.logger.Errorf("error updating login info for account %s: %v", account.ID, err)
	}
	a.audit(model.AuditActionLogin, &account, account.Email, "", ip)

	return &LoginResult{Token: signed, Expires: expires, Account: &account, Device: device}, nil
}

// Logout revokes the session behind the token
func (a *Auth) Logout(claims *SessionClaims, ip string) error {
	err := a.storage.DeleteLoginSession(claims.SessionID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeLoginSession, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	a.audit(model.AuditActionLogout, nil, claims.Email, "", ip)
	return nil
}

// LogoutAll revokes every session of the account
func (a *Auth) LogoutAll(accountID string) error {
	err := a.storage.DeleteLoginSessionsByAccountID(accountID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeLoginSession, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return nil
}

// VerifySession validates a session token against its backing session
// record and returns the live account
func (a *Auth) VerifySession(rawToken string) (*model.Account, *SessionClaims, error) {
	claims, err := a.tokens.Verify(rawToken)
	if err != nil {
		return nil, nil, err
	}

	session, err := a.storage.FindLoginSession(claims.SessionID)
	if err != nil {
		return nil, nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeLoginSession, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	if session == nil {
		return nil, nil, errors.ErrorData(logutils.StatusInvalid, model.TypeLoginSession, logutils.StringArgs("revoked")).SetStatus(utils.ErrorStatusInvalidToken)
	}
	if session.IsExpired() {
		_ = a.storage.DeleteLoginSession(session.ID)
		return nil, nil, errors.ErrorData(logutils.StatusInvalid, model.TypeLoginSession, logutils.StringArgs("expired")).SetStatus(utils.ErrorStatusTokenExpired)
	}

	account, err := a.storage.FindAccountByID(claims.Subject)
	if err != nil {
		return nil, nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeAccount, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	if account == nil {
		return nil, nil, errors.ErrorData(logutils.StatusMissing, model.TypeAccount, nil).SetStatus(utils.ErrorStatusInvalidToken)
	}
	if !account.IsActive() {
		return nil, nil, errors.ErrorData(logutils.StatusInvalid, model.TypeAccount, logutils.StringArgs(account.Status)).SetStatus(utils.ErrorStatusAccountSuspended)
	}
	return account, claims, nil
}

// CheckIPAccess checks the source address of a restricted account.
// Accounts without a restriction accept any address. A restricted one
// may come from its own allowed addresses or from any address on the
// portal wide allowlist.
func (a *Auth) CheckIPAccess(account model.Account, ip string) error {
	if account.IPAllowed(ip) {
		return nil
	}

	entries, err := a.storage.FindIPAllowlist(true)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeIPAllowlistEntry, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	for _, entry := range entries {
		if entry.IP == ip {
			return nil
		}
	}
	return errors.ErrorData(logutils.StatusInvalid, "source address", logutils.StringArgs(ip)).SetStatus(utils.ErrorStatusIPBlocked)
}

// GetDeviceStatus reports the registry record for one of the account's
// fingerprints, nil when the device has never been seen
func (a *Auth) GetDeviceStatus(account model.Account, fingerprint string) (*model.Device, error) {
	return a.devices.checkStatus(account.ID, fingerprint)
}

// SetDeviceStatus moves a device through the review state machine on
// behalf of an administrator
func (a *Auth) SetDeviceStatus(actor model.Account, deviceID string, to model.DeviceStatus, note string, ip string) (*model.Device, error) {
	device, err := a.devices.setStatus(actor, deviceID, to, note)
	if err != nil {
		return nil, err
	}

	//approval withdrawal also cuts live sessions from the device
	if to == model.DeviceStatusRevoked || to == model.DeviceStatusRejected {
		err = a.storage.DeleteLoginSessionsByAccountID(device.AccountID)
		if err != nil {
			a.logger.Errorf("error revoking sessions for account %s: %v", device.AccountID, err)
		}
	}

	a.audit(model.AuditActionDeviceReviewed, &actor, device.Fingerprint, string(to), ip)
	return device, nil
}

// HashPassword hashes a plaintext password for storage
func (a *Auth) HashPassword(password string) (string, error) {
	return a.password.hash(password)
}

// CheckPassword verifies a plaintext password against the account
func (a *Auth) CheckPassword(account *model.Account, password string) error {
	return a.password.check(account, password)
}

func (a *Auth) audit(action string, actor *model.Account, target string, details string, ip string) {
	event := model.AuditEvent{ID: uuid.NewString(), Action: action, Target: target,
		Details: details, IPAddress: ip, DateCreated: time.Now().UTC()}
	if actor != nil {
		event.ActorID = actor.ID
		event.ActorEmail = actor.Email
	}
	err := a.storage.InsertAuditEvent(event)
	if err != nil {
		a.logger.Errorf("error recording audit event %s: %v", action, err)
	}
}
