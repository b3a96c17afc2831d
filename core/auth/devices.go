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
	"time"

	"access-core/core/interfaces"
	"access-core/core/model"
	"access-core/utils"

	"github.com/google/uuid"
	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// DeviceInfo is the client reported description of a signing in device
type DeviceInfo struct {
	Fingerprint string
	Name        string
	Browser     string
	OS          string
}

// deviceRegistry tracks sign in devices per account. Unknown devices
// enter pending and have to be approved by an administrator before the
// account can sign in from them. Super administrator devices approve
// themselves.
type deviceRegistry struct {
	storage interfaces.Storage
	logger  *logs.Logger

	//failOpen lets sign ins through as if approved when the registry
	//storage is unavailable. Off unless explicitly configured.
	failOpen bool
}

func newDeviceRegistry(storage interfaces.Storage, failOpen bool, logger *logs.Logger) *deviceRegistry {
	return &deviceRegistry{storage: storage, failOpen: failOpen, logger: logger}
}

// register records the device for the account, creating it pending on
// first sight and refreshing last seen on repeats. Registration is
// keyed on (account, fingerprint) so concurrent sign ins settle on one
// record.
func (r *deviceRegistry) register(account model.Account, info DeviceInfo, ip string) (*model.Device, error) {
	if info.Fingerprint == "" {
		return nil, errors.ErrorData(logutils.StatusMissing, "fingerprint", nil).SetStatus(utils.ErrorStatusInvalidCredentials)
	}

	now := time.Now().UTC()
	status := model.DeviceStatusPending
	if account.IsSuperAdministrator() {
		status = model.DeviceStatusApproved
	}

	device := model.Device{ID: uuid.NewString(), AccountID: account.ID, Fingerprint: info.Fingerprint,
		Name: info.Name, Browser: info.Browser, OS: info.OS, IPAddress: ip,
		Status: status, LastSeen: now, DateCreated: now}
	stored, err := r.storage.UpsertDevice(device)
	if err != nil {
		if r.failOpen {
			r.logger.Errorf("device registry unavailable, letting device through: %v", err)
			device.Status = model.DeviceStatusApproved
			return &device, nil
		}
		return nil, errors.WrapErrorAction(logutils.ActionRegister, model.TypeDevice, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return stored, nil
}

// checkStatus loads the registry record for the fingerprint
func (r *deviceRegistry) checkStatus(accountID string, fingerprint string) (*model.Device, error) {
	device, err := r.storage.FindDevice(accountID, fingerprint)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeDevice, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	return device, nil
}

// gateError maps a device status to the access gate error, nil for approved
func gateError(device model.Device) error {
	if device.IsApproved() {
		return nil
	}
	switch device.Status {
	case model.DeviceStatusPending:
		return errors.ErrorData(logutils.StatusInvalid, model.TypeDeviceStatus, logutils.StringArgs("pending")).SetStatus(utils.ErrorStatusDevicePending)
	default:
		return errors.ErrorData(logutils.StatusInvalid, model.TypeDeviceStatus, logutils.StringArgs(string(device.Status))).SetStatus(utils.ErrorStatusDeviceBlocked)
	}
}

// setStatus moves a device through the review state machine. The update
// is conditional on the current status so concurrent reviews cannot
// double apply.
func (r *deviceRegistry) setStatus(actor model.Account, deviceID string, to model.DeviceStatus, note string) (*model.Device, error) {
	if !to.Valid() {
		return nil, errors.ErrorData(logutils.StatusInvalid, model.TypeDeviceStatus, logutils.StringArgs(string(to)))
	}

	device, err := r.storage.FindDeviceByID(deviceID)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeDevice, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	if device == nil {
		return nil, errors.ErrorData(logutils.StatusMissing, model.TypeDevice, &logutils.FieldArgs{"id": deviceID}).SetStatus(utils.ErrorStatusNotFound)
	}
	if !device.Status.CanTransition(to) {
		return nil, errors.ErrorData(logutils.StatusInvalid, model.TypeDeviceStatus,
			&logutils.FieldArgs{"from": string(device.Status), "to": string(to)}).SetStatus(utils.ErrorStatusInvalidTransition)
	}

	updated, err := r.storage.UpdateDeviceStatus(deviceID, device.Status, to, actor.ID, note)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionUpdate, model.TypeDevice, nil, err).SetStatus(utils.ErrorStatusTransient)
	}
	if !updated {
		//lost a race with another reviewer
		return nil, errors.ErrorData(logutils.StatusInvalid, model.TypeDeviceStatus, logutils.StringArgs("already reviewed")).SetStatus(utils.ErrorStatusInvalidTransition)
	}

	now := time.Now().UTC()
	device.Status = to
	device.AdminNote = note
	device.ReviewedBy = &actor.ID
	device.ReviewedAt = &now
	return device, nil
}
