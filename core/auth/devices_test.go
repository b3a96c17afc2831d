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
	"errors"
	"testing"
	"time"

	genmocks "access-core/core/mocks"
	"access-core/core/model"
	"access-core/utils"

	rokerrors "github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/stretchr/testify/mock"
	"gotest.tools/assert"
)

func testLogger() *logs.Logger {
	return logs.NewLogger("test", nil)
}

func TestDeviceRegisterNewPending(t *testing.T) {
	storage := genmocks.Storage{}
	registry := newDeviceRegistry(&storage, false, testLogger())

	var upserted model.Device
	stored := model.Device{ID: "device-1", AccountID: "account-1", Fingerprint: "fp-1", Status: model.DeviceStatusPending}
	storage.On("UpsertDevice", mock.AnythingOfType("model.Device")).Run(func(args mock.Arguments) {
		upserted = args.Get(0).(model.Device)
	}).Return(&stored, nil)

	device, err := registry.register(testAccount(), DeviceInfo{Fingerprint: "fp-1", Name: "Work laptop"}, "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, upserted.Status, model.DeviceStatusPending, "new devices must enter pending")
	assert.Equal(t, device.Status, model.DeviceStatusPending, "status is different")
}

func TestDeviceRegisterSuperAdministrator(t *testing.T) {
	storage := genmocks.Storage{}
	registry := newDeviceRegistry(&storage, false, testLogger())

	var upserted model.Device
	stored := model.Device{ID: "device-1", AccountID: "account-1", Fingerprint: "fp-1", Status: model.DeviceStatusApproved}
	storage.On("UpsertDevice", mock.AnythingOfType("model.Device")).Run(func(args mock.Arguments) {
		upserted = args.Get(0).(model.Device)
	}).Return(&stored, nil)

	account := testAccount()
	account.Role = model.RoleSuperAdministrator
	_, err := registry.register(account, DeviceInfo{Fingerprint: "fp-1"}, "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, upserted.Status, model.DeviceStatusApproved, "super administrator devices approve themselves")
}

func TestDeviceRegisterMissingFingerprint(t *testing.T) {
	registry := newDeviceRegistry(&genmocks.Storage{}, false, testLogger())

	_, err := registry.register(testAccount(), DeviceInfo{}, "10.0.0.1")
	if err == nil {
		t.Fatal("we are expecting error")
	}
}

func TestDeviceRegisterStorageDown(t *testing.T) {
	//fail closed by default
	storage := genmocks.Storage{}
	storage.On("UpsertDevice", mock.AnythingOfType("model.Device")).Return(nil, errors.New("connection refused"))
	registry := newDeviceRegistry(&storage, false, testLogger())

	_, err := registry.register(testAccount(), DeviceInfo{Fingerprint: "fp-1"}, "10.0.0.1")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*rokerrors.Error).Status(), utils.ErrorStatusTransient, "status is different")

	//fail open when configured
	storage2 := genmocks.Storage{}
	storage2.On("UpsertDevice", mock.AnythingOfType("model.Device")).Return(nil, errors.New("connection refused"))
	registry2 := newDeviceRegistry(&storage2, true, testLogger())

	device, err := registry2.register(testAccount(), DeviceInfo{Fingerprint: "fp-1"}, "10.0.0.1")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, device.Status, model.DeviceStatusApproved, "fail open must admit the device")
}

func TestDeviceSetStatus(t *testing.T) {
	storage := genmocks.Storage{}
	registry := newDeviceRegistry(&storage, false, testLogger())

	pending := model.Device{ID: "device-1", AccountID: "account-1", Fingerprint: "fp-1", Status: model.DeviceStatusPending}
	storage.On("FindDeviceByID", "device-1").Return(&pending, nil)
	storage.On("UpdateDeviceStatus", "device-1", model.DeviceStatusPending, model.DeviceStatusApproved, "admin-1", "ok").Return(true, nil)

	actor := model.Account{ID: "admin-1", Role: model.RoleAdministrator}
	device, err := registry.setStatus(actor, "device-1", model.DeviceStatusApproved, "ok")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, device.Status, model.DeviceStatusApproved, "status is different")
	if device.ReviewedBy == nil || *device.ReviewedBy != "admin-1" {
		t.Error("reviewer not recorded")
	}
	if device.ReviewedAt == nil || time.Since(*device.ReviewedAt) > time.Minute {
		t.Error("review time not recorded")
	}
}

func TestDeviceSetStatusInvalidTransition(t *testing.T) {
	storage := genmocks.Storage{}
	registry := newDeviceRegistry(&storage, false, testLogger())

	rejected := model.Device{ID: "device-1", Status: model.DeviceStatusRejected}
	storage.On("FindDeviceByID", "device-1").Return(&rejected, nil)

	actor := model.Account{ID: "admin-1", Role: model.RoleAdministrator}
	_, err := registry.setStatus(actor, "device-1", model.DeviceStatusApproved, "")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*rokerrors.Error).Status(), utils.ErrorStatusInvalidTransition, "status is different")
}

func TestDeviceSetStatusLostRace(t *testing.T) {
	storage := genmocks.Storage{}
	registry := newDeviceRegistry(&storage, false, testLogger())

	pending := model.Device{ID: "device-1", Status: model.DeviceStatusPending}
	storage.On("FindDeviceByID", "device-1").Return(&pending, nil)
	//another reviewer moved the device between find and update
	storage.On("UpdateDeviceStatus", "device-1", model.DeviceStatusPending, model.DeviceStatusApproved, "admin-1", "").Return(false, nil)

	actor := model.Account{ID: "admin-1", Role: model.RoleAdministrator}
	_, err := registry.setStatus(actor, "device-1", model.DeviceStatusApproved, "")
	if err == nil {
		t.Fatal("we are expecting error")
	}
	assert.Equal(t, err.(*rokerrors.Error).Status(), utils.ErrorStatusInvalidTransition, "status is different")
}
