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

package model

import (
	"testing"
)

func TestDeviceStatusValid(t *testing.T) {
	for _, status := range []DeviceStatus{DeviceStatusPending, DeviceStatusApproved, DeviceStatusRejected, DeviceStatusRevoked} {
		if !status.Valid() {
			t.Errorf("%s must be valid", status)
		}
	}
	if DeviceStatus("blocked").Valid() {
		t.Error("unknown status must not be valid")
	}
}

func TestDeviceStatusCanTransition(t *testing.T) {
	cases := []struct {
		from DeviceStatus
		to   DeviceStatus
		want bool
	}{
		{DeviceStatusPending, DeviceStatusApproved, true},
		{DeviceStatusPending, DeviceStatusRejected, true},
		{DeviceStatusPending, DeviceStatusRevoked, false},
		{DeviceStatusApproved, DeviceStatusRevoked, true},
		{DeviceStatusApproved, DeviceStatusPending, false},
		{DeviceStatusApproved, DeviceStatusRejected, false},
		{DeviceStatusRejected, DeviceStatusApproved, false},
		{DeviceStatusRevoked, DeviceStatusApproved, false},
		{DeviceStatusRevoked, DeviceStatusPending, false},
	}
	for _, c := range cases {
		got := c.from.CanTransition(c.to)
		if got != c.want {
			t.Errorf("%s -> %s: got %v, wanted %v", c.from, c.to, got, c.want)
		}
	}
}

func TestAccountHasTool(t *testing.T) {
	user := Account{Role: RoleUser, AllowedTools: []string{"tool-1"}}
	if !user.HasTool("tool-1") {
		t.Error("assigned tool must be available")
	}
	if user.HasTool("tool-2") {
		t.Error("unassigned tool must not be available")
	}

	//administrators see every tool
	admin := Account{Role: RoleAdministrator}
	if !admin.HasTool("tool-2") {
		t.Error("administrators must have every tool")
	}
}

func TestAccountIPAllowed(t *testing.T) {
	open := Account{}
	if !open.IPAllowed("10.0.0.1") {
		t.Error("unrestricted accounts admit any address")
	}

	restricted := Account{IPRestricted: true, AllowedIPs: []string{"10.0.0.1"}}
	if !restricted.IPAllowed("10.0.0.1") {
		t.Error("listed address must be admitted")
	}
	if restricted.IPAllowed("10.0.0.2") {
		t.Error("unlisted address must be rejected")
	}
}
