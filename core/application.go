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

package core

import (
	"time"

	"access-core/core/auth"
	"access-core/core/interfaces"
	"access-core/core/model"

	"github.com/google/uuid"
	"github.com/rokwire/logging-library-go/v2/logs"
)

// application represents the core application code based on hexagon architecture
type application struct {
	env     string
	version string
	build   string

	storage interfaces.Storage
	emailer interfaces.Emailer

	auth   *auth.Auth
	cipher *auth.SecretCipher
	events *EventBus

	logger *logs.Logger
}

// start runs the core part of the application
func (app *application) start() {
	app.logger.Infof("core application started, env %s", app.env)
}

// audit records an administrative or security relevant action, best effort
func (app *application) audit(action string, actor *model.Account, target string, details string, ip string) {
	event := model.AuditEvent{ID: uuid.NewString(), Action: action, Target: target,
		Details: details, IPAddress: ip, DateCreated: time.Now().UTC()}
	if actor != nil {
		event.ActorID = actor.ID
		event.ActorEmail = actor.Email
	}
	err := app.storage.InsertAuditEvent(event)
	if err != nil {
		app.logger.Errorf("error recording audit event %s: %v", action, err)
	}
}
