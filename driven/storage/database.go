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

package storage

import (
	"context"
	"time"

	"github.com/rokwire/logging-library-go/v2/logs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type database struct {
	mongoDBAuth  string
	mongoDBName  string
	mongoTimeout time.Duration

	logger *logs.Logger

	db       *mongo.Database
	dbClient *mongo.Client

	accounts        *collectionWrapper
	loginSessions   *collectionWrapper
	tempTokens      *collectionWrapper
	devices         *collectionWrapper
	tools           *collectionWrapper
	toolCredentials *collectionWrapper
	accessGrants    *collectionWrapper
	ipAllowlist     *collectionWrapper
	auditEvents     *collectionWrapper
}

func (m *database) start() error {
	m.logger.Info("database -> start")

	//connect to the database
	clientOptions := options.Client().ApplyURI(m.mongoDBAuth)
	connectContext, cancel := context.WithTimeout(context.Background(), m.mongoTimeout)
	client, err := mongo.Connect(connectContext, clientOptions)
	cancel()
	if err != nil {
		return err
	}

	//ping the database
	pingContext, cancel := context.WithTimeout(context.Background(), m.mongoTimeout)
	err = client.Ping(pingContext, nil)
	cancel()
	if err != nil {
		return err
	}

	//apply checks
	db := client.Database(m.mongoDBName)

	accounts := &collectionWrapper{database: m, coll: db.Collection("accounts")}
	err = m.applyAccountsChecks(accounts)
	if err != nil {
		return err
	}

	loginSessions := &collectionWrapper{database: m, coll: db.Collection("login_sessions")}
	err = m.applyLoginSessionsChecks(loginSessions)
	if err != nil {
		return err
	}

	tempTokens := &collectionWrapper{database: m, coll: db.Collection("temp_tokens")}
	err = m.applyTempTokensChecks(tempTokens)
	if err != nil {
		return err
	}

	devices := &collectionWrapper{database: m, coll: db.Collection("devices")}
	err = m.applyDevicesChecks(devices)
	if err != nil {
		return err
	}

	tools := &collectionWrapper{database: m, coll: db.Collection("tools")}

	toolCredentials := &collectionWrapper{database: m, coll: db.Collection("tool_credentials")}
	err = m.applyToolCredentialsChecks(toolCredentials)
	if err != nil {
		return err
	}

	accessGrants := &collectionWrapper{database: m, coll: db.Collection("access_grants")}
	err = m.applyAccessGrantsChecks(accessGrants)
	if err != nil {
		return err
	}

	ipAllowlist := &collectionWrapper{database: m, coll: db.Collection("ip_allowlist")}
	err = m.applyIPAllowlistChecks(ipAllowlist)
	if err != nil {
		return err
	}

	auditEvents := &collectionWrapper{database: m, coll: db.Collection("audit_events")}
	err = m.applyAuditEventsChecks(auditEvents)
	if err != nil {
		return err
	}

	//assign the db, db client and the collections
	m.db = db
	m.dbClient = client
	m.accounts = accounts
	m.loginSessions = loginSessions
	m.tempTokens = tempTokens
	m.devices = devices
	m.tools = tools
	m.toolCredentials = toolCredentials
	m.accessGrants = accessGrants
	m.ipAllowlist = ipAllowlist
	m.auditEvents = auditEvents

	return nil
}

func (m *database) applyAccountsChecks(accounts *collectionWrapper) error {
	//add email index - unique
	err := accounts.AddIndex(bson.D{primitive.E{Key: "email", Value: 1}}, true)
	if err != nil {
		return err
	}
	return nil
}

func (m *database) applyLoginSessionsChecks(loginSessions *collectionWrapper) error {
	err := loginSessions.AddIndex(bson.D{primitive.E{Key: "account_id", Value: 1}}, false)
	if err != nil {
		return err
	}

	//mongo sweeps expired records through the TTL index
	expire := int32(0)
	err = loginSessions.AddIndexWithOptions(bson.D{primitive.E{Key: "expires", Value: 1}},
		options.Index().SetExpireAfterSeconds(expire))
	if err != nil {
		return err
	}
	return nil
}

func (m *database) applyTempTokensChecks(tempTokens *collectionWrapper) error {
	//add token_hash index - unique
	err := tempTokens.AddIndex(bson.D{primitive.E{Key: "token_hash", Value: 1}}, true)
	if err != nil {
		return err
	}

	expire := int32(0)
	err = tempTokens.AddIndexWithOptions(bson.D{primitive.E{Key: "expires", Value: 1}},
		options.Index().SetExpireAfterSeconds(expire))
	if err != nil {
		return err
	}
	return nil
}

func (m *database) applyDevicesChecks(devices *collectionWrapper) error {
	//one record per account and fingerprint
	err := devices.AddIndex(bson.D{primitive.E{Key: "account_id", Value: 1}, primitive.E{Key: "fingerprint", Value: 1}}, true)
	if err != nil {
		return err
	}
	return nil
}

func (m *database) applyToolCredentialsChecks(toolCredentials *collectionWrapper) error {
	err := toolCredentials.AddIndex(bson.D{primitive.E{Key: "account_id", Value: 1}, primitive.E{Key: "tool_id", Value: 1}}, false)
	if err != nil {
		return err
	}
	return nil
}

func (m *database) applyAccessGrantsChecks(accessGrants *collectionWrapper) error {
	err := accessGrants.AddIndex(bson.D{primitive.E{Key: "token_hash", Value: 1}}, true)
	if err != nil {
		return err
	}

	expire := int32(0)
	err = accessGrants.AddIndexWithOptions(bson.D{primitive.E{Key: "expires", Value: 1}},
		options.Index().SetExpireAfterSeconds(expire))
	if err != nil {
		return err
	}
	return nil
}

func (m *database) applyIPAllowlistChecks(ipAllowlist *collectionWrapper) error {
	err := ipAllowlist.AddIndex(bson.D{primitive.E{Key: "ip", Value: 1}}, true)
	if err != nil {
		return err
	}
	return nil
}

func (m *database) applyAuditEventsChecks(auditEvents *collectionWrapper) error {
	err := auditEvents.AddIndex(bson.D{primitive.E{Key: "date_created", Value: -1}}, false)
	if err != nil {
		return err
	}
	return nil
}
