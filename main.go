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

package main

import (
	"access-core/core"
	"access-core/core/auth"
	"access-core/driven/emailer"
	"access-core/driven/storage"
	"access-core/driver/web"
	"context"
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/rokwire/core-auth-library-go/v3/envloader"
	"github.com/rokwire/logging-library-go/v2/logs"
)

var (
	// Version : version of this executable
	Version string
	// Build : build date of this executable
	Build string
)

func main() {
	if len(Version) == 0 {
		Version = "dev"
	}

	serviceID := "portal-core"

	loggerOpts := logs.LoggerOpts{SuppressRequests: logs.NewStandardHealthCheckHTTPRequestProperties("portal/version")}
	logger := logs.NewLogger(serviceID, &loggerOpts)
	envLoader := envloader.NewEnvLoader(Version, logger)

	level := envLoader.GetAndLogEnvVar("PORTAL_CORE_LOG_LEVEL", false, false)
	logLevel := logs.LogLevelFromString(level)
	if logLevel != nil {
		logger.SetLevel(*logLevel)
	}

	env := envLoader.GetAndLogEnvVar("PORTAL_CORE_ENVIRONMENT", true, false) //local, dev, staging, prod
	host := envLoader.GetAndLogEnvVar("PORTAL_CORE_HOST", false, false)
	port := envLoader.GetAndLogEnvVar("PORTAL_CORE_PORT", false, false)
	if port == "" {
		port = "80"
	}

	// mongoDB adapter
	mongoDBAuth := envLoader.GetAndLogEnvVar("PORTAL_CORE_MONGO_AUTH", true, true)
	mongoDBName := envLoader.GetAndLogEnvVar("PORTAL_CORE_MONGO_DATABASE", true, false)
	mongoTimeout := envLoader.GetAndLogEnvVar("PORTAL_CORE_MONGO_TIMEOUT", false, false)
	storageAdapter := storage.NewStorageAdapter(mongoDBAuth, mongoDBName, mongoTimeout, logger)
	err := storageAdapter.Start()
	if err != nil {
		logger.Fatalf("Cannot start the mongoDB adapter: %v", err)
	}

	// emailer adapter
	smtpHost := envLoader.GetAndLogEnvVar("PORTAL_CORE_SMTP_HOST", false, false)
	smtpPort := envLoader.GetAndLogEnvVar("PORTAL_CORE_SMTP_PORT", false, false)
	smtpUser := envLoader.GetAndLogEnvVar("PORTAL_CORE_SMTP_USER", false, true)
	smtpPassword := envLoader.GetAndLogEnvVar("PORTAL_CORE_SMTP_PASSWORD", false, true)
	smtpFrom := envLoader.GetAndLogEnvVar("PORTAL_CORE_SMTP_EMAIL_FROM", false, false)
	smtpPortNum, _ := strconv.Atoi(smtpPort)
	emailerAdapter := emailer.NewEmailerAdapter(smtpHost, smtpPortNum, smtpUser, smtpPassword, smtpFrom)

	//auth
	tokenSecret := envLoader.GetAndLogEnvVar("PORTAL_CORE_TOKEN_SECRET", true, true)

	sessionExpiry := 12 * time.Hour
	sessionExpiryStr := envLoader.GetAndLogEnvVar("PORTAL_CORE_SESSION_EXPIRY", false, false)
	if sessionExpiryStr != "" {
		parsed, err := time.ParseDuration(sessionExpiryStr)
		if err != nil {
			logger.Infof("Error parsing session expiry, applying defaults: %v", err)
		} else {
			sessionExpiry = parsed
		}
	}

	oidcIssuer := envLoader.GetAndLogEnvVar("PORTAL_CORE_OIDC_ISSUER", false, false)
	oidcClientID := envLoader.GetAndLogEnvVar("PORTAL_CORE_OIDC_CLIENT_ID", false, false)

	deviceFailOpen := false
	deviceFailOpenStr := envLoader.GetAndLogEnvVar("PORTAL_CORE_DEVICE_FAIL_OPEN", false, false)
	if deviceFailOpenStr != "" {
		parsed, err := strconv.ParseBool(deviceFailOpenStr)
		if err != nil {
			logger.Infof("Error parsing device fail open flag, applying defaults: %v", err)
		} else {
			deviceFailOpen = parsed
		}
	}

	authConfig := auth.Config{TokenSecret: []byte(tokenSecret), SessionExpiry: sessionExpiry, Issuer: serviceID,
		OidcIssuer: oidcIssuer, OidcClientID: oidcClientID, DeviceFailOpen: deviceFailOpen}
	authInst, err := auth.NewAuth(context.Background(), authConfig, storageAdapter, emailerAdapter, logger)
	if err != nil {
		logger.Fatalf("Error initializing auth: %v", err)
	}

	//secret cipher
	cipherKeyB64 := envLoader.GetAndLogEnvVar("PORTAL_CORE_CIPHER_KEY", true, true)
	cipherKey, err := base64.StdEncoding.DecodeString(cipherKeyB64)
	if err != nil {
		logger.Fatalf("Error decoding cipher key: %v", err)
	}
	cipher, err := auth.NewSecretCipher(cipherKey)
	if err != nil {
		logger.Fatalf("Error initializing secret cipher: %v", err)
	}

	//core
	coreAPIs := core.NewCoreAPIs(env, Version, Build, storageAdapter, emailerAdapter, authInst, cipher, logger)
	coreAPIs.Start()

	//log portal events as they happen
	go func() {
		for event := range coreAPIs.Events.Subscribe() {
			logger.Infof("event %s: %v", event.Type, event.Payload)
		}
	}()

	//role policy
	enforcer, err := casbin.NewEnforcer("driver/web/authorization_model.conf", "driver/web/authorization_policy.csv")
	if err != nil {
		logger.Fatalf("Error initializing the role policy: %v", err)
	}
	policy := auth.NewPolicyEvaluator(authInst, enforcer)

	corsOrigins := []string{}
	corsOriginsStr := envLoader.GetAndLogEnvVar("PORTAL_CORE_CORS_ALLOWED_ORIGINS", false, false)
	if corsOriginsStr != "" {
		corsOrigins = strings.Split(corsOriginsStr, ",")
	}

	//web adapter
	webAdapter := web.NewWebAdapter(coreAPIs, policy, host, port, corsOrigins, 5, 10, logger)
	webAdapter.Start()
}
