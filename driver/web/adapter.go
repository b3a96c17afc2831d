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
	"fmt"
	"net/http"

	"access-core/core"
	coreauth "access-core/core/auth"
	"access-core/core/model"

	"github.com/gorilla/mux"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rs/cors"
)

// Adapter entity
type Adapter struct {
	host        string
	port        string
	corsOrigins []string

	auth        *Auth
	authLimiter *rateLimiter
	logger      *logs.Logger

	authApisHandler     AuthApisHandler
	servicesApisHandler ServicesApisHandler
	adminApisHandler    AdminApisHandler
	systemApisHandler   SystemApisHandler

	coreAPIs *core.APIs
}

type handlerFunc = func(*logs.Log, *http.Request, *model.Account, *coreauth.SessionClaims) logs.HTTPResponse

// Start starts the web adapter
func (we Adapter) Start() {
	registerMetrics()

	router := mux.NewRouter().StrictSlash(true)
	router.Use(instrument)

	router.Handle("/metrics", metricsHandler()).Methods("GET")

	subRouter := router.PathPrefix("/portal").Subrouter()
	subRouter.HandleFunc("/version", we.wrapFunc(we.servicesApisHandler.Version, nil)).Methods("GET")

	///auth ///
	authSubrouter := subRouter.PathPrefix("/auth").Subrouter()
	authSubrouter.Use(we.authLimiter.middleware)
	authSubrouter.HandleFunc("/login", we.wrapFunc(we.authApisHandler.Login, nil)).Methods("POST")
	authSubrouter.HandleFunc("/login-external", we.wrapFunc(we.authApisHandler.LoginExternal, nil)).Methods("POST")
	authSubrouter.HandleFunc("/two-step/verify", we.wrapFunc(we.authApisHandler.TwoStepVerify, nil)).Methods("POST")
	authSubrouter.HandleFunc("/two-step/resend", we.wrapFunc(we.authApisHandler.TwoStepResend, nil)).Methods("POST")
	authSubrouter.HandleFunc("/logout", we.wrapFunc(we.authApisHandler.Logout, we.auth.authenticated())).Methods("POST")
	authSubrouter.HandleFunc("/logout-all", we.wrapFunc(we.authApisHandler.LogoutAll, we.auth.authenticated())).Methods("POST")
	///

	///services ///
	servicesSubrouter := subRouter.PathPrefix("/services").Subrouter()

	servicesSubrouter.HandleFunc("/account", we.wrapFunc(we.servicesApisHandler.GetAccount, we.auth.require("profile", "manage"))).Methods("GET")
	servicesSubrouter.HandleFunc("/account", we.wrapFunc(we.servicesApisHandler.UpdateProfile, we.auth.require("profile", "manage"))).Methods("PUT")
	servicesSubrouter.HandleFunc("/account/password", we.wrapFunc(we.servicesApisHandler.ChangePassword, we.auth.require("profile", "manage"))).Methods("PUT")

	servicesSubrouter.HandleFunc("/tools", we.wrapFunc(we.servicesApisHandler.GetTools, we.auth.require("tools", "access"))).Methods("GET")
	servicesSubrouter.HandleFunc("/tools/{id}/launch", we.wrapFunc(we.servicesApisHandler.LaunchTool, we.auth.require("tools", "access"))).Methods("POST")
	//the launch token inside the request is the credential here
	servicesSubrouter.HandleFunc("/access/redeem", we.wrapFunc(we.servicesApisHandler.RedeemAccessGrant, nil)).Methods("GET")

	servicesSubrouter.HandleFunc("/credentials", we.wrapFunc(we.servicesApisHandler.GetCredentials, we.auth.require("credentials", "manage"))).Methods("GET")
	servicesSubrouter.HandleFunc("/credentials", we.wrapFunc(we.servicesApisHandler.CreateCredential, we.auth.require("credentials", "manage"))).Methods("POST")
	servicesSubrouter.HandleFunc("/credentials/{id}", we.wrapFunc(we.servicesApisHandler.UpdateCredential, we.auth.require("credentials", "manage"))).Methods("PUT")
	servicesSubrouter.HandleFunc("/credentials/{id}", we.wrapFunc(we.servicesApisHandler.DeleteCredential, we.auth.require("credentials", "manage"))).Methods("DELETE")
	servicesSubrouter.HandleFunc("/credentials/{id}/reveal", we.wrapFunc(we.servicesApisHandler.RevealCredential, we.auth.require("credentials", "manage"))).Methods("GET")

	servicesSubrouter.HandleFunc("/devices", we.wrapFunc(we.servicesApisHandler.GetDevices, we.auth.require("devices", "read"))).Methods("GET")
	///

	///admin ///
	adminSubrouter := subRouter.PathPrefix("/admin").Subrouter()
	adminSubrouter.HandleFunc("/devices", we.wrapFunc(we.adminApisHandler.GetDevices, we.auth.require("devices", "review"))).Methods("GET")
	adminSubrouter.HandleFunc("/devices/{id}", we.wrapFunc(we.adminApisHandler.ReviewDevice, we.auth.require("devices", "review"))).Methods("PUT")
	adminSubrouter.HandleFunc("/devices/{id}", we.wrapFunc(we.adminApisHandler.DeleteDevice, we.auth.require("devices", "review"))).Methods("DELETE")

	adminSubrouter.HandleFunc("/accounts", we.wrapFunc(we.adminApisHandler.GetAccounts, we.auth.require("accounts", "manage"))).Methods("GET")
	adminSubrouter.HandleFunc("/accounts", we.wrapFunc(we.adminApisHandler.CreateAccount, we.auth.require("accounts", "manage"))).Methods("POST")
	adminSubrouter.HandleFunc("/accounts/{id}", we.wrapFunc(we.adminApisHandler.GetAccount, we.auth.require("accounts", "manage"))).Methods("GET")
	adminSubrouter.HandleFunc("/accounts/{id}", we.wrapFunc(we.adminApisHandler.UpdateAccount, we.auth.require("accounts", "manage"))).Methods("PUT")
	adminSubrouter.HandleFunc("/accounts/{id}/status", we.wrapFunc(we.adminApisHandler.SetAccountStatus, we.auth.require("accounts", "manage"))).Methods("PUT")
	adminSubrouter.HandleFunc("/accounts/{id}/tools", we.wrapFunc(we.adminApisHandler.SetAccountTools, we.auth.require("accounts", "manage"))).Methods("PUT")

	adminSubrouter.HandleFunc("/audit", we.wrapFunc(we.adminApisHandler.GetAuditEvents, we.auth.require("audit", "read"))).Methods("GET")
	///

	///system ///
	systemSubrouter := subRouter.PathPrefix("/system").Subrouter()
	systemSubrouter.HandleFunc("/accounts/{id}/role", we.wrapFunc(we.systemApisHandler.SetAccountRole, we.auth.require("system", "manage"))).Methods("PUT")
	systemSubrouter.HandleFunc("/accounts/{id}", we.wrapFunc(we.systemApisHandler.DeleteAccount, we.auth.require("system", "manage"))).Methods("DELETE")
	systemSubrouter.HandleFunc("/accounts/{id}/ip-restriction", we.wrapFunc(we.systemApisHandler.SetAccountIPRestriction, we.auth.require("system", "manage"))).Methods("PUT")

	systemSubrouter.HandleFunc("/tools", we.wrapFunc(we.systemApisHandler.CreateTool, we.auth.require("system", "manage"))).Methods("POST")
	systemSubrouter.HandleFunc("/tools/{id}", we.wrapFunc(we.systemApisHandler.UpdateTool, we.auth.require("system", "manage"))).Methods("PUT")
	systemSubrouter.HandleFunc("/tools/{id}", we.wrapFunc(we.systemApisHandler.DeleteTool, we.auth.require("system", "manage"))).Methods("DELETE")

	systemSubrouter.HandleFunc("/ip-allowlist", we.wrapFunc(we.systemApisHandler.GetIPAllowlist, we.auth.require("system", "manage"))).Methods("GET")
	systemSubrouter.HandleFunc("/ip-allowlist", we.wrapFunc(we.systemApisHandler.AddIPAllowlistEntry, we.auth.require("system", "manage"))).Methods("POST")
	systemSubrouter.HandleFunc("/ip-allowlist/{id}", we.wrapFunc(we.systemApisHandler.UpdateIPAllowlistEntry, we.auth.require("system", "manage"))).Methods("PUT")
	systemSubrouter.HandleFunc("/ip-allowlist/{id}", we.wrapFunc(we.systemApisHandler.RemoveIPAllowlistEntry, we.auth.require("system", "manage"))).Methods("DELETE")
	///

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   we.corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(router)

	address := fmt.Sprintf("%s:%s", we.host, we.port)
	err := http.ListenAndServe(address, corsHandler)
	if err != nil {
		we.logger.Fatalf("error serving: %v", err)
	}
}

// wrapFunc builds the request log, runs the authorization for the route
// and dispatches to the handler
func (we Adapter) wrapFunc(handler handlerFunc, authorization Authorization) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		logObj := we.logger.NewRequestLog(req)
		logObj.RequestReceived()

		var response logs.HTTPResponse
		if authorization != nil {
			status, account, claims, err := authorization.check(req)
			if err != nil {
				response = logObj.HTTPResponseError("Unauthorized", err, status, true)
			} else {
				response = handler(logObj, req, account, claims)
			}
		} else {
			response = handler(logObj, req, nil, nil)
		}

		logObj.SendHTTPResponse(w, response)
		logObj.RequestComplete()
	}
}

// NewWebAdapter creates a new web adapter instance
func NewWebAdapter(coreAPIs *core.APIs, policy *coreauth.PolicyEvaluator, host string, port string,
	corsOrigins []string, authRatePerSecond float64, authRateBurst int, logger *logs.Logger) Adapter {
	auth := NewAuth(policy)
	authLimiter := newRateLimiter(authRatePerSecond, authRateBurst)

	authApisHandler := NewAuthApisHandler(coreAPIs)
	servicesApisHandler := NewServicesApisHandler(coreAPIs)
	adminApisHandler := NewAdminApisHandler(coreAPIs)
	systemApisHandler := NewSystemApisHandler(coreAPIs)
	return Adapter{host: host, port: port, corsOrigins: corsOrigins, auth: auth, authLimiter: authLimiter,
		logger: logger, authApisHandler: authApisHandler, servicesApisHandler: servicesApisHandler,
		adminApisHandler: adminApisHandler, systemApisHandler: systemApisHandler, coreAPIs: coreAPIs}
}
