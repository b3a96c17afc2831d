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
	"net/http"
	"sync"
	"time"

	"access-core/utils"

	"golang.org/x/time/rate"
)

const bucketTTL = 5 * time.Minute

// rateLimiter is a token bucket per client IP. Sign in endpoints sit
// behind it so password and code guessing stays slow.
type rateLimiter struct {
	perSecond rate.Limit
	burst     int

	lock    sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiter(perSecond float64, burst int) *rateLimiter {
	rl := rateLimiter{perSecond: rate.Limit(perSecond), burst: burst, buckets: make(map[string]*bucket)}
	go rl.sweep()
	return &rl
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.lock.Lock()
	defer rl.lock.Unlock()

	entry := rl.buckets[ip]
	if entry == nil {
		entry = &bucket{limiter: rate.NewLimiter(rl.perSecond, rl.burst)}
		rl.buckets[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

// sweep drops buckets that have been quiet long enough to refill anyway
func (rl *rateLimiter) sweep() {
	ticker := time.NewTicker(time.Minute)
	for range ticker.C {
		now := time.Now()
		rl.lock.Lock()
		for ip, entry := range rl.buckets {
			if now.Sub(entry.lastSeen) > bucketTTL {
				delete(rl.buckets, ip)
			}
		}
		rl.lock.Unlock()
	}
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := utils.ClientIP(r)
		if ip == "" {
			ip = "unknown"
		}
		if !rl.allow(ip) {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
