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

package utils

import (
	"net/http/httptest"
	"testing"

	"gotest.tools/assert"
)

func TestGenerateNumericCode(t *testing.T) {
	code, err := GenerateNumericCode(6)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, len(code), 6, "code length is different")
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Errorf("code %q holds a non digit", code)
		}
	}
}

func TestGenerateRandomString(t *testing.T) {
	first, err := GenerateRandomString(32)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := GenerateRandomString(32)
	if first == second {
		t.Error("two random strings collided")
	}
}

func TestHashToken(t *testing.T) {
	first := HashToken("token")
	second := HashToken("token")
	assert.Equal(t, first, second, "hash is not deterministic")
	assert.Equal(t, len(first), 64, "hash is not a sha256 hex digest")

	if HashToken("other") == first {
		t.Error("different tokens hashed the same")
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:52100"
	assert.Equal(t, ClientIP(req), "10.0.0.1", "remote addr ip is different")

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, ClientIP(req), "203.0.113.7", "forwarded ip is different")
}

func TestContains(t *testing.T) {
	list := []string{"one", "two"}
	if !Contains(list, "one") {
		t.Error("listed value not found")
	}
	if Contains(list, "three") {
		t.Error("unlisted value found")
	}
	if Contains(nil, "one") {
		t.Error("empty list contains nothing")
	}
}
