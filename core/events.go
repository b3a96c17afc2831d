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

package core

import (
	"sync"
	"time"
)

// Portal event types
const (
	EventDeviceRegistered string = "device.registered"
	EventDeviceReviewed   string = "device.reviewed"
	EventAccountCreated   string = "account.created"
	EventAccountUpdated   string = "account.updated"
	EventToolLaunched     string = "tool.launched"
)

// Event is a notification published on the portal event bus
type Event struct {
	Type    string
	Payload map[string]interface{}
	At      time.Time
}

// EventBus fans portal events out to subscribers. Publishing never
// blocks: a subscriber that falls behind loses events rather than
// stalling request handling.
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan Event
	closed      bool
}

const eventBufferSize = 64

// NewEventBus creates an empty event bus
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a new subscriber and returns its channel
func (b *EventBus) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, eventBufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Publish delivers the event to every subscriber that has room
func (b *EventBus) Publish(eventType string, payload map[string]interface{}) {
	event := Event{Type: eventType, Payload: payload, At: time.Now().UTC()}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close shuts the bus down and closes all subscriber channels
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}
