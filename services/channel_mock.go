package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vee4group/order-tracker-api/notify"
)

// SentMessage is one delivery captured by MockChannel.
type SentMessage struct {
	Address string
	Content notify.Content
}

// MockChannel is an in-memory notify.Channel for testing
type MockChannel struct {
	name     string
	enabled  bool
	phoneKey bool
	failFor  map[string]error
	sent     []SentMessage
	mu       sync.RWMutex
}

// NewMockEmailChannel creates a mock that addresses recipients by email
func NewMockEmailChannel() *MockChannel {
	return &MockChannel{name: "email", enabled: true, failFor: map[string]error{}}
}

// NewMockWhatsAppChannel creates a mock that addresses recipients by phone
func NewMockWhatsAppChannel() *MockChannel {
	return &MockChannel{name: "whatsapp", enabled: true, phoneKey: true, failFor: map[string]error{}}
}

func (m *MockChannel) Name() string {
	return m.name
}

func (m *MockChannel) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// SetEnabled simulates a configured or unconfigured channel
func (m *MockChannel) SetEnabled(enabled bool) {
	m.mu.Lock()
	m.enabled = enabled
	m.mu.Unlock()
}

func (m *MockChannel) Address(r notify.Recipient) string {
	if m.phoneKey {
		return r.Phone
	}
	return r.Email
}

// FailFor makes every send to address fail with err
func (m *MockChannel) FailFor(address string, err error) {
	if err == nil {
		err = errors.New("mock delivery failure")
	}
	m.mu.Lock()
	m.failFor[address] = err
	m.mu.Unlock()
}

// Send records the delivery
func (m *MockChannel) Send(ctx context.Context, address string, content notify.Content) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failFor[address]; err != nil {
		return "", err
	}
	m.sent = append(m.sent, SentMessage{Address: address, Content: content})
	return fmt.Sprintf("mock-%s-%d", m.name, len(m.sent)), nil
}

// Sent returns a copy of all recorded deliveries
func (m *MockChannel) Sent() []SentMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// SentTo returns the deliveries recorded for one address
func (m *MockChannel) SentTo(address string) []SentMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []SentMessage
	for _, s := range m.sent {
		if s.Address == address {
			out = append(out, s)
		}
	}
	return out
}

// Clear removes all recorded deliveries
func (m *MockChannel) Clear() {
	m.mu.Lock()
	m.sent = nil
	m.mu.Unlock()
}
