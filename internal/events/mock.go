package events

import (
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// MockPublisher is a mock implementation of Publisher for testing.
// It is safe for concurrent use.
type MockPublisher struct {
	mu sync.Mutex

	// Spies for method calls
	PublishFunc func(topic EventType, data any) error
	DecodeFunc  func(data []byte, returnValue any) error

	// Call records
	PublishCalls []PublishCall
}

// PublishCall holds the arguments for a call to Publish.
type PublishCall struct {
	Topic EventType
	Data  any
}

// NewMock creates a new mock Publisher.
func NewMock() *MockPublisher {
	return &MockPublisher{}
}

// Reset clears all call records.
func (m *MockPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishCalls = nil
}

// Published returns the recorded calls for a single topic.
func (m *MockPublisher) Published(topic EventType) []PublishCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var calls []PublishCall
	for _, c := range m.PublishCalls {
		if c.Topic == topic {
			calls = append(calls, c)
		}
	}
	return calls
}

func (m *MockPublisher) Publish(topic EventType, data any) error {
	m.mu.Lock()
	m.PublishCalls = append(m.PublishCalls, PublishCall{Topic: topic, Data: data})
	fn := m.PublishFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(topic, data)
	}
	return nil
}

func (m *MockPublisher) Decode(data []byte, returnValue any) error {
	m.mu.Lock()
	fn := m.DecodeFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(data, returnValue)
	}
	return msgpack.Unmarshal(data, returnValue)
}
