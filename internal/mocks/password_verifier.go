package mocks

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	// ShouldSucceed determines whether the password comparison should succeed
	ShouldSucceed bool

	// CompareFn allows for custom comparison logic in tests
	CompareFn func(hashedPassword, password string) error

	mu        sync.Mutex
	callCount int
	lastHash  string
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.mu.Lock()
	m.callCount++
	m.lastHash = hashedPassword
	m.mu.Unlock()

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return bcrypt.ErrMismatchedHashAndPassword
}

// CallCount reports how many times Compare ran.
func (m *MockPasswordVerifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastHash returns the hash passed to the most recent Compare call.
func (m *MockPasswordVerifier) LastHash() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastHash
}
