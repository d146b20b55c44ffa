// Package clipboard provides the clipboard used for copy, paste and
// OSC 52 requests.
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard stores and loads text.
type Clipboard interface {
	Load() (string, error)
	Store(text string) error
}

// System is the desktop clipboard.
type System struct{}

// NewSystem returns the system clipboard, or nil if the platform has no
// clipboard utility available.
func NewSystem() *System {
	if clipboard.Unsupported {
		return nil
	}
	return &System{}
}

// Load reads the clipboard contents.
func (System) Load() (string, error) {
	return clipboard.ReadAll()
}

// Store replaces the clipboard contents.
func (System) Store(text string) error {
	return clipboard.WriteAll(text)
}

// Memory is an in-process clipboard.
type Memory struct {
	mu   sync.Mutex
	text string
}

func (m *Memory) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}

func (m *Memory) Store(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// Default returns the system clipboard when available and an in-memory
// clipboard otherwise.
func Default() Clipboard {
	if sys := NewSystem(); sys != nil {
		return sys
	}
	return &Memory{}
}
