package credential

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/99designs/keyring"
)

const serviceName = "planner"

// ErrNotFound is returned by Get when no value is stored under a key.
var ErrNotFound = errors.New("credential not found")

// Storage persists small string values under fixed keys. Implementations
// must be safe for concurrent use.
type Storage interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(key string) (string, error)

	// Set stores value under key, overwriting any previous value.
	Set(key string, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// Lister is implemented by storages that can enumerate their keys.
type Lister interface {
	Keys() ([]string, error)
}

// Keyring is a Storage backed by the operating system keyring.
type Keyring struct {
	mu   sync.Mutex
	ring keyring.Keyring
}

// OpenKeyring returns a Keyring using the platform keychain when available
// and an encrypted file under dir otherwise.
func OpenKeyring(dir string) (*Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  filepath.Join(dir, "credentials"),
		FilePasswordFunc:         keyring.FixedStringPrompt("planner-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &Keyring{ring: ring}, nil
}

// NewMemory returns a Keyring held entirely in process memory. Values are
// lost when the process exits.
func NewMemory() *Keyring {
	return &Keyring{ring: keyring.NewArrayKeyring(nil)}
}

// Get retrieves a credential value by key.
func (k *Keyring) Get(key string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	item, err := k.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key.
func (k *Keyring) Set(key string, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	err := k.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: serviceName + " " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key.
func (k *Keyring) Delete(key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	err := k.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// Keys lists every stored key in ascending order.
func (k *Keyring) Keys() ([]string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	keys, err := k.ring.Keys()
	if err != nil {
		return nil, fmt.Errorf("listing credentials: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}
