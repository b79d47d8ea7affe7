// Package portfolio implements the admin client for the portfolio API:
// a thin HTTP client, the local admin-password cache, and the local
// skills store.
package portfolio

import (
	"encoding/json"
	"os"
	"sync"
)

// defaultPassword mirrors the server's compiled-in fallback secret. Used
// when no cached value exists yet.
const defaultPassword = "deokslife"

const cacheFile = "admin_password.json"

// PasswordCache is a file-backed copy of the admin password, kept so the
// user is not prompted on every operation. It is an optimization only: the
// server remains the sole authority and every value is confirmed remotely
// before the cache is trusted.
type PasswordCache struct {
	path string
	mu   sync.Mutex
}

// NewPasswordCache creates a cache stored at path, defaulting to
// admin_password.json in the working directory.
func NewPasswordCache(path string) *PasswordCache {
	if path == "" {
		path = cacheFile
	}
	return &PasswordCache{path: path}
}

// Get returns the cached password, or the default when nothing has been
// cached yet. It never fails: unreadable state degrades to the default.
func (c *PasswordCache) Get() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		return defaultPassword
	}
	var stored struct {
		AdminPassword string `json:"admin_password"`
	}
	if err := json.Unmarshal(data, &stored); err != nil || stored.AdminPassword == "" {
		return defaultPassword
	}
	return stored.AdminPassword
}

// Set overwrites the cached password.
func (c *PasswordCache) Set(password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(struct {
		AdminPassword string `json:"admin_password"`
	}{AdminPassword: password})
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o600)
}
