// Package testutil builds the stores the package tests run against.
package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"yatube/internal/config"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens a migrated SQLite database that lives as long as the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := config.OpenDB("sqlite", filepath.Join(t.TempDir(), "yatube.db"))
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	t.Cleanup(func() { _ = config.CloseDB(db) })
	return db
}

// MemorySessions is an in-process SessionStore.
type MemorySessions struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{revoked: map[string]time.Time{}}
}

func (m *MemorySessions) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (m *MemorySessions) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.revoked[tokenID]
	return ok && time.Now().Before(until), nil
}
