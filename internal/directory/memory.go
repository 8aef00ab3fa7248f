package directory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/gridbridge/profilegw/pkg/models"
)

// Memory implements contracts.UserDirectory with in-memory maps.
type Memory struct {
	mu      sync.RWMutex
	locals  map[uuid.UUID]*models.UserAccount // key: user id
	foreign map[uuid.UUID]map[string]string   // key: user id → server type → url
}

// NewMemory creates an empty directory.
func NewMemory() *Memory {
	return &Memory{
		locals:  make(map[uuid.UUID]*models.UserAccount),
		foreign: make(map[uuid.UUID]map[string]string),
	}
}

// AddLocalUser registers (or replaces) a local account.
func (m *Memory) AddLocalUser(_ context.Context, account *models.UserAccount) error {
	cp := *account
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locals[account.UserID] = &cp
	delete(m.foreign, account.UserID)
	return nil
}

// AddForeignUser registers the server URLs a foreign user's home grid
// advertises. Existing URLs for other server types are kept.
func (m *Memory) AddForeignUser(_ context.Context, userID uuid.UUID, serverURLs map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locals, userID)
	urls := m.foreign[userID]
	if urls == nil {
		urls = make(map[string]string, len(serverURLs))
		m.foreign[userID] = urls
	}
	for k, v := range serverURLs {
		urls[k] = v
	}
	return nil
}

// IsLocalUser reports whether userID has a local account.
func (m *Memory) IsLocalUser(_ context.Context, userID uuid.UUID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.locals[userID]
	return ok
}

// UserServerURL returns the advertised URL, "" when unknown.
func (m *Memory) UserServerURL(_ context.Context, userID uuid.UUID, serverType string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.foreign[userID][serverType]
}

// Account returns a copy of the local account.
func (m *Memory) Account(_ context.Context, userID uuid.UUID) (*models.UserAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.locals[userID]
	if !ok {
		return nil, notFound("account", userID)
	}
	cp := *a
	return &cp, nil
}
