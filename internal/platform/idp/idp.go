// Package idp manages accounts in the external identity provider. Doctor and
// staff records use the provider-issued user id as their primary key, so an
// account is always created before the local row and deleted again if the
// local insert fails.
package idp

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Account describes a user to create in the identity provider.
type Account struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	// Role is stored with the account so the provider can hand it back in
	// session claims.
	Role string
}

// Provider creates and deletes identity-provider accounts.
type Provider interface {
	CreateUser(ctx context.Context, acct Account) (string, error)
	DeleteUser(ctx context.Context, userID string) error
}

// SplitName splits a full name on its first space: "Jean Paul Martin" becomes
// ("Jean", "Paul Martin").
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// Local is an in-process Provider for development, used when no identity
// provider is configured. It mints random ids and remembers them.
type Local struct {
	mu       sync.Mutex
	accounts map[string]Account
}

func NewLocal() *Local {
	return &Local{accounts: make(map[string]Account)}
}

func (l *Local) CreateUser(_ context.Context, acct Account) (string, error) {
	id := "user_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	l.mu.Lock()
	l.accounts[id] = acct
	l.mu.Unlock()
	return id, nil
}

func (l *Local) DeleteUser(_ context.Context, userID string) error {
	l.mu.Lock()
	delete(l.accounts, userID)
	l.mu.Unlock()
	return nil
}

// Lookup returns the account stored under userID.
func (l *Local) Lookup(userID string) (Account, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.accounts[userID]
	return a, ok
}
