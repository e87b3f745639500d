package auth

import (
	"sync"

	"github.com/google/uuid"
)

// Account is a marketplace identity with credentials. The engine never sees
// accounts — it only receives the account id as the caller parameter.
type Account struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"` // commuter, provider, minter, admin
}

// Store is the in-process account registry.
type Store struct {
	mu      sync.Mutex
	byEmail map[string]*Account
	byID    map[string]*Account
}

func NewStore() *Store {
	return &Store{
		byEmail: make(map[string]*Account),
		byID:    make(map[string]*Account),
	}
}

// Create registers a new account; the email must be unused.
func (s *Store) Create(name, email, passwordHash, role string) (*Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[email]; ok {
		return nil, false
	}
	a := &Account{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	s.byEmail[email] = a
	s.byID[a.ID] = a
	return a, true
}

// ByEmail looks an account up by email.
func (s *Store) ByEmail(email string) (*Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byEmail[email]
	return a, ok
}

// ByID looks an account up by id.
func (s *Store) ByID(id string) (*Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	return a, ok
}
