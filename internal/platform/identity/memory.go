package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	uid  string
	hash []byte
}

// Memory is an in-process Provider with bcrypt-hashed passwords. It backs
// tests and local development; deployments substitute the hosted provider.
type Memory struct {
	mu      sync.RWMutex
	byEmail map[string]*account
	emailOf map[string]string
}

var _ Provider = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{byEmail: make(map[string]*account), emailOf: make(map[string]string)}
}

func (m *Memory) SignIn(ctx context.Context, email, password string) (string, error) {
	m.mu.RLock()
	acc, ok := m.byEmail[normalize(email)]
	m.mu.RUnlock()
	if !ok {
		return "", ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return "", ErrWrongPassword
	}
	return acc.uid, nil
}

func (m *Memory) CreateUser(ctx context.Context, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	em := normalize(email)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[em]; exists {
		return "", ErrEmailInUse
	}
	uid := uuid.NewString()
	m.byEmail[em] = &account{uid: uid, hash: hash}
	m.emailOf[uid] = em
	return uid, nil
}

func (m *Memory) DeleteUser(ctx context.Context, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	em, ok := m.emailOf[uid]
	if !ok {
		return ErrUserNotFound
	}
	delete(m.byEmail, em)
	delete(m.emailOf, uid)
	return nil
}

func normalize(email string) string { return strings.ToLower(strings.TrimSpace(email)) }
