// Package auth is a demo-grade session layer: it fabricates a user on sign
// in and remembers it across restarts through a small file store. The ledger
// never consults it; it only personalizes the client.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrEmptyEmail = errors.New("auth: email is required")

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	BusinessName string `json:"business_name,omitempty"`
}

// Metadata is the optional profile supplied at sign up.
type Metadata struct {
	FirstName    string
	LastName     string
	BusinessName string
}

// Service signs users in and out. Any email and password pair is accepted;
// a short delay models the round trip a real identity provider would take.
type Service struct {
	store *Store
	delay time.Duration

	mu      sync.RWMutex
	current *User
}

func NewService(store *Store, delay time.Duration) *Service {
	s := &Service{store: store, delay: delay}
	if u, err := store.Load(); err == nil {
		s.current = &u
	}
	return s
}

func (s *Service) SignIn(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return User{}, ErrEmptyEmail
	}
	if err := s.pause(ctx); err != nil {
		return User{}, err
	}

	u := User{
		ID:           "user-" + uuid.NewString(),
		Email:        email,
		FirstName:    "Business",
		LastName:     "Owner",
		BusinessName: businessNameFor(email),
	}
	return u, s.establish(u)
}

func (s *Service) SignUp(ctx context.Context, email, password string, meta Metadata) (User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return User{}, ErrEmptyEmail
	}
	if err := s.pause(ctx); err != nil {
		return User{}, err
	}

	u := User{
		ID:           "user-" + uuid.NewString(),
		Email:        email,
		FirstName:    meta.FirstName,
		LastName:     meta.LastName,
		BusinessName: meta.BusinessName,
	}
	return u, s.establish(u)
}

func (s *Service) SignOut() error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	return s.store.Clear()
}

// CurrentUser returns the signed-in user, or nil when signed out.
func (s *Service) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	u := *s.current
	return &u
}

func (s *Service) establish(u User) error {
	if err := s.store.Save(u); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.mu.Lock()
	s.current = &u
	s.mu.Unlock()
	return nil
}

func (s *Service) pause(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func businessNameFor(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at] + " Business"
	}
	return "My Business"
}
