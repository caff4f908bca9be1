package users

import (
	"fmt"
	"sync"
)

// Store is the in-process user directory.
type Store struct {
	mu   sync.RWMutex
	byID map[string]*User
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byID: make(map[string]*User)}
}

// Add registers a user, initializing an empty coupon wallet when absent.
func (s *Store) Add(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Coupons == nil {
		u.Coupons = make(map[string]float64)
	}
	s.byID[u.ID] = u
}

// FindByID returns the user with the given id, or nil.
func (s *Store) FindByID(id string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byID[id]
}

// AddCoupon grants a coupon to the user's wallet. Rates outside [0,1]
// are rejected.
func (s *Store) AddCoupon(userID, couponID string, rate float64) error {
	if rate < 0 || rate > 1 {
		return fmt.Errorf("coupon rate must be in [0,1], got %v", rate)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[userID]
	if !ok {
		return fmt.Errorf("user %s not found", userID)
	}
	u.Coupons[couponID] = rate
	return nil
}

// RemoveCoupon deletes a coupon from the user's wallet, reporting
// whether it was present.
func (s *Store) RemoveCoupon(userID, couponID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[userID]
	if !ok {
		return false
	}
	if _, held := u.Coupons[couponID]; !held {
		return false
	}
	delete(u.Coupons, couponID)
	return true
}
