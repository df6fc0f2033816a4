package store

import (
	"context"
	"sync"

	"github.com/lyon1/condense/internal/profile"
)

// Store provides database access to all graph and supergraph data.
type Store struct {
	Profile *profile.Profile
	driver  Driver

	graphCache sync.Map // name -> *Graph
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		Profile: profile,
		driver:  driver,
	}
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.driver.GetDB().PingContext(ctx)
}
