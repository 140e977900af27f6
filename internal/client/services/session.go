// Package services contains application services for the Matchbox CLI:
// sign-in, the local deck of daily matches, ledger actions on records and
// the audio capture pipeline. They sit between the REPL and client.Client.
package services

import (
	"sync"

	"github.com/dmitrijs2005/matchbox/internal/catalog"
	"github.com/dmitrijs2005/matchbox/internal/client/client"
)

// Session holds the actor the CLI is currently acting as.
type Session struct {
	mu    sync.RWMutex
	actor *catalog.Actor
}

func (s *Session) Actor() (catalog.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.actor == nil {
		return catalog.Actor{}, client.ErrNotSignedIn
	}
	return *s.actor, nil
}

func (s *Session) set(a catalog.Actor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actor = &a
}
