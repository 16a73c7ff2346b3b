package commands

import (
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"tweakdeck/internal/deck"
	"tweakdeck/internal/dispatch"
)

// session is a one-shot connection used by the non-interactive commands.
// It collects write failures so the command can exit non-zero.
type session struct {
	deck *deck.Deck

	mu     sync.Mutex
	failed []error
}

// connect creates a deck and displays the engine's active module.
func (a *app) connect(cmd *cobra.Command) (*session, error) {
	s := &session{}
	s.deck = a.newDeck(cmd.Context(), s.record)
	if _, err := s.deck.Refresh(cmd.Context()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session) record(r dispatch.Result) {
	var err error
	switch {
	case r.Err != nil:
		err = fmt.Errorf("write %s: %w", r.Write.Name, r.Err)
	case r.Dropped:
		err = fmt.Errorf("write %s dropped: module changed", r.Write.Name)
	default:
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, err)
}

// finish waits for dispatched writes and reports any that failed.
func (s *session) finish() error {
	s.deck.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Join(s.failed...)
}
