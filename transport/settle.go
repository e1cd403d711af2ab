package transport

import (
	"sync"

	"github.com/open-rails/authbridge/core"
)

// settlement is a single-assignment result cell shared by the concurrent
// watchers of one attempt. The first resolve wins; every later resolve is a
// no-op, which is what makes a late message after a timeout harmless.
type settlement struct {
	once sync.Once
	done chan struct{}
	res  core.Result
}

func newSettlement() *settlement {
	return &settlement{done: make(chan struct{})}
}

// resolve stores r if the cell is still empty and reports whether this call
// won the race.
func (s *settlement) resolve(r core.Result) bool {
	won := false
	s.once.Do(func() {
		s.res = r
		won = true
		close(s.done)
	})
	return won
}

// Done is closed once the cell is settled.
func (s *settlement) Done() <-chan struct{} { return s.done }

// result must only be read after Done is closed.
func (s *settlement) result() core.Result { return s.res }
