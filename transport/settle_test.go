package transport

import (
	"sync"
	"testing"

	"github.com/open-rails/authbridge/core"
)

func TestSettlement_FirstWriterWins(t *testing.T) {
	s := newSettlement()
	if !s.resolve(core.Fail(core.KindAuthFailed, "Authentication timed out")) {
		t.Fatal("first resolve should win")
	}
	if s.resolve(core.Succeed(core.User{ID: "1", Email: "e@x.com"})) {
		t.Fatal("second resolve should lose")
	}
	<-s.Done()
	if got := s.result(); got.Code != core.KindAuthFailed || got.Error != "Authentication timed out" {
		t.Fatalf("late resolve must not change the settled result: %+v", got)
	}
}

func TestSettlement_ConcurrentResolvers(t *testing.T) {
	s := newSettlement()
	var wg sync.WaitGroup
	wins := make(chan int, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if s.resolve(core.Fail(core.KindAuthFailed, "loser")) {
				wins <- i
			}
		}(i)
	}
	wg.Wait()
	close(wins)
	n := 0
	for range wins {
		n++
	}
	if n != 1 {
		t.Fatalf("exactly one resolver must win, got %d", n)
	}
}
