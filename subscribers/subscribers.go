package subscribers

import (
	"sync"

	"github.com/kroksys/pool"
)

// Subscribers fans values out to channels grouped by a string key (for
// example a resource name). Sends never block: a subscriber that is not
// ready to receive misses the value.
type Subscribers[T any] struct {
	watchers *pool.PoolStr[*pool.Pool[chan T]]
	mu       sync.Mutex
}

// Create new subscriber pool.
/*
	s := subscribers.New[CreatedEvent]()

	ch := make(chan CreatedEvent, 16)
	chID := s.Register("greetings", ch)
	defer s.Delete("greetings", chID)

	for ev := range ch { ... }
*/
func New[T any]() *Subscribers[T] {
	return &Subscribers[T]{
		watchers: pool.NewPoolStr[*pool.Pool[chan T]](),
	}
}

// Adds new chan to the group and returns its unique ID.
func (s *Subscribers[T]) Register(group string, c chan T) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.watchers.GetOk(group)
	if !ok {
		p = pool.NewPool[chan T]()
		s.watchers.Put(group, p)
	}
	return p.Put(c)
}

// Removes chan from the group. Typically used with defer.
func (s *Subscribers[T]) Delete(group string, chanID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.watchers.GetOk(group); ok {
		p.Delete(chanID)
		if len(p.Data()) == 0 {
			s.watchers.Delete(group)
		}
	}
}

// NotifyGroup sends o to every subscriber of group and returns how many
// received it.
func (s *Subscribers[T]) NotifyGroup(o T, group string) int {
	delivered := 0
	if p, ok := s.watchers.GetOk(group); ok {
		p.Each(func(c chan T) {
			if trySend(c, o) {
				delivered++
			}
		})
	}
	return delivered
}

// Count returns the number of subscribers of group.
func (s *Subscribers[T]) Count(group string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.watchers.GetOk(group); ok {
		return len(p.Data())
	}
	return 0
}

func trySend[T any](c chan T, o T) bool {
	select {
	case c <- o:
		return true
	default:
		return false
	}
}
