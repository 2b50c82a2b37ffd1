package subscribers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotifyGroup(t *testing.T) {
	s := New[string]()
	a := make(chan string, 1)
	b := make(chan string, 1)
	other := make(chan string, 1)

	s.Register("greetings", a)
	s.Register("greetings", b)
	s.Register("tokens", other)

	assert.Equal(t, 2, s.NotifyGroup("hello", "greetings"))
	assert.Equal(t, "hello", <-a)
	assert.Equal(t, "hello", <-b)
	assert.Empty(t, other)
}

func TestNotifyGroup_SkipsFullChannels(t *testing.T) {
	s := New[int]()
	full := make(chan int)
	s.Register("g", full)

	assert.Equal(t, 0, s.NotifyGroup(1, "g"))
}

func TestDelete(t *testing.T) {
	s := New[int]()
	c := make(chan int, 1)
	id := s.Register("g", c)
	assert.Equal(t, 1, s.Count("g"))

	s.Delete("g", id)
	assert.Equal(t, 0, s.Count("g"))
	assert.Equal(t, 0, s.NotifyGroup(1, "g"))
}
