package restbatch

import (
	"sync"

	"github.com/kroksys/restbatch/conn"
	"github.com/kroksys/restbatch/spec"
	"go.uber.org/zap"
)

// CreatedEvent announces one successfully created entity.
type CreatedEvent struct {
	Resource string       `json:"resource"`
	ID       string       `json:"id"`
	Status   int          `json:"status"`
	Location string       `json:"location,omitempty"`
	Entity   spec.DataMap `json:"entity,omitempty"`
}

func (s *Server) publishCreated(resourceName string, record spec.CreateIdStatus) {
	ev := CreatedEvent{
		Resource: resourceName,
		ID:       spec.EncodeKey(record.ID, record.Version),
		Status:   record.Status,
		Location: record.Location,
		Entity:   record.Entity,
	}
	s.created.NotifyGroup(ev, resourceName)
}

// Subscribe registers ch for the created events of resourceName. Events are
// dropped for a subscriber whose channel is full. The returned func
// unsubscribes.
func (s *Server) Subscribe(resourceName string, ch chan CreatedEvent) func() {
	id := s.created.Register(resourceName, ch)
	var once sync.Once
	return func() {
		once.Do(func() { s.created.Delete(resourceName, id) })
	}
}

// Subscribers returns the number of subscribers to the created events of
// resourceName.
func (s *Server) Subscribers(resourceName string) int {
	return s.created.Count(resourceName)
}

// Subscription streams the created events of one resource to a websocket
// connection until it is closed or the connection goes away.
type Subscription struct {
	Resource string
	Conn     *conn.Conn

	// Exit will be closed on unsubscribe or when the connection fails.
	Exit     chan interface{}
	exitOnce sync.Once
}

func newSubscription(resourceName string, c *conn.Conn) *Subscription {
	return &Subscription{
		Resource: resourceName,
		Conn:     c,
		Exit:     make(chan interface{}),
	}
}

func (sub *Subscription) Close() {
	sub.exitOnce.Do(func() {
		close(sub.Exit)
	})
}

// run forwards events as "<resource>_created" notifications. It blocks.
func (sub *Subscription) run(s *Server) {
	ch := make(chan CreatedEvent, 64)
	unsubscribe := s.Subscribe(sub.Resource, ch)
	defer unsubscribe()
	s.logger.Debug("created events subscribed",
		zap.String("conn_id", sub.Conn.ID),
		zap.String("resource", sub.Resource),
		zap.Int("subscribers", s.Subscribers(sub.Resource)))
	method := sub.Resource + "_created"
	for {
		select {
		case <-sub.Exit:
			return
		case <-sub.Conn.Exit:
			sub.Close()
			return
		case ev := <-ch:
			if err := sub.Conn.SendJSON(spec.NewNotification(method, ev)); err != nil {
				s.logger.Debug("created notification not delivered",
					zap.String("conn_id", sub.Conn.ID), zap.Error(err))
				sub.Close()
				return
			}
		}
	}
}

// connSubscriptions tracks the subscriptions of one connection.
type connSubscriptions struct {
	mu   sync.Mutex
	subs map[string]*Subscription
}

func newConnSubscriptions() *connSubscriptions {
	return &connSubscriptions{subs: make(map[string]*Subscription)}
}

// add returns the new subscription, or nil when one already exists.
func (cs *connSubscriptions) add(resourceName string, c *conn.Conn) *Subscription {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if sub, ok := cs.subs[resourceName]; ok {
		select {
		case <-sub.Exit:
		default:
			return nil
		}
	}
	sub := newSubscription(resourceName, c)
	cs.subs[resourceName] = sub
	return sub
}

func (cs *connSubscriptions) remove(resourceName string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if sub, ok := cs.subs[resourceName]; ok {
		sub.Close()
		delete(cs.subs, resourceName)
	}
}

func (cs *connSubscriptions) closeAll() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for name, sub := range cs.subs {
		sub.Close()
		delete(cs.subs, name)
	}
}
