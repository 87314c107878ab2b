package observable

import "sync"

// subscriber buffer size. Mirrors the buffered-send discipline of a websocket
// hub: a subscriber that stops draining loses intermediate values, never the
// publisher's progress.
const subscriberBuffer = 32

// State is a value cell with multi-subscriber fan-out. Set stores the value
// and delivers it to every live subscriber in registration order before
// returning, so all subscribers observe updates in publish order. Subscribe
// replays the current value immediately (BehaviorSubject semantics); use
// NewSubject for a replay-free stream.
type State[T any] struct {
	mu     sync.Mutex
	value  T
	replay bool
	order  []int
	subs   map[int]chan T
	nextId int
}

func NewState[T any](initial T) *State[T] {
	return &State[T]{
		value:  initial,
		replay: true,
		subs:   make(map[int]chan T),
	}
}

// NewSubject is a State that does not replay the current value on subscribe.
// Subscribers only see values published after they subscribed.
func NewSubject[T any]() *State[T] {
	return &State[T]{
		subs: make(map[int]chan T),
	}
}

// Get returns the current value.
func (s *State[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set stores v and fans it out to all current subscribers, in the order they
// subscribed. If a subscriber's buffer is full its oldest pending value is
// dropped so the newest always lands.
func (s *State[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = v
	for _, id := range s.order {
		s.deliver(s.subs[id], v)
	}
}

func (s *State[T]) deliver(ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
			// Full: evict the oldest pending value and retry.
			select {
			case <-ch:
			default:
			}
		}
	}
}

// Subscribe registers a new subscriber and returns its subscription. The
// caller must call Unsubscribe when done; subscriptions do not leak handlers
// across subscribe/unsubscribe cycles.
func (s *State[T]) Subscribe() *Subscription[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextId
	s.nextId++
	ch := make(chan T, subscriberBuffer)
	s.subs[id] = ch
	s.order = append(s.order, id)

	if s.replay {
		ch <- s.value
	}

	return &Subscription[T]{state: s, id: id, ch: ch}
}

// SubscriberCount reports the number of live subscriptions.
func (s *State[T]) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *State[T]) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.subs[id]
	if !ok {
		return
	}
	delete(s.subs, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	close(ch)
}

// Subscription is one subscriber's view of a State.
type Subscription[T any] struct {
	state *State[T]
	id    int
	ch    chan T
	once  sync.Once
}

// C is the subscriber's delivery channel. It is closed on Unsubscribe.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Unsubscribe deregisters the subscription and closes its channel. Safe to
// call more than once.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		s.state.unsubscribe(s.id)
	})
}
