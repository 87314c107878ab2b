package realtime

import (
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/fasthttp/websocket"

	"github.com/Mohd-umair/repmeup-frontend/internal/pkg/logger"
	"github.com/Mohd-umair/repmeup-frontend/internal/pkg/observable"
	"github.com/Mohd-umair/repmeup-frontend/internal/storage"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	handshakeTimeout = 10 * time.Second

	// Per-subscription delivery buffer.
	eventBuffer = 16
)

// Server-to-client event names.
const (
	EventNewInteraction     = "new_interaction"
	EventInteractionUpdated = "interaction_updated"
	EventNotification       = "notification"
)

// Client-to-server event names.
const (
	EventJoinOrganization  = "join_organization"
	EventLeaveOrganization = "leave_organization"
)

type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

// Frame is the wire format of the realtime channel: one JSON object per
// websocket text message.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Client holds at most one websocket connection to the backend's realtime
// endpoint. Connect is idempotent; reconnection is the caller's policy, not
// this component's. Connectivity transitions are reported on a boolean
// stream and never thrown back to callers.
type Client struct {
	url   string
	store storage.Store
	log   logger.ILogger

	mu       sync.Mutex
	conn     *websocket.Conn
	state    ConnState
	done     chan struct{}
	handlers map[string]map[int]chan json.RawMessage
	nextId   int

	writeMu sync.Mutex

	status *observable.State[bool]
}

func New(socketURL string, store storage.Store, log logger.ILogger) *Client {
	return &Client{
		url:      socketURL,
		store:    store,
		log:      log,
		state:    StateDisconnected,
		handlers: make(map[string]map[int]chan json.RawMessage),
		status:   observable.NewSubject[bool](),
	}
}

// Connect opens the channel, authenticating with the bearer token captured
// at call time. A no-op if a connection already exists or is being
// established. Failures are logged and published on the connectivity stream.
func (c *Client) Connect() {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	c.mu.Unlock()

	token := c.store.Token()
	endpoint := c.url
	if token != "" {
		if u, err := url.Parse(endpoint); err == nil {
			q := u.Query()
			q.Set("token", token)
			u.RawQuery = q.Encode()
			endpoint = u.String()
		}
	}

	dialer := websocket.Dialer{HandshakeTimeout: handshakeTimeout}
	conn, _, err := dialer.Dial(endpoint, nil)
	if err != nil {
		c.log.Error("Realtime", "Connection failed", map[string]interface{}{"error": err.Error()})
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		c.status.Set(false)
		return
	}

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	c.mu.Lock()
	c.conn = conn
	c.state = StateConnected
	c.done = done
	c.mu.Unlock()

	c.log.Info("Realtime", "Connected", map[string]interface{}{"url": c.url})
	c.status.Set(true)

	go c.readPump(conn)
	go c.pingLoop(conn, done)
}

// Disconnect closes the channel if open. Safe to call when already
// disconnected.
func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	if conn == nil {
		c.state = StateDisconnected
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.state = StateDisconnected
	close(c.done)
	c.mu.Unlock()

	conn.Close()
	c.log.Info("Realtime", "Disconnected", nil)
	c.status.Set(false)
}

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateConnected
}

// ConnectionStatus subscribes to connectivity transitions: true on connect,
// false on disconnect or connection error.
func (c *Client) ConnectionStatus() *observable.Subscription[bool] {
	return c.status.Subscribe()
}

func (c *Client) readPump(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.log.Warn("Realtime", "Read error, closing channel", map[string]interface{}{"error": err.Error()})
			break
		}
		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.log.Warn("Realtime", "Dropping malformed frame", map[string]interface{}{"error": err.Error()})
			continue
		}
		c.dispatch(frame)
	}
	c.teardown(conn)
}

// teardown transitions to disconnected after a transport error or
// server-side close. No-op when Disconnect already ran for this conn.
func (c *Client) teardown(conn *websocket.Conn) {
	c.mu.Lock()
	if c.conn != conn {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	c.state = StateDisconnected
	close(c.done)
	c.mu.Unlock()

	conn.Close()
	c.status.Set(false)
}

func (c *Client) pingLoop(conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// dispatch delivers under the lock so a concurrent Unsubscribe can never
// close a channel mid-send. Delivery is drop-oldest and cannot block.
func (c *Client) dispatch(frame Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.handlers[frame.Event] {
		deliver(ch, frame.Data)
	}
}

// deliver never blocks the read pump: when a subscriber's buffer is full the
// oldest pending event is evicted so the newest lands.
func deliver(ch chan json.RawMessage, data json.RawMessage) {
	for {
		select {
		case ch <- data:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// Listen registers an independent handler for the named server event. Each
// call gets its own subscription; ending it deregisters exactly that handler
// and nothing else.
func (c *Client) Listen(event string) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextId
	c.nextId++
	ch := make(chan json.RawMessage, eventBuffer)
	if c.handlers[event] == nil {
		c.handlers[event] = make(map[int]chan json.RawMessage)
	}
	c.handlers[event][id] = ch

	return &Subscription{client: c, event: event, id: id, ch: ch}
}

func (c *Client) unsubscribe(event string, id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	subs := c.handlers[event]
	ch, ok := subs[id]
	if !ok {
		return
	}
	delete(subs, id)
	if len(subs) == 0 {
		delete(c.handlers, event)
	}
	close(ch)
}

// Emit sends an event to the server, fire-and-forget. Fails silently (log
// only) when not connected.
func (c *Client) Emit(event string, payload interface{}) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		c.log.Warn("Realtime", "Emit while disconnected, dropping", map[string]interface{}{"event": event})
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		c.log.Error("Realtime", "Emit payload marshal failed", map[string]interface{}{"event": event, "error": err.Error()})
		return
	}
	frame, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		c.log.Error("Realtime", "Emit frame marshal failed", map[string]interface{}{"event": event, "error": err.Error()})
		return
	}

	c.writeMu.Lock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = conn.WriteMessage(websocket.TextMessage, frame)
	c.writeMu.Unlock()
	if err != nil {
		c.log.Error("Realtime", "Emit failed", map[string]interface{}{"event": event, "error": err.Error()})
	}
}

// OnNewInteraction subscribes to inbound interactions pushed by the server.
func (c *Client) OnNewInteraction() *Subscription {
	return c.Listen(EventNewInteraction)
}

// OnInteractionUpdated subscribes to interaction mutations pushed by the
// server.
func (c *Client) OnInteractionUpdated() *Subscription {
	return c.Listen(EventInteractionUpdated)
}

// OnNotification subscribes to user-facing notifications.
func (c *Client) OnNotification() *Subscription {
	return c.Listen(EventNotification)
}

// JoinOrganization enters the organization's broadcast scope.
func (c *Client) JoinOrganization(organizationId string) {
	c.Emit(EventJoinOrganization, map[string]string{"organizationId": organizationId})
}

// LeaveOrganization exits the organization's broadcast scope.
func (c *Client) LeaveOrganization(organizationId string) {
	c.Emit(EventLeaveOrganization, map[string]string{"organizationId": organizationId})
}

// Subscription is one Listen registration. Events arrive on C until
// Unsubscribe closes it.
type Subscription struct {
	client *Client
	event  string
	id     int
	ch     chan json.RawMessage
	once   sync.Once
}

func (s *Subscription) C() <-chan json.RawMessage {
	return s.ch
}

func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.client.unsubscribe(s.event, s.id)
	})
}
