package testutil

import (
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
)

type wsFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (b *Backend) serveWs(c *websocket.Conn) {
	tokenStr := c.Query("token")

	b.mu.Lock()
	secret := b.secret
	b.mu.Unlock()

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "invalid token"),
			time.Now().Add(time.Second))
		_ = c.Close()
		return
	}

	b.wsMu.Lock()
	b.wsConns[c] = make(map[string]bool)
	b.wsMu.Unlock()

	defer func() {
		b.wsMu.Lock()
		delete(b.wsConns, c)
		b.wsMu.Unlock()
		_ = c.Close()
	}()

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			return
		}
		var frame wsFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			continue
		}

		var data map[string]interface{}
		_ = json.Unmarshal(frame.Data, &data)

		b.wsMu.Lock()
		b.emitted = append(b.emitted, EmittedFrame{Event: frame.Event, Data: data})
		if orgId, ok := data["organizationId"].(string); ok {
			switch frame.Event {
			case "join_organization":
				b.wsConns[c][orgId] = true
			case "leave_organization":
				delete(b.wsConns[c], orgId)
			}
		}
		b.wsMu.Unlock()
	}
}

// Push broadcasts a server event to every connected client.
func (b *Backend) Push(event string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(wsFrame{Event: event, Data: payload})
	if err != nil {
		return err
	}

	b.wsMu.Lock()
	defer b.wsMu.Unlock()
	for conn := range b.wsConns {
		_ = conn.WriteMessage(websocket.TextMessage, raw)
	}
	return nil
}

func (b *Backend) ConnectionCount() int {
	b.wsMu.Lock()
	defer b.wsMu.Unlock()
	return len(b.wsConns)
}

// WaitForConnection blocks until a websocket client is connected or the
// timeout elapses.
func (b *Backend) WaitForConnection(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if b.ConnectionCount() > 0 {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// EmittedFrames returns a copy of every client-to-server frame seen so far.
func (b *Backend) EmittedFrames() []EmittedFrame {
	b.wsMu.Lock()
	defer b.wsMu.Unlock()
	frames := make([]EmittedFrame, len(b.emitted))
	copy(frames, b.emitted)
	return frames
}

// JoinedOrganizations reports the organization rooms any client currently
// occupies.
func (b *Backend) JoinedOrganizations() []string {
	b.wsMu.Lock()
	defer b.wsMu.Unlock()
	seen := make(map[string]bool)
	for _, rooms := range b.wsConns {
		for room := range rooms {
			seen[room] = true
		}
	}
	orgs := make([]string, 0, len(seen))
	for org := range seen {
		orgs = append(orgs, org)
	}
	return orgs
}
