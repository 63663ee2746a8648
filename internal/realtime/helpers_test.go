package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"taskboard-service/internal/models"
)

// fakeConn is a scripted WebSocket connection: tests push inbound frames
// and inspect what the session wrote back.
type fakeConn struct {
	in        chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once

	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:      make(chan []byte, 16),
		closeCh: make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case frame := <-c.in:
		return websocket.TextMessage, frame, nil
	case <-c.closeCh:
		return 0, nil, errors.New("use of closed connection")
	}
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return websocket.ErrCloseSent
	}
	if messageType == websocket.TextMessage {
		frame := make([]byte, len(data))
		copy(frame, data)
		c.frames = append(c.frames, frame)
	}
	return nil
}

func (c *fakeConn) SetReadLimit(int64) {}

func (c *fakeConn) SetReadDeadline(time.Time) error { return nil }

func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (c *fakeConn) SetPongHandler(func(string) error) {}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.closeCh)
	})
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// events decodes every text frame written so far.
func (c *fakeConn) events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Event, 0, len(c.frames))
	for _, frame := range c.frames {
		var ev Event
		if err := json.Unmarshal(frame, &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out
}

func (c *fakeConn) countEvents(t EventType) int {
	n := 0
	for _, ev := range c.events() {
		if ev.Type == t {
			n++
		}
	}
	return n
}

// send pushes an inbound frame as the client would.
func (c *fakeConn) send(tb testing.TB, ev Event) {
	tb.Helper()
	frame, err := json.Marshal(ev)
	if err != nil {
		tb.Fatalf("marshal frame: %v", err)
	}
	c.sendRaw(tb, frame)
}

func (c *fakeConn) sendRaw(tb testing.TB, frame []byte) {
	tb.Helper()
	select {
	case c.in <- frame:
	case <-time.After(time.Second):
		tb.Fatal("timeout pushing inbound frame")
	}
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(tb testing.TB, cond func() bool, msg string) {
	tb.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	tb.Fatalf("timeout waiting for: %s", msg)
}

// settle gives in-flight pump goroutines a beat to drain.
func settle() {
	time.Sleep(50 * time.Millisecond)
}

// fakeVerifier authenticates any credential present in its table.
type fakeVerifier struct {
	identities map[string]Identity
}

func (v *fakeVerifier) VerifyCredential(_ context.Context, credential string) (*Identity, error) {
	identity, ok := v.identities[credential]
	if !ok {
		return nil, errors.New("token expired")
	}
	return &identity, nil
}

// fakeOracle grants membership per (project, user) pair.
type fakeOracle struct {
	mu      sync.Mutex
	members map[uuid.UUID]map[uuid.UUID]bool
	err     error
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{members: make(map[uuid.UUID]map[uuid.UUID]bool)}
}

func (o *fakeOracle) allow(projectID, userID uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.members[projectID] == nil {
		o.members[projectID] = make(map[uuid.UUID]bool)
	}
	o.members[projectID][userID] = true
}

func (o *fakeOracle) IsProjectMember(_ context.Context, projectID, userID uuid.UUID) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return false, o.err
	}
	return o.members[projectID][userID], nil
}

// fakeDirectory serves summaries straight from the identity.
type fakeDirectory struct{}

func (fakeDirectory) Summary(_ context.Context, userID uuid.UUID) (models.UserSummary, error) {
	return models.UserSummary{
		ID:          userID,
		Username:    "user-" + userID.String()[:8],
		DisplayName: "User " + userID.String()[:8],
	}, nil
}

// testHub wires a hub with fakes and tracks the sessions it spawned.
type testHub struct {
	hub      *Hub
	verifier *fakeVerifier
	oracle   *fakeOracle
	wg       sync.WaitGroup
}

func newTestHub() *testHub {
	verifier := &fakeVerifier{identities: make(map[string]Identity)}
	oracle := newFakeOracle()
	return &testHub{
		hub:      NewHub(verifier, oracle, fakeDirectory{}, nil),
		verifier: verifier,
		oracle:   oracle,
	}
}

// connect authenticates a fresh fake connection for the user and waits for
// the session to come up.
func (th *testHub) connect(tb testing.TB, userID uuid.UUID) *fakeConn {
	tb.Helper()

	credential := fmt.Sprintf("token-%s-%d", userID, time.Now().UnixNano())
	th.verifier.identities[credential] = Identity{UserID: userID, DisplayName: "User"}

	conn := newFakeConn()
	th.wg.Add(1)
	go func() {
		defer th.wg.Done()
		th.hub.HandleConnection(conn, credential)
	}()

	waitFor(tb, func() bool { return th.hub.registry.IsConnected(userID) }, "connection registered")
	waitFor(tb, func() bool { return conn.countEvents(EventAuthenticationSuccess) == 1 }, "auth success delivered")
	return conn
}

// subscribe drives a successful subscribe and waits for the ack.
func (th *testHub) subscribe(tb testing.TB, conn *fakeConn, projectID uuid.UUID) {
	tb.Helper()

	before := conn.countEvents(EventSubscriptionSuccess)
	conn.send(tb, subscribeEvent(tb, projectID))
	waitFor(tb, func() bool {
		return conn.countEvents(EventSubscriptionSuccess) > before
	}, "subscription ack delivered")
}

func (th *testHub) shutdown(tb testing.TB, conns ...*fakeConn) {
	tb.Helper()
	for _, conn := range conns {
		conn.Close()
	}
	done := make(chan struct{})
	go func() {
		th.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		tb.Fatal("timeout waiting for sessions to finish")
	}
}

func subscribeEvent(tb testing.TB, projectID uuid.UUID) Event {
	tb.Helper()
	data, err := json.Marshal(SubscriptionData{ProjectID: projectID})
	if err != nil {
		tb.Fatalf("marshal subscribe: %v", err)
	}
	return Event{Type: EventSubscribe, Data: data}
}

func unsubscribeEvent(tb testing.TB, projectID uuid.UUID) Event {
	tb.Helper()
	data, err := json.Marshal(SubscriptionData{ProjectID: projectID})
	if err != nil {
		tb.Fatalf("marshal unsubscribe: %v", err)
	}
	return Event{Type: EventUnsubscribe, Data: data}
}
