package feed

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/npccore/ecs/system"
	"github.com/milk9111/npccore/logger"
)

func init() {
	logger.SetOutput(io.Discard)
}

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub()
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func waitClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.Clients() == n }, 2*time.Second, 5*time.Millisecond)
}

func TestKillsReachEveryone(t *testing.T) {
	hub, url := startHub(t)
	a := dial(t, url)
	b := dial(t, url+"?player=7")
	waitClients(t, hub, 2)

	evt := system.KillEvent{ID: uuid.New(), Victim: 3, Attacker: 7, Archetype: "zombie", Headshot: true, Position: mgl64.Vec3{1, 2, 3}}
	hub.AgentKilled(evt)

	for _, conn := range []*websocket.Conn{a, b} {
		msg := read(t, conn)
		assert.Equal(t, TypeKill, msg.Type)
		var got system.KillEvent
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, evt, got)
	}
}

func TestFeedbackIsPrivate(t *testing.T) {
	hub, url := startHub(t)
	anon := dial(t, url)
	attacker := dial(t, url+"?player=7")
	other := dial(t, url+"?player=8")
	waitClients(t, hub, 3)

	hub.DamageFeedback(7, system.DamageFeedback{Victim: 3, Amount: 25, HealthFraction: 0.25})

	msg := read(t, attacker)
	assert.Equal(t, TypeFeedback, msg.Type)
	var fb system.DamageFeedback
	require.NoError(t, json.Unmarshal(msg.Data, &fb))
	assert.Equal(t, 25.0, fb.Amount)
	assert.Equal(t, 0.25, fb.HealthFraction)

	expectSilence(t, anon)
	expectSilence(t, other)
}

func TestFeedbackWithoutAttackerIsDropped(t *testing.T) {
	hub, url := startHub(t)
	anon := dial(t, url)
	waitClients(t, hub, 1)

	hub.DamageFeedback(0, system.DamageFeedback{Amount: 1})
	expectSilence(t, anon)
}

func TestBadPlayerID(t *testing.T) {
	hub := NewHub()
	rec := httptest.NewRecorder()
	hub.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed?player=bob", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, hub.Clients())
}

func TestDisconnectUnregisters(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	waitClients(t, hub, 1)

	require.NoError(t, conn.Close())
	waitClients(t, hub, 0)
}

func TestClosedHubRefusesClients(t *testing.T) {
	hub, url := startHub(t)
	dial(t, url)
	waitClients(t, hub, 1)

	hub.Close()
	assert.Zero(t, hub.Clients())

	conn := dial(t, url)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
