package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eulark/eulark-site/models"
)

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func dialRoom(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, AdminTicketsRoom)
		if !hub.Register(client) {
			conn.Close()
			return
		}
		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubDeliversTicketsToAdminRoom(t *testing.T) {
	hub := startHub(t)
	conn := dialRoom(t, hub)

	require.Eventually(t, func() bool { return hub.RoomSize(AdminTicketsRoom) == 1 }, time.Second, 10*time.Millisecond)

	hub.TicketCreated(context.Background(), &models.ContactMessage{ID: 42, PlayerName: "alice", Message: "help"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev struct {
		Type    string                `json:"type"`
		RoomID  string                `json:"room_id"`
		Payload models.ContactMessage `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, EventTicketCreated, ev.Type)
	assert.Equal(t, AdminTicketsRoom, ev.RoomID)
	assert.Equal(t, 42, ev.Payload.ID)
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub := startHub(t)
	conn := dialRoom(t, hub)
	require.Eventually(t, func() bool { return hub.RoomSize(AdminTicketsRoom) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.RoomSize(AdminTicketsRoom) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHubStopsRegisteringAfterShutdown(t *testing.T) {
	hub := NewHub(nopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	assert.False(t, hub.Register(&Client{hub: hub, room: AdminTicketsRoom, send: make(chan []byte, 1)}))
}

type recorder struct {
	mu  sync.Mutex
	ids []int
}

func (r *recorder) TicketCreated(ctx context.Context, msg *models.ContactMessage) {
	r.mu.Lock()
	r.ids = append(r.ids, msg.ID)
	r.mu.Unlock()
}

func TestMultiForwardsToAll(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Multi{a, b}.TicketCreated(context.Background(), &models.ContactMessage{ID: 5})
	assert.Equal(t, []int{5}, a.ids)
	assert.Equal(t, []int{5}, b.ids)
}

func TestDiscordNotifierSendsEmbed(t *testing.T) {
	got := make(chan *discordgo.WebhookParams, 1)
	d := &DiscordNotifier{
		execute: func(p *discordgo.WebhookParams) error {
			got <- p
			return nil
		},
		logger: nopLogger(),
	}

	d.TicketCreated(context.Background(), &models.ContactMessage{
		ID: 9, PlayerName: "alice", Email: "a@x.com", Message: "help", CreatedAt: time.Now(),
	})

	select {
	case p := <-got:
		require.Len(t, p.Embeds, 1)
		assert.Equal(t, "New ticket #9", p.Embeds[0].Title)
		assert.Equal(t, "help", p.Embeds[0].Description)
		assert.Equal(t, "alice", p.Embeds[0].Fields[0].Value)
	case <-time.After(time.Second):
		t.Fatal("webhook was not executed")
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
