package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/relaychat-server/internal/config"
	"github.com/vovakirdan/relaychat-server/internal/core"
)

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	hub := core.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	nop := zerolog.Nop()
	server := NewServer(hub, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
		EventBuffer:       16,
	}, &nop)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func readLine(t *testing.T, ctx context.Context, conn *websocket.Conn) string {
	t.Helper()

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(data)
}

func writeLine(t *testing.T, ctx context.Context, conn *websocket.Conn, line string) {
	t.Helper()

	if err := conn.Write(ctx, websocket.MessageText, []byte(line)); err != nil {
		t.Fatalf("write %q: %v", line, err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketCommandFlow(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Dial sequentially and consume each greeting so the nickname order is fixed.
	connA := dialWS(t, ctx, ts)
	if got := readLine(t, ctx, connA); got != ":User0 CONNECT" {
		t.Fatalf("greeting A: %q", got)
	}
	connB := dialWS(t, ctx, ts)
	if got := readLine(t, ctx, connB); got != ":User1 CONNECT" {
		t.Fatalf("greeting B: %q", got)
	}

	// The sender prefix on inbound lines is advisory and gets stamped server-side.
	writeLine(t, ctx, connA, ":whoever CREATE general 0")
	if got := readLine(t, ctx, connA); got != ":User0 CREATE general 0" {
		t.Fatalf("create ack: %q", got)
	}

	writeLine(t, ctx, connB, ":whoever JOIN general")
	want := ":User0 NAMES general :User0 User1"
	if got := readLine(t, ctx, connB); got != want {
		t.Fatalf("names for joiner: %q", got)
	}
	if got := readLine(t, ctx, connA); got != want {
		t.Fatalf("names for owner: %q", got)
	}

	writeLine(t, ctx, connA, ":whoever MESG general :hi there")
	if got := readLine(t, ctx, connB); got != ":User0 MESG general :hi there" {
		t.Fatalf("message for B: %q", got)
	}
	if got := readLine(t, ctx, connA); got != ":User0 MESG general :hi there" {
		t.Fatalf("message echo for A: %q", got)
	}

	writeLine(t, ctx, connB, "not a command")
	if got := readLine(t, ctx, connB); !strings.HasPrefix(got, "ERROR malformed") {
		t.Fatalf("expected malformed error, got %q", got)
	}
}

func TestSnapshotAPI(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	if got := readLine(t, ctx, conn); got != ":User0 CONNECT" {
		t.Fatalf("greeting: %q", got)
	}
	writeLine(t, ctx, conn, ":whoever CREATE general 0")
	if got := readLine(t, ctx, conn); got != ":User0 CREATE general 0" {
		t.Fatalf("create ack: %q", got)
	}

	var users UsersResponse
	getJSON(t, ts, "/api/users", 200, &users)
	if !slices.Equal(users.Users, []string{"User0"}) {
		t.Fatalf("users: %v", users.Users)
	}

	var channels ChannelsResponse
	getJSON(t, ts, "/api/channels", 200, &channels)
	if !slices.Equal(channels.Channels, []string{"general"}) {
		t.Fatalf("channels: %v", channels.Channels)
	}

	var members MembersResponse
	getJSON(t, ts, "/api/channels/general/members", 200, &members)
	if members.Owner != "User0" || !slices.Equal(members.Members, []string{"User0"}) {
		t.Fatalf("members: %+v", members)
	}

	var apiErr ErrorResponse
	getJSON(t, ts, "/api/channels/ghost/members", 404, &apiErr)
	if apiErr.Error == "" {
		t.Fatal("expected error body for missing channel")
	}
}

func getJSON(t *testing.T, ts *httptest.Server, path string, wantStatus int, out any) {
	t.Helper()

	resp, err := ts.Client().Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: status %d, want %d", path, resp.StatusCode, wantStatus)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("GET %s: decode: %v", path, err)
	}
}
